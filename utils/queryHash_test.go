package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateQueryKeyIsDeterministic(t *testing.T) {
	// Same filters built in a different insertion order must hash identically,
	// otherwise cache lookups would miss on every request.
	first := map[string]string{"gender": "female", "nationality": "malaysian", "status": "vip"}
	second := map[string]string{"status": "vip", "gender": "female", "nationality": "malaysian"}

	keyA := GenerateQueryKey("guests", first, 1, 20)
	keyB := GenerateQueryKey("guests", second, 1, 20)

	assert.Equal(t, keyA, keyB)
	assert.True(t, strings.HasPrefix(keyA, "guests:"))
}

func TestGenerateQueryKeyVariesWithQuery(t *testing.T) {
	base := GenerateQueryKey("guests", map[string]string{"gender": "female"}, 1, 20)

	differentPage := GenerateQueryKey("guests", map[string]string{"gender": "female"}, 2, 20)
	differentSize := GenerateQueryKey("guests", map[string]string{"gender": "female"}, 1, 50)
	differentFilter := GenerateQueryKey("guests", map[string]string{"gender": "male"}, 1, 20)
	differentResource := GenerateQueryKey("tokens", map[string]string{"gender": "female"}, 1, 20)

	assert.NotEqual(t, base, differentPage)
	assert.NotEqual(t, base, differentSize)
	assert.NotEqual(t, base, differentFilter)
	assert.NotEqual(t, base, differentResource)
	assert.True(t, strings.HasPrefix(differentResource, "tokens:"))
}

func TestGenerateQueryKeyTreatsNilAndEmptyFiltersAlike(t *testing.T) {
	withNil := GenerateQueryKey("capsules", nil, 1, 20)
	withEmpty := GenerateQueryKey("capsules", map[string]string{}, 1, 20)

	assert.Equal(t, withNil, withEmpty)
}
