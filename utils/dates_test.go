package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// DATE NORMALIZATION
// ============================================================================

func TestNormalizeDateUsesHostelTimezone(t *testing.T) {
	// 23:30 UTC is already the next calendar day in Kuala Lumpur (UTC+8).
	utcEvening := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

	normalized := NormalizeDate(utcEvening)

	assert.Equal(t, 2026, normalized.Year())
	assert.Equal(t, time.March, normalized.Month())
	assert.Equal(t, 15, normalized.Day())
	assert.Equal(t, 0, normalized.Hour())
	assert.Equal(t, 0, normalized.Minute())
	assert.Equal(t, DateLocation, normalized.Location())
}

func TestNormalizeDateIsIdempotent(t *testing.T) {
	midday := time.Date(2026, 3, 14, 13, 45, 10, 0, DateLocation)

	once := NormalizeDate(midday)
	twice := NormalizeDate(once)

	assert.True(t, once.Equal(twice))
	assert.Equal(t, 14, once.Day())
}

func TestISODateFormatsInHostelTimezone(t *testing.T) {
	utcEvening := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-15", ISODate(utcEvening))
	assert.Equal(t, "2026-03-14", ISODate(time.Date(2026, 3, 14, 9, 0, 0, 0, DateLocation)))
}

// ============================================================================
// DATE-ONLY JSON FIELD
// ============================================================================

func TestDateOnlyParsesBackendDateString(t *testing.T) {
	var payload struct {
		ExpectedCheckoutDate DateOnly `json:"expectedCheckoutDate"`
	}

	err := json.Unmarshal([]byte(`{"expectedCheckoutDate":"2026-03-20"}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-20", payload.ExpectedCheckoutDate.String())

	parsed := time.Time(payload.ExpectedCheckoutDate)
	assert.Equal(t, 20, parsed.Day())
	assert.Equal(t, time.March, parsed.Month())
}

func TestDateOnlyRejectsTimestamps(t *testing.T) {
	var d DateOnly
	err := d.UnmarshalJSON([]byte(`"2026-03-20T15:04:05Z"`))
	require.Error(t, err)
}
