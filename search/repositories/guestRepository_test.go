package repositories

import (
	"testing"

	search_services "capsule-desk-backend/search/services"
	store_models "capsule-desk-backend/store/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSeededRepo(t *testing.T) *SearchRepository {
	t.Helper()
	repo, _ := NewSearchRepository(search_services.NewIndexingService(zap.NewNop()))

	err := repo.ReindexGuests([]store_models.Guest{
		{
			ID:            "g1",
			Name:          "Aisyah Binti",
			CapsuleNumber: "C12",
			PhoneNumber:   "+60123456789",
			Nationality:   "Malaysian",
			Status:        store_models.GuestStatusVIP,
			IsCheckedIn:   true,
		},
		{
			ID:            "g2",
			Name:          "Ben Carter",
			CapsuleNumber: "C3",
			PhoneNumber:   "+447911123456",
			Nationality:   "British",
			Status:        store_models.GuestStatusNone,
			IsCheckedIn:   true,
		},
		{
			ID:            "g3",
			Name:          "Chen Wei",
			CapsuleNumber: "C21",
			PhoneNumber:   "+8613712345678",
			Nationality:   "Chinese",
			Status:        store_models.GuestStatusNone,
			IsCheckedIn:   false,
		},
	})
	require.NoError(t, err)
	return repo
}

func hitIDs(result *bleve.SearchResult) []string {
	out := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		out = append(out, hit.ID)
	}
	return out
}

func TestSearchGuestsByCapsuleNumber(t *testing.T) {
	repo := newSeededRepo(t)

	result, err := repo.SearchGuests("C12", "", nil)
	require.NoError(t, err)
	require.NotZero(t, result.Total)
	assert.Equal(t, "g1", result.Hits[0].ID)
}

func TestSearchGuestsByNamePrefix(t *testing.T) {
	repo := newSeededRepo(t)

	result, err := repo.SearchGuests("ais", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, hitIDs(result))
}

func TestSearchGuestsToleratesTypos(t *testing.T) {
	repo := newSeededRepo(t)

	// One letter off from "aisyah".
	result, err := repo.SearchGuests("aisyeh", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, hitIDs(result))
}

func TestSearchGuestsByPhonePrefix(t *testing.T) {
	repo := newSeededRepo(t)

	result, err := repo.SearchGuests("6012", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, hitIDs(result))
}

func TestSearchGuestsCheckedInFilter(t *testing.T) {
	repo := newSeededRepo(t)

	checkedIn := true
	result, err := repo.SearchGuests("chen", "", &checkedIn)
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	checkedIn = false
	result, err = repo.SearchGuests("chen", "", &checkedIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"g3"}, hitIDs(result))
}

func TestSearchGuestsStatusFilter(t *testing.T) {
	repo := newSeededRepo(t)

	result, err := repo.SearchGuests("aisyah", "VIP", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, hitIDs(result))

	result, err = repo.SearchGuests("ben", "VIP", nil)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestSearchGuestsFilterWithoutQuery(t *testing.T) {
	repo := newSeededRepo(t)

	checkedIn := true
	result, err := repo.SearchGuests("", "", &checkedIn)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"g1", "g2"}, hitIDs(result))
}

func TestSearchGuestsReturnsStoredFields(t *testing.T) {
	repo := newSeededRepo(t)

	result, err := repo.SearchGuests("C12", "", nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "Aisyah Binti", result.Hits[0].Fields["name"])
	assert.Equal(t, "C12", result.Hits[0].Fields["capsule_number"])
}

func TestReindexGuestsDropsDepartedGuests(t *testing.T) {
	repo := newSeededRepo(t)

	result, err := repo.SearchGuests("ben", "", nil)
	require.NoError(t, err)
	require.NotZero(t, result.Total)

	// Ben checked out; the next snapshot no longer carries him.
	err = repo.ReindexGuests([]store_models.Guest{
		{ID: "g1", Name: "Aisyah Binti", CapsuleNumber: "C12", IsCheckedIn: true},
	})
	require.NoError(t, err)

	result, err = repo.SearchGuests("ben", "", nil)
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	result, err = repo.SearchGuests("aisyah", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, hitIDs(result))
}
