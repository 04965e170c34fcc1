package repositories

import (
	"strings"

	"capsule-desk-backend/config"
	store_models "capsule-desk-backend/store/models"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

const guestIndexName = "guests"

// bleveGuestDoc is the slice of a guest worth searching on. The index is
// rebuilt from the guest feed snapshot, so whatever is not in here is not
// searchable.
type bleveGuestDoc struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CapsuleNumber string `json:"capsule_number"`
	PhoneNumber   string `json:"phone_number"`
	Nationality   string `json:"nationality"`
	Status        string `json:"status"`
	IsCheckedIn   bool   `json:"is_checked_in"`
}

func newBleveGuestDoc(guest *store_models.Guest) bleveGuestDoc {
	return bleveGuestDoc{
		ID:            guest.ID,
		Name:          guest.Name,
		CapsuleNumber: guest.CapsuleNumber,
		PhoneNumber:   guest.PhoneNumber,
		Nationality:   guest.Nationality,
		Status:        guest.Status,
		IsCheckedIn:   guest.IsCheckedIn,
	}
}

// ReindexGuests replaces the guest index with the given feed snapshot.
func (r *SearchRepository) ReindexGuests(guests []store_models.Guest) error {
	docsToIndex := make(map[string]interface{}, len(guests))
	for i := range guests {
		docsToIndex[guests[i].ID] = newBleveGuestDoc(&guests[i])
	}

	if err := r.indexer.RebuildIndex(guestIndexName, docsToIndex); err != nil {
		config.Logger.Error("Failed to rebuild guest search index",
			zap.Error(err),
			zap.Int("count", len(docsToIndex)))
		return err
	}
	return nil
}

func (r *SearchRepository) SearchGuests(
	queryString string,
	status string,
	checkedIn *bool,
) (*bleve.SearchResult, error) {
	booleanQuery := bleve.NewBooleanQuery()
	queryString = strings.TrimSpace(queryString)
	queryStringLower := strings.ToLower(queryString)

	// Search strategies
	if queryString != "" {
		exactMatch := bleve.NewBooleanQuery()

		// Exact matches for capsule number
		capsuleExact := bleve.NewTermQuery(queryString)
		capsuleExact.SetField("capsule_number")
		capsuleExact.SetBoost(10.0)
		exactMatch.AddShould(capsuleExact)

		capsuleExactLower := bleve.NewTermQuery(queryStringLower)
		capsuleExactLower.SetField("capsule_number")
		capsuleExactLower.SetBoost(9.0)
		exactMatch.AddShould(capsuleExactLower)

		// Guest name exact matches
		nameExact := bleve.NewTermQuery(queryStringLower)
		nameExact.SetField("name")
		nameExact.SetBoost(8.0)
		exactMatch.AddShould(nameExact)

		// Match query for analyzed fields
		matchQuery := bleve.NewMatchQuery(queryString)
		matchQuery.SetField("name")
		matchQuery.SetBoost(7.0)
		exactMatch.AddShould(matchQuery)

		// Prefix matches
		prefixMatch := bleve.NewBooleanQuery()

		capsulePrefix := bleve.NewPrefixQuery(queryStringLower)
		capsulePrefix.SetField("capsule_number")
		capsulePrefix.SetBoost(6.0)
		prefixMatch.AddShould(capsulePrefix)

		namePrefix := bleve.NewPrefixQuery(queryStringLower)
		namePrefix.SetField("name")
		namePrefix.SetBoost(5.0)
		prefixMatch.AddShould(namePrefix)

		phonePrefix := bleve.NewPrefixQuery(queryStringLower)
		phonePrefix.SetField("phone_number")
		phonePrefix.SetBoost(5.0)
		prefixMatch.AddShould(phonePrefix)

		nationalityPrefix := bleve.NewPrefixQuery(queryStringLower)
		nationalityPrefix.SetField("nationality")
		nationalityPrefix.SetBoost(3.0)
		prefixMatch.AddShould(nationalityPrefix)

		// Fuzzy search for typos
		fuzzyQuery := bleve.NewFuzzyQuery(queryStringLower)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(4.0)
		fuzzyQuery.SetFuzziness(1)
		prefixMatch.AddShould(fuzzyQuery)

		// Combine search strategies
		booleanQuery.AddShould(exactMatch)
		booleanQuery.AddShould(prefixMatch)
	}

	// Build final query with filters
	finalQuery := bleve.NewBooleanQuery()
	if queryString != "" {
		finalQuery.AddMust(booleanQuery)
	}

	// Add filters
	if status != "" {
		statusQuery := bleve.NewTermQuery(strings.ToLower(status))
		statusQuery.SetField("status")
		finalQuery.AddMust(statusQuery)
	}

	if checkedIn != nil {
		checkedInQuery := bleve.NewBoolFieldQuery(*checkedIn)
		checkedInQuery.SetField("is_checked_in")
		finalQuery.AddMust(checkedInQuery)
	}

	return r.indexer.SearchIndex(guestIndexName, finalQuery, 20)
}
