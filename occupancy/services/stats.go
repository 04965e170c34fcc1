package services

import (
	"math"
	"time"

	occupancy_models "capsule-desk-backend/occupancy/models"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"
)

// OccupancyStats are the headline numbers shared by the stats endpoint and
// the daily report. Occupied counts checked-in guests, Pending counts active
// reservation tokens, Available counts rentable capsules nothing claims; the
// rate is occupied over the full roster, one decimal place.
type OccupancyStats struct {
	Date          utils.DateOnly `json:"date"`
	Total         int            `json:"total"`
	Occupied      int            `json:"occupied"`
	Pending       int            `json:"pending"`
	Available     int            `json:"available"`
	OccupancyRate float64        `json:"occupancy_rate"`
}

// ComputeOccupancyStats derives the numbers from the unfiltered show-all
// merge, so they always agree with what a dashboard without filters shows.
func ComputeOccupancyStats(
	guests []store_models.Guest,
	tokens []store_models.GuestToken,
	capsules []store_models.Capsule,
	now time.Time,
) OccupancyStats {
	items := BuildCombinedView(guests, tokens, capsules, true, occupancy_models.GuestFilters{}, now)

	stats := OccupancyStats{
		Date:  utils.DateOnly(utils.NormalizeDate(now)),
		Total: len(capsules),
	}
	for i := range items {
		switch items[i].Kind {
		case occupancy_models.KindGuest:
			stats.Occupied++
		case occupancy_models.KindPending:
			stats.Pending++
		case occupancy_models.KindEmpty:
			stats.Available++
		}
	}
	if stats.Total > 0 {
		stats.OccupancyRate = math.Round(float64(stats.Occupied)/float64(stats.Total)*1000) / 10
	}
	return stats
}
