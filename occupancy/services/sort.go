package services

import (
	"sort"
	"strings"

	capsules_services "capsule-desk-backend/capsules/services"
	occupancy_models "capsule-desk-backend/occupancy/models"
)

// SortCombined orders the occupancy rows by the given configuration and
// returns a sorted copy; the input keeps its reconciler order. The sort is
// stable, so rows with equal keys keep their relative positions.
func SortCombined(items []occupancy_models.CombinedItem, cfg occupancy_models.SortConfig) []occupancy_models.CombinedItem {
	out := append([]occupancy_models.CombinedItem(nil), items...)
	less := lessForField(cfg.Field)

	sort.SliceStable(out, func(i, j int) bool {
		if cfg.Order == occupancy_models.SortDesc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

// Toggle flips the direction when the field is already selected and resets to
// ascending when a new field is picked.
func Toggle(cfg occupancy_models.SortConfig, field occupancy_models.SortField) occupancy_models.SortConfig {
	if cfg.Field == field {
		if cfg.Order == occupancy_models.SortAsc {
			cfg.Order = occupancy_models.SortDesc
		} else {
			cfg.Order = occupancy_models.SortAsc
		}
		return cfg
	}
	return occupancy_models.SortConfig{Field: field, Order: occupancy_models.SortAsc}
}

func lessForField(field occupancy_models.SortField) func(a, b *occupancy_models.CombinedItem) bool {
	switch field {
	case occupancy_models.SortByName:
		return func(a, b *occupancy_models.CombinedItem) bool {
			return strings.ToLower(a.DisplayName()) < strings.ToLower(b.DisplayName())
		}
	case occupancy_models.SortByCheckinTime:
		return func(a, b *occupancy_models.CombinedItem) bool {
			return a.ArrivalTime().Before(b.ArrivalTime())
		}
	case occupancy_models.SortByExpectedCheckoutDate:
		return func(a, b *occupancy_models.CombinedItem) bool {
			return a.CheckoutSortKey() < b.CheckoutSortKey()
		}
	default:
		// Capsule-number ordering applies to every row kind; auto-assign
		// pending rows carry no number and sort last via the parser sentinel.
		return func(a, b *occupancy_models.CombinedItem) bool {
			return capsules_services.CompareCapsuleNumbers(a.CapsuleNumber, b.CapsuleNumber) < 0
		}
	}
}
