package services

import (
	"strings"
	"time"

	occupancy_models "capsule-desk-backend/occupancy/models"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"
)

// BuildCombinedView merges the three feed snapshots into the occupancy rows
// the dashboard renders. Pure function of its inputs; it never sorts (that is
// the sort engine's job) and never mutates its arguments.
//
// Every capsule appears at most once: a guest row wins over a pending row for
// the same capsule (a token still claiming an occupied capsule is bad input
// from the backend, not a reason to show the capsule twice), and empty rows
// only cover capsules nothing claims. Empty rows appear only in show-all mode
// and only for capsules not explicitly flagged unrentable. Guest filters
// apply to guest rows alone; when any filter is active, pending and empty
// rows are dropped entirely.
func BuildCombinedView(
	guests []store_models.Guest,
	tokens []store_models.GuestToken,
	capsules []store_models.Capsule,
	showAll bool,
	filters occupancy_models.GuestFilters,
	now time.Time,
) []occupancy_models.CombinedItem {
	todayISO := utils.ISODate(now)
	filterActive := filters.Active()

	items := make([]occupancy_models.CombinedItem, 0, len(guests)+len(tokens)+len(capsules))
	claimed := make(map[string]bool, len(guests)+len(tokens))

	for i := range guests {
		guest := &guests[i]
		if guest.CapsuleNumber != "" {
			claimed[guest.CapsuleNumber] = true
		}
		if !guestPassesFilters(guest, filters, todayISO) {
			continue
		}
		item := occupancy_models.NewGuestItem(guest)
		items = append(items, occupancy_models.CombinedItem{
			Kind:          occupancy_models.KindGuest,
			CapsuleNumber: guest.CapsuleNumber,
			Guest:         &item,
		})
	}

	for i := range tokens {
		token := &tokens[i]
		if !token.IsActive(now) {
			continue
		}
		if token.CapsuleNumber != nil && claimed[*token.CapsuleNumber] {
			// Capsule already shown as occupied; the guest row wins.
			continue
		}
		if token.CapsuleNumber != nil {
			claimed[*token.CapsuleNumber] = true
		}
		if filterActive {
			continue
		}
		item := occupancy_models.NewPendingItem(token)
		items = append(items, occupancy_models.CombinedItem{
			Kind:          occupancy_models.KindPending,
			CapsuleNumber: item.CapsuleNumber,
			Pending:       &item,
		})
	}

	if showAll && !filterActive {
		for i := range capsules {
			capsule := &capsules[i]
			if claimed[capsule.Number] || !capsule.Rentable() {
				continue
			}
			item := occupancy_models.NewEmptyItem(capsule)
			items = append(items, occupancy_models.CombinedItem{
				Kind:          occupancy_models.KindEmpty,
				CapsuleNumber: capsule.Number,
				Empty:         &item,
			})
		}
	}

	return items
}

func guestPassesFilters(guest *store_models.Guest, filters occupancy_models.GuestFilters, todayISO string) bool {
	if filters.Gender != "" && !strings.EqualFold(guest.Gender, filters.Gender) {
		return false
	}
	switch filters.Nationality {
	case occupancy_models.NationalityMalaysian:
		if !guest.IsMalaysian() {
			return false
		}
	case occupancy_models.NationalityNonMalaysian:
		if guest.IsMalaysian() {
			return false
		}
	}
	if filters.OutstandingOnly && !guest.HasOutstanding() {
		return false
	}
	if filters.CheckoutToday && !guest.ChecksOutOn(todayISO) {
		return false
	}
	return true
}
