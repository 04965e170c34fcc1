package models

import (
	"strings"
	"time"

	store_models "capsule-desk-backend/store/models"

	"github.com/shopspring/decimal"
)

// ItemKind tags a row of the reconciled occupancy view.
type ItemKind string

const (
	KindGuest   ItemKind = "guest"
	KindPending ItemKind = "pending"
	KindEmpty   ItemKind = "empty"
)

// GuestItem is the dashboard row for a guest. CheckoutTime is only set on
// history rows; on the occupancy view the guest is still checked in.
type GuestItem struct {
	GuestID              string          `json:"guest_id"`
	Name                 string          `json:"name"`
	CapsuleNumber        string          `json:"capsule_number"`
	CheckinTime          time.Time       `json:"checkin_time"`
	CheckoutTime         *time.Time      `json:"checkout_time,omitempty"`
	ExpectedCheckoutDate *string         `json:"expected_checkout_date"`
	Gender               string          `json:"gender,omitempty"`
	Nationality          string          `json:"nationality,omitempty"`
	PhoneNumber          string          `json:"phone_number,omitempty"`
	IsPaid               bool            `json:"is_paid"`
	PaymentAmount        decimal.Decimal `json:"payment_amount"`
	Status               string          `json:"status,omitempty"`
}

// NewGuestItem maps a backend guest record onto the dashboard row shape.
func NewGuestItem(g *store_models.Guest) GuestItem {
	return GuestItem{
		GuestID:              g.ID,
		Name:                 g.Name,
		CapsuleNumber:        g.CapsuleNumber,
		CheckinTime:          g.CheckinTime,
		CheckoutTime:         g.CheckoutTime,
		ExpectedCheckoutDate: g.ExpectedCheckoutDate,
		Gender:               g.Gender,
		Nationality:          g.Nationality,
		PhoneNumber:          g.PhoneNumber,
		IsPaid:               g.IsPaid,
		PaymentAmount:        g.PaymentAmount,
		Status:               g.Status,
	}
}

// NewGuestItems maps a guest slice onto dashboard rows.
func NewGuestItems(guests []store_models.Guest) []GuestItem {
	items := make([]GuestItem, 0, len(guests))
	for i := range guests {
		items = append(items, NewGuestItem(&guests[i]))
	}
	return items
}

// PendingItem is the dashboard row for an unconsumed reservation token. An
// empty CapsuleNumber means the capsule is assigned when the guest checks in.
type PendingItem struct {
	TokenID       string    `json:"token_id"`
	GuestName     string    `json:"guest_name"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	CapsuleNumber string    `json:"capsule_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewPendingItem maps an active reservation token onto the dashboard row
// shape.
func NewPendingItem(t *store_models.GuestToken) PendingItem {
	item := PendingItem{
		TokenID:   t.ID,
		GuestName: t.DisplayName(),
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
	if t.PhoneNumber != nil {
		item.PhoneNumber = *t.PhoneNumber
	}
	if t.CapsuleNumber != nil {
		item.CapsuleNumber = *t.CapsuleNumber
	}
	return item
}

// EmptyItem is the dashboard row for an unoccupied, rentable capsule.
type EmptyItem struct {
	CapsuleNumber  string `json:"capsule_number"`
	Section        string `json:"section"`
	CleaningStatus string `json:"cleaning_status"`
	IsAvailable    bool   `json:"is_available"`
	Position       string `json:"position,omitempty"`
}

// NewEmptyItem maps an unclaimed capsule onto the dashboard row shape.
func NewEmptyItem(c *store_models.Capsule) EmptyItem {
	item := EmptyItem{
		CapsuleNumber:  c.Number,
		Section:        c.Section,
		CleaningStatus: c.CleaningStatus,
		IsAvailable:    c.IsAvailable,
	}
	if c.Position != nil {
		item.Position = *c.Position
	}
	return item
}

// CombinedItem is one row of the reconciled occupancy view. Kind says which
// of the three payloads is set; exactly one always is. CapsuleNumber is empty
// only for auto-assign pending rows.
type CombinedItem struct {
	Kind          ItemKind     `json:"kind"`
	CapsuleNumber string       `json:"capsule_number,omitempty"`
	Guest         *GuestItem   `json:"guest,omitempty"`
	Pending       *PendingItem `json:"pending,omitempty"`
	Empty         *EmptyItem   `json:"empty,omitempty"`
}

// DisplayName is the label the row sorts and renders by: guest name, token
// guest name, or the capsule number for empty rows.
func (it *CombinedItem) DisplayName() string {
	switch it.Kind {
	case KindGuest:
		return it.Guest.Name
	case KindPending:
		return it.Pending.GuestName
	default:
		return it.CapsuleNumber
	}
}

// ArrivalTime is the instant used for check-in-time ordering: actual check-in
// for guests, token creation for pending rows, the zero time for empty rows.
func (it *CombinedItem) ArrivalTime() time.Time {
	switch it.Kind {
	case KindGuest:
		return it.Guest.CheckinTime
	case KindPending:
		return it.Pending.CreatedAt
	default:
		return time.Time{}
	}
}

// CheckoutSortKey is the ISO-date string used for expected-checkout ordering.
// Guests without a date get the empty string so they sort earliest; pending
// rows use token expiry as the analogous moment.
func (it *CombinedItem) CheckoutSortKey() string {
	switch it.Kind {
	case KindGuest:
		if it.Guest.ExpectedCheckoutDate == nil {
			return ""
		}
		return *it.Guest.ExpectedCheckoutDate
	case KindPending:
		return it.Pending.ExpiresAt.Format("2006-01-02")
	default:
		return ""
	}
}

// Nationality filter values.
const (
	NationalityMalaysian    = "malaysian"
	NationalityNonMalaysian = "non-malaysian"
)

// GuestFilters are the dashboard's guest-attribute filters. The zero value
// shows everything. When any filter is set, pending and empty rows are
// suppressed: the filters read as "show guests matching X", and unrelated
// rows alongside would be misleading.
type GuestFilters struct {
	Gender          string `json:"gender,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	OutstandingOnly bool   `json:"outstanding_only,omitempty"`
	CheckoutToday   bool   `json:"checkout_today,omitempty"`
}

// Active reports whether any guest filter is set.
func (f GuestFilters) Active() bool {
	return f.Gender != "" || f.Nationality != "" || f.OutstandingOnly || f.CheckoutToday
}

// SortField names a sortable column of the occupancy view.
type SortField string

const (
	SortByName                 SortField = "name"
	SortByCapsuleNumber        SortField = "capsule_number"
	SortByCheckinTime          SortField = "checkin_time"
	SortByExpectedCheckoutDate SortField = "expected_checkout_date"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortConfig is the dashboard's current ordering choice.
type SortConfig struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSortConfig orders by capsule number ascending, the way the physical
// walkthrough goes.
func DefaultSortConfig() SortConfig {
	return SortConfig{Field: SortByCapsuleNumber, Order: SortAsc}
}

// ParseSortField validates a sort_by query value.
func ParseSortField(raw string) (SortField, bool) {
	field := SortField(strings.ToLower(strings.TrimSpace(raw)))
	switch field {
	case SortByName, SortByCapsuleNumber, SortByCheckinTime, SortByExpectedCheckoutDate:
		return field, true
	}
	return "", false
}

// ParseSortOrder validates a sort_dir query value.
func ParseSortOrder(raw string) (SortOrder, bool) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(raw)))
	switch order {
	case SortAsc, SortDesc:
		return order, true
	}
	return "", false
}
