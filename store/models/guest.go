package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Guest statuses as the hostel backend reports them.
const (
	GuestStatusNone        = "none"
	GuestStatusVIP         = "vip"
	GuestStatusBlacklisted = "blacklisted"
)

// Guest genders. The backend stores free-form values; these are the ones the
// assignment rules care about.
const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

// Guest represents one occupancy record from the hostel backend. Field names
// follow the upstream API exactly (camelCase). At most one active guest exists
// per capsule number at any time; that invariant is owned server-side, we only
// read snapshots of it.
type Guest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CapsuleNumber string `json:"capsuleNumber"`

	// Stay window. ExpectedCheckoutDate is a date-only ISO string ("2026-08-23")
	// or null; it is deliberately kept as a string so date comparisons stay
	// prefix comparisons instead of timezone-sensitive datetime parsing.
	CheckinTime          time.Time  `json:"checkinTime"`
	CheckoutTime         *time.Time `json:"checkoutTime,omitempty"`
	ExpectedCheckoutDate *string    `json:"expectedCheckoutDate"`
	IsCheckedIn          bool       `json:"isCheckedIn"`

	// Payment
	IsPaid        bool            `json:"isPaid"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`

	// Profile
	Gender      string `json:"gender,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Status      string `json:"status,omitempty"`
}

// HasOutstanding reports whether the guest still owes payment.
func (g *Guest) HasOutstanding() bool {
	return !g.IsPaid
}

// IsMalaysian matches the nationality the way the dashboard filter does:
// case-insensitive, anything else counts as non-Malaysian.
func (g *Guest) IsMalaysian() bool {
	return strings.EqualFold(strings.TrimSpace(g.Nationality), "malaysian")
}

// ChecksOutOn reports whether the guest's expected checkout falls on the given
// ISO date. Guests without an expected date never match.
func (g *Guest) ChecksOutOn(isoDate string) bool {
	if g.ExpectedCheckoutDate == nil || isoDate == "" {
		return false
	}
	return strings.HasPrefix(*g.ExpectedCheckoutDate, isoDate)
}

// IsOverdue reports whether the expected checkout date is strictly before the
// given ISO date. String comparison is safe because both sides are ISO dates.
func (g *Guest) IsOverdue(isoDate string) bool {
	if g.ExpectedCheckoutDate == nil || isoDate == "" {
		return false
	}
	expected := *g.ExpectedCheckoutDate
	if len(expected) > 10 {
		expected = expected[:10]
	}
	return expected < isoDate
}
