package models

// Capsule sections. Section membership drives gender-aware assignment, so the
// values mirror the upstream enum exactly.
const (
	SectionFront  = "front"
	SectionMiddle = "middle"
	SectionBack   = "back"
)

// Cleaning statuses.
const (
	CleaningCleaned     = "cleaned"
	CleaningToBeCleaned = "to_be_cleaned"
)

// Capsule positions.
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
)

// Capsule represents one physical capsule from the hostel backend's inventory.
// The authoritative copy lives server-side; this service only reads snapshots.
// ToRent is a pointer because only an explicit false takes the capsule out of
// the rentable roster — absent means rentable.
type Capsule struct {
	ID             string  `json:"id"`
	Number         string  `json:"number"`
	Section        string  `json:"section"`
	IsAvailable    bool    `json:"isAvailable"`
	CleaningStatus string  `json:"cleaningStatus"`
	ToRent         *bool   `json:"toRent"`
	Position       *string `json:"position"`
	Remark         string  `json:"remark,omitempty"`
}

// Rentable reports whether the capsule may be offered to guests. Only an
// explicit toRent=false excludes it.
func (c *Capsule) Rentable() bool {
	return c.ToRent == nil || *c.ToRent
}

// NeedsCleaning reports whether housekeeping still has to turn the capsule
// around.
func (c *Capsule) NeedsCleaning() bool {
	return c.CleaningStatus == CleaningToBeCleaned
}
