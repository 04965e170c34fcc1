package requests

// ReassignGuestRequest asks to move a checked-in guest to another capsule.
type ReassignGuestRequest struct {
	CapsuleNumber string `json:"capsule_number" validate:"required"`
}
