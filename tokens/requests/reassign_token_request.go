package requests

// ReassignTokenRequest changes a reservation token's capsule. Either a target
// capsule or auto-assign must be given; auto_assign lets the backend pick one
// when the guest completes check-in.
type ReassignTokenRequest struct {
	CapsuleNumber string `json:"capsule_number" validate:"required_without=AutoAssign"`
	AutoAssign    bool   `json:"auto_assign"`
}
