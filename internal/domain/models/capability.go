// internal/domain/models/capability.go
package models

// CapApproveUser lets the holder approve facetoface requests for the users
// whose context it is assigned in.
const CapApproveUser = "mod/facetoface:approveuser"

// CapabilityAssignment grants a capability to a user. A nil ContextUserID
// means the grant applies site wide.
type CapabilityAssignment struct {
	UserID        int64
	Capability    string
	ContextUserID *int64
}
