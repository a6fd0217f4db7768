package domain

// Role is the closed set of account roles that gate ledger operations.
type Role string

const (
	RoleReader    Role = "reader"
	RoleAuthor    Role = "author"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Capability is a permission required by an entry point.
type Capability string

const (
	CapAdjustBalance   Capability = "adjust_balance"
	CapModerateContent Capability = "moderate_content"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleModerator: {
		CapModerateContent: true,
	},
	RoleAdmin: {
		CapAdjustBalance:   true,
		CapModerateContent: true,
	},
}

// HasCapability reports whether the role grants the capability. Every entry
// point that needs a permission check goes through this function; there are
// no ad hoc role string comparisons elsewhere.
func HasCapability(role Role, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return caps[cap]
}
