package authz

// Role identifies the authority level carried in a credential's
// "role" claim. Roles are a flat enumeration: no role implies
// another, and every action lists the roles it accepts explicitly.
// SUPER_ADMIN in particular is not a superset of ADMIN.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEvaluator  Role = "EVALUATOR"
	RoleUser       Role = "USER"
)

// ValidRole reports whether s names one of the four known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleEvaluator, RoleUser:
		return true
	}
	return false
}

// Permits is the role policy: a pure membership test of role against
// an action's allowed set. Absence from the set is a denial even for
// roles that intuitively outrank the ones listed.
func Permits(role Role, allowed map[Role]bool) bool {
	return allowed[role]
}
