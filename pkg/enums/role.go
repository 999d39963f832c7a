package enums

import "fmt"

// Role represents an account's permission tier.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

var roleRanks = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the ordering position of the role. Unknown roles rank lowest.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether the role satisfies the required tier.
func (r Role) AtLeast(required Role) bool {
	return r.IsValid() && r.Rank() >= required.Rank()
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", value)
	}
	return role, nil
}
