package enums

import "fmt"

// Role is the closed set of actor roles the platform recognizes. A session
// carries exactly one role; restaurant and farmer links are mutually exclusive.
type Role string

const (
	RoleRestaurant Role = "restaurant"
	RoleFarmer     Role = "farmer"
	RoleAdmin      Role = "admin"
	RoleGuest      Role = "guest"
)

var validRoles = []Role{
	RoleRestaurant,
	RoleFarmer,
	RoleAdmin,
	RoleGuest,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
