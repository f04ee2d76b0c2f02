package enums

import "fmt"

// UserRole distinguishes the marketplace actors.
type UserRole string

const (
	UserRoleSupplier   UserRole = "supplier"
	UserRoleStallOwner UserRole = "stall_owner"
	UserRoleBuyer      UserRole = "buyer"
)

var validUserRoles = []UserRole{
	UserRoleSupplier,
	UserRoleStallOwner,
	UserRoleBuyer,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// CanPlaceOrders reports whether the role is allowed to check out a cart.
func (u UserRole) CanPlaceOrders() bool {
	return u == UserRoleStallOwner || u == UserRoleBuyer
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
