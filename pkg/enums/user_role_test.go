package enums

import "testing"

func TestParseUserRole(t *testing.T) {
	for _, raw := range []string{"supplier", "stall_owner", "buyer"} {
		role, err := ParseUserRole(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if role.String() != raw {
			t.Fatalf("expected %q, got %q", raw, role)
		}
	}

	if _, err := ParseUserRole("admin"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestCanPlaceOrders(t *testing.T) {
	if UserRoleSupplier.CanPlaceOrders() {
		t.Errorf("suppliers must not place orders")
	}
	if !UserRoleStallOwner.CanPlaceOrders() {
		t.Errorf("stall owners should place orders")
	}
	if !UserRoleBuyer.CanPlaceOrders() {
		t.Errorf("buyers should place orders")
	}
}
