package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusPrepared},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusPrepared, OrderStatusReadyForPickup},
		{OrderStatusPrepared, OrderStatusCancelled},
		{OrderStatusReadyForPickup, OrderStatusOutForDelivery},
		{OrderStatusReadyForPickup, OrderStatusCancelled},
		{OrderStatusOutForDelivery, OrderStatusDelivered},
		{OrderStatusOutForDelivery, OrderStatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPending, OrderStatusOutForDelivery},
		{OrderStatusConfirmed, OrderStatusPending},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusConfirmed},
		{OrderStatusOutForDelivery, OrderStatusPrepared},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusDelivered.IsTerminal() {
		t.Errorf("delivered should be terminal")
	}
	if !OrderStatusCancelled.IsTerminal() {
		t.Errorf("cancelled should be terminal")
	}
	if OrderStatusPending.IsTerminal() {
		t.Errorf("pending should not be terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("ready_for_pickup")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != OrderStatusReadyForPickup {
		t.Fatalf("expected ready_for_pickup, got %s", status)
	}

	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if _, err := ParseOrderStatus(""); err == nil {
		t.Fatalf("expected error for empty status")
	}
}

func TestTrackingDescription(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderStatusConfirmed:      "Order confirmed",
		OrderStatusOutForDelivery: "Order out for delivery",
		OrderStatusReadyForPickup: "Order ready for pickup",
	}
	for status, want := range cases {
		if got := status.TrackingDescription(); got != want {
			t.Errorf("TrackingDescription(%s) = %q, want %q", status, got, want)
		}
	}
}
