package repository

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsOrderNumberCollision(t *testing.T) {
	collision := &pq.Error{Code: "23505", Constraint: "orders_order_number_key"}
	if !isOrderNumberCollision(collision) {
		t.Error("order number unique violation not recognised")
	}

	otherUnique := &pq.Error{Code: "23505", Constraint: "orders_pkey"}
	if isOrderNumberCollision(otherUnique) {
		t.Error("unrelated unique violation treated as order number collision")
	}

	fkViolation := &pq.Error{Code: "23503", Constraint: "orders_order_number_key"}
	if isOrderNumberCollision(fkViolation) {
		t.Error("non-unique violation treated as order number collision")
	}

	if isOrderNumberCollision(fmt.Errorf("plain error")) {
		t.Error("plain error treated as order number collision")
	}
	if isOrderNumberCollision(nil) {
		t.Error("nil error treated as order number collision")
	}
}
