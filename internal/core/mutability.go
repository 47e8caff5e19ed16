package core

import (
	"fmt"
	"strings"
)

// Mutability is the edit verdict for a persisted order.
type Mutability struct {
	Editable bool     `json:"editable"`
	Reasons  []string `json:"reasons,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// CheckMutability allows edits only while the order is new and unpaid.
// Status changes belong to the order-lifecycle system; this is a pure predicate.
func CheckMutability(status OrderStatus, payment PaymentStatus) Mutability {
	var reasons []string
	if status != OrderStatusNew {
		reasons = append(reasons, "order status")
	}
	if payment != PaymentStatusPending {
		reasons = append(reasons, "payment status")
	}
	if len(reasons) == 0 {
		return Mutability{Editable: true}
	}
	return Mutability{
		Reasons: reasons,
		Message: fmt.Sprintf("order is read-only: %s (order status %q, payment status %q)",
			strings.Join(reasons, " and "), status, payment),
	}
}

// Editable is the verdict for drafts that are not tied to a persisted order.
func Editable() Mutability {
	return Mutability{Editable: true}
}
