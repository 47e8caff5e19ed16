package app

import (
	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

// HeaderUpdateRequest changes order-level fields. Nil fields are left unchanged.
// When both discount fields are set the mode is applied first, so the value is not
// reset by the mode change.
type HeaderUpdateRequest struct {
	DeliveryDate  *string
	Notes         *string
	InternalNotes *string
	DiscountMode  *core.DiscountMode
	DiscountValue *decimal.Decimal
}

// BranchUpdateRequest changes one branch. Nil fields are left unchanged.
type BranchUpdateRequest struct {
	AddressID   *int
	Note        *string
	ShippingFee *decimal.Decimal
}

// ItemUpdateRequest changes one line. Nil fields are left unchanged; values are clamped
// the same way as interactive edits.
type ItemUpdateRequest struct {
	Quantity      *int
	UnitPrice     *decimal.Decimal
	DiscountMode  *core.DiscountMode
	DiscountValue *decimal.Decimal
}
