package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of delivery dates.
const DateLayout = "2006-01-02"

// Validate reports every field that blocks submission. It returns nil or a *ValidationError.
func (d *Draft) Validate() error {
	var fields []FieldError
	if d.Customer.ID <= 0 {
		fields = append(fields, FieldError{Field: "customer", Message: "customer is required"})
	}
	date := strings.TrimSpace(d.DeliveryDate)
	if date == "" {
		fields = append(fields, FieldError{Field: "delivery_date", Message: "delivery date is required"})
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		fields = append(fields, FieldError{Field: "delivery_date", Message: "delivery date must be YYYY-MM-DD"})
	}
	if len(d.Branches) == 0 {
		fields = append(fields, FieldError{Field: "branches", Message: "at least one branch is required"})
	}
	for i, b := range d.Branches {
		if len(b.Items) == 0 {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("branches[%d].items", i),
				Message: fmt.Sprintf("branch %q has no items", b.Name()),
			})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
