package core

// lineKey identifies one persisted item: a variation sold at one price and discount.
// Branches carrying the same variation on identical terms share the item. A non-zero
// amount discount is taken once per branch, so such lines are keyed by branch too and
// never merged.
type lineKey struct {
	variationID int
	unitPrice   string
	discount    string
	mode        DiscountMode
	branch      int
}

func keyOf(li *LineItem, branch int) lineKey {
	d := li.Discount.Normalized()
	k := lineKey{
		variationID: li.VariationID,
		unitPrice:   li.UnitPrice.String(),
		discount:    d.Value.String(),
		mode:        d.Mode,
		branch:      -1,
	}
	if d.Mode == DiscountAmount && !d.Value.IsZero() {
		k.branch = branch
	}
	return k
}

// ToPersisted flattens the draft into the submit payload. Items appear in the order
// they are first met walking branches then lines; each item gets one shipment per
// branch carrying it, and its quantity is the sum of those shipments.
func ToPersisted(d *Draft) OrderWrite {
	orderDiscount := d.Discount.Normalized()
	w := OrderWrite{
		CustomerID:          d.Customer.ID,
		DeliveryDate:        d.DeliveryDate,
		Notes:               d.Notes,
		InternalNotes:       d.InternalNotes,
		OrderDiscountAmount: orderDiscount.Value,
		OrderDiscountMode:   orderDiscount.Mode,
		Items:               []OrderItemWrite{},
	}
	index := make(map[lineKey]int)
	for bi, b := range d.Branches {
		for _, li := range b.Items {
			k := keyOf(li, bi)
			pos, ok := index[k]
			if !ok {
				pos = len(w.Items)
				index[k] = pos
				w.Items = append(w.Items, OrderItemWrite{
					VariationID:   li.VariationID,
					ProductCode:   li.Code,
					ProductName:   li.Name,
					UnitSize:      li.UnitSize,
					UnitPrice:     li.UnitPrice,
					DiscountValue: li.Discount.Value,
					DiscountMode:  k.mode,
				})
			}
			item := &w.Items[pos]
			item.Quantity += li.Quantity
			item.Shipments = append(item.Shipments, ShipmentWrite{
				ShippingAddressID: b.Address.ID,
				Quantity:          li.Quantity,
				ShippingFee:       b.ShippingFee,
				DeliveryNote:      b.Note,
			})
		}
	}
	return w
}
