package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Draft is an in-progress order: header fields plus the branches items are allocated to.
// A Draft is not safe for concurrent use.
type Draft struct {
	Customer      Customer          `json:"customer"`
	Addresses     []ShippingAddress `json:"addresses"`
	DeliveryDate  string            `json:"delivery_date"` // YYYY-MM-DD
	Notes         string            `json:"notes"`
	InternalNotes string            `json:"internal_notes"`
	Discount      Discount          `json:"discount"`
	Branches      []*Branch         `json:"branches"`
	Active        int               `json:"active"`

	pricing PricingResolver
}

// NewDraft starts an order for customer with a single branch on the default address.
// With no addresses the draft starts without branches and fails validation until one is known.
func NewDraft(customer Customer, addresses []ShippingAddress, prices PriceMemory) *Draft {
	d := &Draft{
		Customer:  customer,
		Addresses: SortAddresses(addresses),
		Discount:  PercentOff(decimal.Zero),
		pricing:   PricingResolver{Prices: prices},
	}
	if len(d.Addresses) > 0 {
		d.Branches = []*Branch{{Address: d.Addresses[0]}}
	}
	return d
}

// Prices returns the price-memory snapshot used for new lines.
func (d *Draft) Prices() PriceMemory {
	return d.pricing.Prices
}

// SetPrices replaces the price-memory snapshot. Existing lines keep their prices.
func (d *Draft) SetPrices(prices PriceMemory) {
	d.pricing = PricingResolver{Prices: prices}
}

func (d *Draft) branch(i int) (*Branch, error) {
	if i < 0 || i >= len(d.Branches) {
		return nil, fmt.Errorf("%w: %d", ErrBranchNotFound, i)
	}
	return d.Branches[i], nil
}

// Branch returns branch i.
func (d *Draft) Branch(i int) (*Branch, error) {
	return d.branch(i)
}

// Item returns the line for variationID on branch i.
func (d *Draft) Item(branch, variationID int) (*LineItem, error) {
	b, err := d.branch(branch)
	if err != nil {
		return nil, err
	}
	li := b.Item(variationID)
	if li == nil {
		return nil, fmt.Errorf("%w: variation %d on branch %d", ErrItemNotFound, variationID, branch)
	}
	return li, nil
}

// AddItem adds one unit of v to the branch. A variation already on the branch
// has its quantity incremented; otherwise a new line is priced and appended.
func (d *Draft) AddItem(branch int, v ProductVariation) (*LineItem, error) {
	b, err := d.branch(branch)
	if err != nil {
		return nil, err
	}
	if li := b.Item(v.ID); li != nil {
		li.SetQuantity(li.Quantity + 1)
		return li, nil
	}
	li := newLineItem(v, d.pricing.Resolve(v))
	b.Items = append(b.Items, li)
	return li, nil
}

// RemoveItem drops the line for variationID from the branch.
func (d *Draft) RemoveItem(branch, variationID int) error {
	b, err := d.branch(branch)
	if err != nil {
		return err
	}
	for i, li := range b.Items {
		if li.VariationID == variationID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: variation %d on branch %d", ErrItemNotFound, variationID, branch)
}

func (d *Draft) addressInUse(addressID, except int) bool {
	for i, b := range d.Branches {
		if i != except && b.Address.ID == addressID {
			return true
		}
	}
	return false
}

func (d *Draft) freeAddress() (ShippingAddress, bool) {
	for _, a := range d.Addresses {
		if !d.addressInUse(a.ID, -1) {
			return a, true
		}
	}
	return ShippingAddress{}, false
}

// CanAddBranch reports whether a known address is still unused.
func (d *Draft) CanAddBranch() bool {
	_, ok := d.freeAddress()
	return ok
}

// AddBranch opens a branch on the first unused address and focuses it.
func (d *Draft) AddBranch() (*Branch, error) {
	addr, ok := d.freeAddress()
	if !ok {
		return nil, ErrNoFreeAddress
	}
	b := &Branch{Address: addr}
	d.Branches = append(d.Branches, b)
	d.Active = len(d.Branches) - 1
	return b, nil
}

// RemoveBranch deletes branch i and keeps focus on a valid index.
// The last remaining branch cannot be removed.
func (d *Draft) RemoveBranch(i int) error {
	if _, err := d.branch(i); err != nil {
		return err
	}
	if len(d.Branches) <= 1 {
		return ErrLastBranch
	}
	d.Branches = append(d.Branches[:i], d.Branches[i+1:]...)
	if i < d.Active {
		d.Active--
	}
	if d.Active >= len(d.Branches) {
		d.Active = len(d.Branches) - 1
	}
	return nil
}

// SetBranchAddress moves branch i to another of the customer's addresses.
// On error the draft is unchanged.
func (d *Draft) SetBranchAddress(i, addressID int) error {
	b, err := d.branch(i)
	if err != nil {
		return err
	}
	var addr *ShippingAddress
	for k := range d.Addresses {
		if d.Addresses[k].ID == addressID {
			addr = &d.Addresses[k]
			break
		}
	}
	if addr == nil {
		return fmt.Errorf("%w: %d", ErrUnknownAddress, addressID)
	}
	if d.addressInUse(addressID, i) {
		return fmt.Errorf("%w: %d", ErrAddressInUse, addressID)
	}
	b.Address = *addr
	return nil
}

func (d *Draft) SetBranchNote(i int, note string) error {
	b, err := d.branch(i)
	if err != nil {
		return err
	}
	b.Note = note
	return nil
}

func (d *Draft) SetBranchShippingFee(i int, fee decimal.Decimal) error {
	b, err := d.branch(i)
	if err != nil {
		return err
	}
	b.SetShippingFee(fee)
	return nil
}

// Focus makes branch i the active one.
func (d *Draft) Focus(i int) error {
	if _, err := d.branch(i); err != nil {
		return err
	}
	d.Active = i
	return nil
}

func (d *Draft) SetDeliveryDate(date string) { d.DeliveryDate = date }
func (d *Draft) SetNotes(notes string)       { d.Notes = notes }
func (d *Draft) SetInternalNotes(s string)   { d.InternalNotes = s }

// SetOrderDiscountValue sets the order-level discount with the line-item clamping rules.
func (d *Draft) SetOrderDiscountValue(v decimal.Decimal) {
	d.Discount.SetValue(v)
}

// SetOrderDiscountMode switches the order-level discount mode, resetting the value on change.
func (d *Draft) SetOrderDiscountMode(m DiscountMode) error {
	return d.Discount.SetMode(m)
}
