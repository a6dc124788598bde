package domain

import "errors"

var errNoItems = errors.New("invoice has no line items")

// NormalizeItems validates submitted line items and recomputes each amount as
// quantity times unit price. Client-supplied amounts are discarded.
func NormalizeItems(items []InvoiceItem) ([]InvoiceItem, error) {
	if len(items) == 0 {
		return nil, errNoItems
	}

	out := make([]InvoiceItem, len(items))
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, errors.New("invoice item quantity must be positive")
		}
		if it.UnitPriceCents < 0 {
			return nil, errors.New("invoice item unit price must not be negative")
		}
		it.AmountCents = it.Quantity * it.UnitPriceCents
		out[i] = it
	}

	return out, nil
}

// ComputeTotals fills Subtotal and Total from the invoice's line items.
// subtotal is the sum of line amounts; total = subtotal + tax - discount.
// Whatever totals the client sent are overwritten.
func (inv *Invoice) ComputeTotals() {
	var subtotal int64
	for _, it := range inv.Items {
		subtotal += it.AmountCents
	}
	inv.SubtotalCents = subtotal
	inv.TotalCents = subtotal + inv.TaxCents - inv.DiscountCents
}
