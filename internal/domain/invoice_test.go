package domain

import "testing"

func TestNormalizeItems(t *testing.T) {
	cases := []struct {
		name  string
		items []InvoiceItem
		ok    bool
	}{
		{"empty", nil, false},
		{
			"valid",
			[]InvoiceItem{{Description: "labor", Quantity: 2, UnitPriceCents: 5000}},
			true,
		},
		{
			"zeroQuantity",
			[]InvoiceItem{{Description: "labor", Quantity: 0, UnitPriceCents: 5000}},
			false,
		},
		{
			"negativeQuantity",
			[]InvoiceItem{{Description: "labor", Quantity: -1, UnitPriceCents: 5000}},
			false,
		},
		{
			"negativeUnitPrice",
			[]InvoiceItem{{Description: "labor", Quantity: 1, UnitPriceCents: -1}},
			false,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeItems(tt.items)
			if (err == nil) != tt.ok {
				t.Errorf("NormalizeItems(%v) err=%v, want ok=%v", tt.items, err, tt.ok)
			}
		})
	}
}

func TestNormalizeItemsRecomputesAmounts(t *testing.T) {
	// client-supplied amounts are ignored
	items, err := NormalizeItems([]InvoiceItem{
		{Description: "parts", Quantity: 3, UnitPriceCents: 1200, AmountCents: 1},
		{Description: "labor", Quantity: 2, UnitPriceCents: 7500, AmountCents: -99},
	})
	if err != nil {
		t.Fatalf("NormalizeItems: %v", err)
	}

	if items[0].AmountCents != 3600 {
		t.Errorf("items[0].AmountCents = %d, want 3600", items[0].AmountCents)
	}
	if items[1].AmountCents != 15000 {
		t.Errorf("items[1].AmountCents = %d, want 15000", items[1].AmountCents)
	}
}

func TestComputeTotals(t *testing.T) {
	inv := Invoice{
		Items: []InvoiceItem{
			{Quantity: 3, UnitPriceCents: 1200, AmountCents: 3600},
			{Quantity: 2, UnitPriceCents: 7500, AmountCents: 15000},
		},
		TaxCents:      1860,
		DiscountCents: 500,
		// spoofed, must be overwritten
		SubtotalCents: 1,
		TotalCents:    1,
	}

	inv.ComputeTotals()

	if inv.SubtotalCents != 18600 {
		t.Errorf("SubtotalCents = %d, want 18600", inv.SubtotalCents)
	}
	if inv.TotalCents != 19960 {
		t.Errorf("TotalCents = %d, want 19960", inv.TotalCents)
	}
}
