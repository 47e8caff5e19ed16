package core_test

import (
	"testing"

	"order-desk/internal/core"
)

func TestComputeTotals_SingleBranchScenario(t *testing.T) {
	d := testDraft()
	li, _ := d.AddItem(0, core.ProductVariation{ID: 1, DefaultPrice: dec("100")})
	li.SetQuantity(3)
	li.SetDiscountValue(dec("10"))
	d.SetBranchShippingFee(0, dec("20"))
	d.SetOrderDiscountValue(dec("5"))

	got := core.ComputeTotals(d)

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"items", got.ItemsTotal.StringFixed(2), "270.00"},
		{"order discount", got.OrderDiscountAmount.StringFixed(2), "13.50"},
		{"shipping", got.ShippingTotal.StringFixed(2), "20.00"},
		{"grand", got.GrandTotal.StringFixed(2), "276.50"},
		{"pre vat", got.PreVAT.StringFixed(2), "258.41"},
		{"vat", got.VAT.StringFixed(2), "18.09"},
		{"branch", got.BranchTotals[0].StringFixed(2), "270.00"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestComputeTotals_MultiBranch(t *testing.T) {
	d := testDraft()
	d.AddBranch()
	d.AddItem(0, coldBrew) // 150
	d.AddItem(1, limeSoda) // 25
	d.AddItem(1, limeSoda) // 50
	d.SetBranchShippingFee(0, dec("30"))
	d.SetBranchShippingFee(1, dec("40"))
	d.SetOrderDiscountMode(core.DiscountAmount)
	d.SetOrderDiscountValue(dec("10"))

	got := core.ComputeTotals(d)
	if !got.ItemsTotal.Equal(dec("200")) {
		t.Errorf("items = %s, want 200", got.ItemsTotal)
	}
	if !got.ShippingTotal.Equal(dec("70")) {
		t.Errorf("shipping = %s, want 70", got.ShippingTotal)
	}
	if !got.GrandTotal.Equal(dec("260")) {
		t.Errorf("grand = %s, want 260", got.GrandTotal)
	}
	if len(got.BranchTotals) != 2 || !got.BranchTotals[1].Equal(dec("50")) {
		t.Errorf("branch totals exclude fee: %v", got.BranchTotals)
	}
}

func TestComputeTotals_NegativeIsPreserved(t *testing.T) {
	d := testDraft()
	li, _ := d.AddItem(0, core.ProductVariation{ID: 1, DefaultPrice: dec("100")})
	li.SetDiscountMode(core.DiscountAmount)
	li.SetDiscountValue(dec("500"))

	got := core.ComputeTotals(d)
	if !got.GrandTotal.Equal(dec("-400")) {
		t.Errorf("grand = %s, want -400", got.GrandTotal)
	}
	if !got.PreVAT.Add(got.VAT).Equal(got.GrandTotal) {
		t.Errorf("pre vat + vat != grand for negative total")
	}
}

func TestExtractVAT_SumsBackToGrand(t *testing.T) {
	for _, g := range []string{"0", "0.01", "1", "99.99", "107", "276.50", "1234.565", "100000.07"} {
		grand := dec(g)
		pre, vat := core.ExtractVAT(grand)
		if !pre.Add(vat).Equal(grand.Round(2)) {
			t.Errorf("ExtractVAT(%s): %s + %s != %s", g, pre, vat, grand.Round(2))
		}
		if pre.Exponent() < -2 || vat.Exponent() < -2 {
			t.Errorf("ExtractVAT(%s) not rounded to 2dp: %s / %s", g, pre, vat)
		}
	}
}

func TestExtractVAT_HalfRoundsAwayFromZero(t *testing.T) {
	tests := []struct {
		grand, pre, vat string
	}{
		{"0.005", "0.01", "0"},
		{"-0.005", "-0.01", "0"},
		{"10.005", "9.36", "0.65"},
		{"-10.005", "-9.36", "-0.65"},
	}
	for _, tt := range tests {
		t.Run(tt.grand, func(t *testing.T) {
			pre, vat := core.ExtractVAT(dec(tt.grand))
			if !pre.Equal(dec(tt.pre)) || !vat.Equal(dec(tt.vat)) {
				t.Errorf("ExtractVAT(%s) = %s, %s; want %s, %s", tt.grand, pre, vat, tt.pre, tt.vat)
			}
		})
	}
}
