package workflow

import (
	"testing"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateRoyalty_AppliesRates(t *testing.T) {
	contract := &models.Contract{
		RoyaltyRate:      dec("6"),
		MarketingFeeRate: dec("2"),
	}
	comp := CalculateRoyalty(contract, dec("10000"))

	if !comp.RoyaltyAmount.Equal(dec("600")) {
		t.Fatalf("royalty = %s, want 600", comp.RoyaltyAmount)
	}
	if !comp.MarketingFee.Equal(dec("200")) {
		t.Fatalf("marketing fee = %s, want 200", comp.MarketingFee)
	}
	if !comp.TotalDue.Equal(dec("800")) {
		t.Fatalf("total due = %s, want 800", comp.TotalDue)
	}
	if comp.MinimumApplied {
		t.Fatalf("minimum fee applied without a configured minimum")
	}
}

func TestCalculateRoyalty_RoundsToCents(t *testing.T) {
	contract := &models.Contract{
		RoyaltyRate:      dec("5.5"),
		MarketingFeeRate: dec("1.25"),
	}
	comp := CalculateRoyalty(contract, dec("333.33"))

	// 333.33 * 5.5% = 18.33315 -> 18.33
	if !comp.RoyaltyAmount.Equal(dec("18.33")) {
		t.Fatalf("royalty = %s, want 18.33", comp.RoyaltyAmount)
	}
	// 333.33 * 1.25% = 4.166625 -> 4.17
	if !comp.MarketingFee.Equal(dec("4.17")) {
		t.Fatalf("marketing fee = %s, want 4.17", comp.MarketingFee)
	}
	if !comp.TotalDue.Equal(dec("22.50")) {
		t.Fatalf("total due = %s, want 22.50", comp.TotalDue)
	}
}

func TestCalculateRoyalty_MinimumFeeFloor(t *testing.T) {
	contract := &models.Contract{
		RoyaltyRate:      dec("6"),
		MarketingFeeRate: dec("2"),
		MinimumFee:       dec("500"),
	}
	comp := CalculateRoyalty(contract, dec("1000"))

	if !comp.MinimumApplied {
		t.Fatalf("expected minimum fee to apply over 60 computed")
	}
	if !comp.RoyaltyAmount.Equal(dec("500")) {
		t.Fatalf("royalty = %s, want 500", comp.RoyaltyAmount)
	}
	// Marketing levy still tracks sales, not the floored royalty.
	if !comp.MarketingFee.Equal(dec("20")) {
		t.Fatalf("marketing fee = %s, want 20", comp.MarketingFee)
	}
	if !comp.TotalDue.Equal(dec("520")) {
		t.Fatalf("total due = %s, want 520", comp.TotalDue)
	}
}

func TestCalculateRoyalty_MinimumNotAppliedAboveFloor(t *testing.T) {
	contract := &models.Contract{
		RoyaltyRate: dec("6"),
		MinimumFee:  dec("500"),
	}
	comp := CalculateRoyalty(contract, dec("50000"))

	if comp.MinimumApplied {
		t.Fatalf("minimum applied despite computed royalty above floor")
	}
	if !comp.RoyaltyAmount.Equal(dec("3000")) {
		t.Fatalf("royalty = %s, want 3000", comp.RoyaltyAmount)
	}
}

func TestCalculateRoyalty_ZeroSales(t *testing.T) {
	contract := &models.Contract{
		RoyaltyRate:      dec("6"),
		MarketingFeeRate: dec("2"),
	}
	comp := CalculateRoyalty(contract, decimal.Zero)

	if !comp.TotalDue.IsZero() {
		t.Fatalf("total due = %s, want 0", comp.TotalDue)
	}
	if comp.MinimumApplied {
		t.Fatalf("minimum applied with no configured minimum")
	}
}
