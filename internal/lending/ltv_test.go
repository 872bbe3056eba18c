package lending_test

import (
	"math"
	"testing"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/lending"

	"github.com/shopspring/decimal"
)

func TestCurrentLTV(t *testing.T) {
	got := lending.CurrentLTV(500000, 1000000)
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50, got %s", got)
	}
	if got := lending.FormatPercent(got, 2); got != "50.00%" {
		t.Errorf("expected 50.00%%, got %s", got)
	}
}

func TestCurrentLTV_ZeroValueGuarded(t *testing.T) {
	for _, v := range []float64{0, -10} {
		if got := lending.CurrentLTV(500000, v); !got.IsZero() {
			t.Errorf("value %v: expected 0, got %s", v, got)
		}
	}
}

func TestCurrentLTV_NonFiniteGuarded(t *testing.T) {
	cases := [][2]float64{
		{500000, math.NaN()},
		{500000, math.Inf(1)},
		{math.Inf(1), 1000000},
		{math.NaN(), 1000000},
	}
	for _, tc := range cases {
		if got := lending.CurrentLTV(tc[0], tc[1]); !got.IsZero() {
			t.Errorf("principal %v value %v: expected 0, got %s", tc[0], tc[1], got)
		}
	}
}

func TestCurrentLTV_JustBelowBreachStaysWarning(t *testing.T) {
	ltv := lending.CurrentLTV(500000, 833400)
	if !ltv.LessThan(decimal.NewFromInt(60)) {
		t.Fatalf("expected ltv below 60, got %s", ltv)
	}
	if got := lending.ClassifyDetailLTV(ltv); got != lending.LTVWarning {
		t.Errorf("expected Warning for %s, got %s", ltv.StringFixed(4), got)
	}
	if lending.ShortfallEligible(ltv) {
		t.Errorf("expected no shortfall at %s", ltv.StringFixed(4))
	}
}

func TestClassifyDetailLTV(t *testing.T) {
	cases := []struct {
		ltv  string
		want lending.LTVRisk
	}{
		{"49.9", lending.LTVSafe},
		{"50.0", lending.LTVWarning},
		{"59.99", lending.LTVWarning},
		{"59.995", lending.LTVWarning},
		{"60.0", lending.LTVBreach},
		{"85", lending.LTVBreach},
	}
	for _, tc := range cases {
		if got := lending.ClassifyDetailLTV(decimal.RequireFromString(tc.ltv)); got != tc.want {
			t.Errorf("ltv %s: expected %s, got %s", tc.ltv, tc.want, got)
		}
	}
}

func TestClassifyTableLTV_UsesSecurityCap(t *testing.T) {
	cap40 := decimal.NewFromInt(40)
	cases := []struct {
		ltv  string
		want lending.LTVRisk
	}{
		{"39.99", lending.LTVSafe},
		{"40", lending.LTVWarning},
		{"49.99", lending.LTVWarning},
		{"50", lending.LTVBreach},
	}
	for _, tc := range cases {
		if got := lending.ClassifyTableLTV(decimal.RequireFromString(tc.ltv), cap40); got != tc.want {
			t.Errorf("ltv %s cap 40: expected %s, got %s", tc.ltv, tc.want, got)
		}
	}
}

func TestClassifyTableLTV_DefaultsCapTo50(t *testing.T) {
	if got := lending.ClassifyTableLTV(decimal.NewFromInt(55), decimal.Zero); got != lending.LTVWarning {
		t.Errorf("expected Warning with default cap, got %s", got)
	}
	if got := lending.ClassifyTableLTV(decimal.NewFromInt(60), decimal.Zero); got != lending.LTVBreach {
		t.Errorf("expected Breach with default cap, got %s", got)
	}
}

func TestPoliciesDiverge(t *testing.T) {
	// A 65% cap keeps 62% safe in the table while the detail panel calls it a breach.
	ltv := decimal.NewFromInt(62)
	if got := lending.ClassifyTableLTV(ltv, decimal.NewFromInt(65)); got != lending.LTVSafe {
		t.Errorf("table: expected Safe, got %s", got)
	}
	if got := lending.ClassifyDetailLTV(ltv); got != lending.LTVBreach {
		t.Errorf("detail: expected Breach, got %s", got)
	}
}

func TestShortfallEligible(t *testing.T) {
	if lending.ShortfallEligible(decimal.RequireFromString("59.99")) {
		t.Error("59.99 should not offer shortfall")
	}
	if !lending.ShortfallEligible(decimal.NewFromInt(60)) {
		t.Error("60 should offer shortfall")
	}
}

func TestPledgeDrift(t *testing.T) {
	if got := lending.PledgeDrift(900000, 1000000); !got.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("expected -10, got %s", got)
	}
	if got := lending.PledgeDrift(100, 0); !got.IsZero() {
		t.Errorf("expected 0 for zero pledge, got %s", got)
	}
}

func TestSummarizeCollaterals(t *testing.T) {
	rows := []domain.Collateral{
		{Status: domain.CollateralPledged, CurrentLTV: 45, CurrentValue: 1000000},
		{Status: domain.CollateralPledged, CurrentLTV: 61, CurrentValue: 500000},
		{Status: domain.CollateralReleased, CurrentLTV: 70, CurrentValue: 250000},
	}

	stats := lending.SummarizeCollaterals(rows)

	if stats.Total != 3 || stats.Pledged != 2 || stats.AtRisk != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if !stats.TotalValue.Equal(decimal.NewFromInt(1750000)) {
		t.Errorf("expected total value 1750000, got %s", stats.TotalValue)
	}
}
