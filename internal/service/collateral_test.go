package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"go.uber.org/zap"
)

func newCollateralService(store *mockCollateralStore) *service.CollateralService {
	tracker, metrics := newTracker()
	return service.NewCollateralService(store, tracker, metrics, zap.NewNop())
}

func pledgedWithPrincipal(id string, principal float64) domain.Collateral {
	return domain.Collateral{
		ID:     id,
		Status: domain.CollateralPledged,
		Loan:   &domain.Loan{ID: "l1", PrincipalSanctioned: principal},
	}
}

func TestUpdateValue_SendsRecomputedLTV(t *testing.T) {
	store := &mockCollateralStore{all: []domain.Collateral{pledgedWithPrincipal("c1", 500000)}}
	svc := newCollateralService(store)

	preview, err := svc.UpdateValue(context.Background(), "c1", 1000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.LTV.StringFixed(2) != "50.00" || preview.Risk != lending.LTVWarning {
		t.Errorf("expected 50.00 Warning, got %s %s", preview.LTV.StringFixed(2), preview.Risk)
	}

	req := store.updates[0]
	if req.CurrentValue == nil || *req.CurrentValue != 1000000 {
		t.Errorf("expected current_value 1000000, got %v", req.CurrentValue)
	}
	if req.CurrentLTV == nil || *req.CurrentLTV != 50 {
		t.Errorf("expected current_ltv 50, got %v", req.CurrentLTV)
	}
	if req.Status != "" {
		t.Errorf("expected no status change, got %s", req.Status)
	}
}

func TestUpdateValue_UnroundedLTVIsStored(t *testing.T) {
	store := &mockCollateralStore{all: []domain.Collateral{pledgedWithPrincipal("c1", 500000)}}
	svc := newCollateralService(store)

	preview, err := svc.UpdateValue(context.Background(), "c1", 833400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.Risk != lending.LTVWarning || preview.ShortfallEligible {
		t.Errorf("expected Warning without shortfall, got %s shortfall=%v", preview.Risk, preview.ShortfallEligible)
	}

	got := *store.updates[0].CurrentLTV
	if got >= 60 || got < 59.99 {
		t.Errorf("expected unrounded ltv just below 60, got %v", got)
	}
}

func TestUpdateValue_UnknownCollateral(t *testing.T) {
	store := &mockCollateralStore{all: []domain.Collateral{pledgedWithPrincipal("c1", 500000)}}
	svc := newCollateralService(store)

	_, err := svc.UpdateValue(context.Background(), "missing", 1000000)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Error("expected no backend update")
	}
}

func TestUpdateValue_RejectsNonFiniteValue(t *testing.T) {
	store := &mockCollateralStore{all: []domain.Collateral{pledgedWithPrincipal("c1", 500000)}}
	svc := newCollateralService(store)

	for _, v := range []float64{math.NaN(), math.Inf(1), -1} {
		_, err := svc.UpdateValue(context.Background(), "c1", v)
		var validation *domain.ErrValidation
		if !errors.As(err, &validation) || validation.Field != "current_value" {
			t.Errorf("value %v: expected current_value validation error, got %v", v, err)
		}
	}
	if len(store.updates) != 0 {
		t.Error("expected no backend update")
	}
}

func TestPreviewLTV_RejectsNonFinite(t *testing.T) {
	svc := newCollateralService(&mockCollateralStore{})

	cases := map[string][2]float64{
		"nan value":     {500000, math.NaN()},
		"inf value":     {500000, math.Inf(1)},
		"inf principal": {math.Inf(1), 1000000},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.PreviewLTV(tc[0], tc[1])
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPreviewLTV_ZeroValueAndShortfall(t *testing.T) {
	svc := newCollateralService(&mockCollateralStore{})

	zero, err := svc.PreviewLTV(500000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !zero.LTV.IsZero() || zero.Risk != lending.LTVSafe {
		t.Errorf("expected 0 Safe, got %s %s", zero.LTV, zero.Risk)
	}

	breach, _ := svc.PreviewLTV(600000, 1000000)
	if breach.Risk != lending.LTVBreach || !breach.ShortfallEligible {
		t.Errorf("expected breach with shortfall, got %+v", breach)
	}
}

func TestRelease(t *testing.T) {
	store := &mockCollateralStore{}
	svc := newCollateralService(store)

	if err := svc.Release(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.updates[0].Status != domain.CollateralReleased {
		t.Errorf("expected RELEASED, got %s", store.updates[0].Status)
	}
}

func TestPledge_DuplicatesCurrentFields(t *testing.T) {
	store := &mockCollateralStore{}
	svc := newCollateralService(store)

	_, err := svc.Pledge(context.Background(), &domain.PledgeCollateralRequest{
		LoanID:             "l1",
		SecurityTypeID:     "st1",
		SecurityIdentifier: "ine002a01018",
		AmountAtPledge:     800000,
		LTVAtPledge:        45,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := store.pledges[0]
	if got.CurrentValue != 800000 || got.CurrentLTV != 45 || got.Status != domain.CollateralPledged {
		t.Errorf("expected duplicated current fields and PLEDGED, got %+v", got)
	}
	if got.SecurityIdentifier != "INE002A01018" {
		t.Errorf("expected upper-cased ISIN, got %s", got.SecurityIdentifier)
	}
}

func TestPledge_Validation(t *testing.T) {
	store := &mockCollateralStore{}
	svc := newCollateralService(store)

	_, err := svc.Pledge(context.Background(), &domain.PledgeCollateralRequest{
		LoanID: "l1", SecurityTypeID: "st1", SecurityIdentifier: "INE002A01018", LTVAtPledge: 101,
	})
	var v *domain.ErrValidation
	if !errors.As(err, &v) || v.Field != "ltv_at_pledge" {
		t.Fatalf("expected ltv_at_pledge validation error, got %v", err)
	}
	if len(store.pledges) != 0 {
		t.Error("expected no backend call")
	}
}

func TestCreateShortfall_NotImplemented(t *testing.T) {
	store := &mockCollateralStore{}
	svc := newCollateralService(store)

	err := svc.CreateShortfall(context.Background(), "c1")
	var ni *domain.ErrNotImplemented
	if !errors.As(err, &ni) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if len(store.updates) != 0 || len(store.pledges) != 0 {
		t.Error("expected no mutation")
	}
}

func TestCollateralLoadPage_Stats(t *testing.T) {
	store := &mockCollateralStore{all: []domain.Collateral{
		{ID: "c1", Status: domain.CollateralPledged, CurrentLTV: 45, CurrentValue: 1000000},
		{ID: "c2", Status: domain.CollateralPledged, CurrentLTV: 62, CurrentValue: 500000},
		{ID: "c3", Status: domain.CollateralReleased, CurrentLTV: 70, CurrentValue: 250000},
	}}
	svc := newCollateralService(store)

	page, err := svc.LoadPage(context.Background(), "s1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Stats.Total != 3 || page.Stats.Pledged != 2 || page.Stats.AtRisk != 1 {
		t.Errorf("unexpected stats %+v", page.Stats)
	}
	if page.Stats.TotalValue.String() != "1750000" {
		t.Errorf("expected total value 1750000, got %s", page.Stats.TotalValue)
	}
}

func TestCollateralLoadPage_LatestWins(t *testing.T) {
	store := &mockCollateralStore{
		all: []domain.Collateral{{ID: "c1", Status: domain.CollateralReleased}},
		byStatus: map[domain.CollateralStatus][]domain.Collateral{
			domain.CollateralPledged: {{ID: "c2", Status: domain.CollateralPledged}},
		},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newCollateralService(store)

	type result struct {
		page *service.CollateralPage
		err  error
	}
	slow := make(chan result, 1)
	go func() {
		p, err := svc.LoadPage(context.Background(), "s1", "")
		slow <- result{p, err}
	}()

	<-store.started
	fast, err := svc.LoadPage(context.Background(), "s1", domain.CollateralPledged)
	if err != nil {
		t.Fatalf("expected latest fetch to succeed, got %v", err)
	}
	if len(fast.Collaterals) != 1 || fast.Collaterals[0].ID != "c2" {
		t.Errorf("unexpected latest rows %+v", fast.Collaterals)
	}

	close(store.release)
	res := <-slow

	var stale *domain.ErrStaleView
	if !errors.As(res.err, &stale) {
		t.Fatalf("expected superseded fetch to be discarded, got page=%v err=%v", res.page, res.err)
	}
	if stale.Filter != "status=PLEDGED" {
		t.Errorf("expected latest filter status=PLEDGED, got %q", stale.Filter)
	}
}

func TestCollateralLoadPage_OtherSessionsDoNotInterfere(t *testing.T) {
	store := &mockCollateralStore{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newCollateralService(store)

	done := make(chan error, 1)
	go func() {
		_, err := svc.LoadPage(context.Background(), "s1", "")
		done <- err
	}()

	<-store.started
	if _, err := svc.LoadPage(context.Background(), "s2", domain.CollateralPledged); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(store.release)

	if err := <-done; err != nil {
		t.Errorf("expected session s1 fetch to stand, got %v", err)
	}
}
