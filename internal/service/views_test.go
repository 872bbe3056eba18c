package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/cache"
	"github.com/boddenberg/lamf-portal-go/internal/service"
)

func TestViewTracker_LatestWins(t *testing.T) {
	tracker, metrics := newTracker()

	first := tracker.Begin("s1", "collateral", "")
	second := tracker.Begin("s1", "collateral", "PLEDGED")

	if err := tracker.Check(second); err != nil {
		t.Fatalf("expected latest ticket to be current, got %v", err)
	}

	err := tracker.Check(first)
	var stale *domain.ErrStaleView
	if !errors.As(err, &stale) {
		t.Fatalf("expected ErrStaleView, got %v", err)
	}
	if stale.Filter != "PLEDGED" {
		t.Errorf("expected latest filter PLEDGED, got %q", stale.Filter)
	}
	if got := metrics.BackendSnapshot().StaleDiscarded; got != 1 {
		t.Errorf("expected 1 stale view counted, got %d", got)
	}

	if f, ok := tracker.ActiveFilter("s1", "collateral"); !ok || f != "PLEDGED" {
		t.Errorf("expected active filter PLEDGED, got %q %v", f, ok)
	}
}

func TestViewTracker_SameFilterDoesNotSupersede(t *testing.T) {
	tracker, _ := newTracker()

	first := tracker.Begin("s1", "collateral", "status=PLEDGED")
	tracker.Begin("s1", "collateral", "status=PLEDGED")

	if err := tracker.Check(first); err != nil {
		t.Errorf("expected a repeat of the same filter to stand, got %v", err)
	}
}

func TestViewTracker_ViewsAreIndependent(t *testing.T) {
	tracker, _ := newTracker()

	coll := tracker.Begin("s1", "collateral", "")
	tracker.Begin("s1", "repayment", "view=loan&loan_id=l1")

	if err := tracker.Check(coll); err != nil {
		t.Errorf("expected other views not to supersede, got %v", err)
	}
}

func TestFlashes_PopOnce(t *testing.T) {
	f := service.NewFlashes(cache.New[domain.Flash](time.Minute))
	f.Set("s1", domain.FlashSuccess, "Account created successfully!")

	got, ok := f.Pop("s1")
	if !ok || got.Message != "Account created successfully!" || got.Kind != domain.FlashSuccess {
		t.Fatalf("unexpected flash %+v %v", got, ok)
	}
	if _, ok := f.Pop("s1"); ok {
		t.Error("expected flash to be consumed")
	}
}
