package service

import (
	"fmt"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/port"
)

// ViewTracker implements latest-wins for list views. Every fetch for a
// (session, view) pair takes a ticket with a higher sequence; when a fetch
// completes after a newer one for a different filter started, its result
// is discarded. A newer fetch of the same filter does not supersede.
type ViewTracker struct {
	states  port.Cache[domain.ViewState]
	metrics *observability.Metrics
}

// NewViewTracker creates a tracker backed by states.
func NewViewTracker(states port.Cache[domain.ViewState], metrics *observability.Metrics) *ViewTracker {
	return &ViewTracker{states: states, metrics: metrics}
}

// Begin records filter as the active filter of view and returns its ticket.
func (t *ViewTracker) Begin(session, view, filter string) domain.ViewTicket {
	key := fmt.Sprintf("view:%s:%s", session, view)
	st := t.states.Update(key, func(cur domain.ViewState, _ bool) domain.ViewState {
		return domain.ViewState{Seq: cur.Seq + 1, Filter: filter}
	})
	return domain.ViewTicket{Key: key, View: view, Seq: st.Seq, Filter: filter}
}

// Check returns ErrStaleView carrying the latest filter when tk was superseded.
func (t *ViewTracker) Check(tk domain.ViewTicket) error {
	st, ok := t.states.Get(tk.Key)
	if !ok || st.Seq == tk.Seq || st.Filter == tk.Filter {
		return nil
	}
	t.metrics.IncrStaleView(tk.View)
	return &domain.ErrStaleView{View: tk.View, Filter: st.Filter}
}

// ActiveFilter returns the last filter begun for view, if any.
func (t *ViewTracker) ActiveFilter(session, view string) (string, bool) {
	st, ok := t.states.Get(fmt.Sprintf("view:%s:%s", session, view))
	if !ok {
		return "", false
	}
	return st.Filter, true
}

// Flashes stores one-shot messages per session.
type Flashes struct {
	cache port.Cache[domain.Flash]
}

// NewFlashes creates a flash store.
func NewFlashes(cache port.Cache[domain.Flash]) *Flashes {
	return &Flashes{cache: cache}
}

// Set replaces the pending flash for session.
func (f *Flashes) Set(session string, kind domain.FlashKind, msg string) {
	f.cache.Set("flash:"+session, domain.Flash{Kind: kind, Message: msg})
}

// Pop returns and clears the pending flash for session.
func (f *Flashes) Pop(session string) (domain.Flash, bool) {
	return f.cache.Pop("flash:" + session)
}
