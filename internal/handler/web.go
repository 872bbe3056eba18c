package handler

import (
	"net/http"
	"net/url"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/service"
)

// web holds what every HTML handler needs besides its own service.
type web struct {
	render  *Renderer
	flashes *service.Flashes
	views   *service.ViewTracker
	auth    *service.AuthService
	secure  bool
}

// base builds the page frame and consumes the pending flash.
func (wb *web) base(r *http.Request, title, nav string) basePage {
	ctx := r.Context()
	b := basePage{
		Title:    title,
		Nav:      nav,
		Theme:    ThemeFromContext(ctx),
		Operator: OperatorFromContext(ctx),
		AuthOn:   wb.auth != nil && wb.auth.Enabled(),
	}
	if f, ok := wb.flashes.Pop(SessionFromContext(ctx)); ok {
		b.Flash = &f
	}
	return b
}

// flash queues a message for the next page the session renders.
func (wb *web) flash(r *http.Request, kind domain.FlashKind, msg string) {
	wb.flashes.Set(SessionFromContext(r.Context()), kind, msg)
}

// redirectActive sends the browser back to the view's active filter with
// any panel closed (post/redirect/get). extra is merged over the filter.
func (wb *web) redirectActive(w http.ResponseWriter, r *http.Request, view, path string, extra url.Values) {
	filter, _ := wb.views.ActiveFilter(SessionFromContext(r.Context()), view)
	q, _ := url.ParseQuery(filter)
	for k, vs := range extra {
		q[k] = vs
	}
	http.Redirect(w, r, withQuery(path, q.Encode()), http.StatusSeeOther)
}

// redirectStale answers a superseded fetch with the latest filter.
func redirectStale(w http.ResponseWriter, r *http.Request, path string, stale *domain.ErrStaleView) {
	http.Redirect(w, r, withQuery(path, stale.Filter), http.StatusSeeOther)
}

// pageURL builds path?query from base with pairs applied; an empty value
// removes the key.
func pageURL(path string, base url.Values, pairs ...string) string {
	q := url.Values{}
	for k, vs := range base {
		q[k] = append([]string(nil), vs...)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			q.Del(pairs[i])
			continue
		}
		q.Set(pairs[i], pairs[i+1])
	}
	return withQuery(path, q.Encode())
}
