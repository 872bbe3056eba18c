package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	sessionKey  contextKey = "session"
	themeKey    contextKey = "theme"
	operatorKey contextKey = "operator"
)

const (
	sessionCookie = "lamf_session"
	themeCookie   = "lamf_theme"
	tokenCookie   = "lamf_token"
)

// Theme is the light/dark preference, resolved once per request and passed
// into every page explicitly.
type Theme struct {
	Dark         bool
	ToggleAction string
}

// Class is the CSS class applied to <body>.
func (t Theme) Class() string {
	if t.Dark {
		return "theme-dark"
	}
	return "theme-light"
}

// ToggleLabel is the text of the toggle button.
func (t Theme) ToggleLabel() string {
	if t.Dark {
		return "Light mode"
	}
	return "Dark mode"
}

// SessionMiddleware ensures every browser carries an anonymous session id.
// The id scopes flash messages and latest-wins view tracking.
func SessionMiddleware(secure bool, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(sessionCookie); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			// Sliding expiry.
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ThemeMiddleware resolves the theme cookie into a Theme value.
func ThemeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := Theme{ToggleAction: "/theme"}
		if c, err := r.Cookie(themeCookie); err == nil && c.Value == "dark" {
			theme.Dark = true
		}
		ctx := context.WithValue(r.Context(), themeKey, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OperatorAuthMiddleware requires a valid session token when login is
// configured. Pages redirect to /login; /api routes answer 401.
func OperatorAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authSvc == nil || !authSvc.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			c, err := r.Cookie(tokenCookie)
			if err == nil {
				claims, verr := authSvc.ValidateToken(c.Value)
				if verr == nil {
					ctx := context.WithValue(r.Context(), operatorKey, claims.Sub)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				err = verr
			}

			logger.Warn("auth: no valid operator session",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeError(w, http.StatusUnauthorized, "login required")
				return
			}
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// SessionFromContext returns the anonymous session id.
func SessionFromContext(ctx context.Context) string {
	v, _ := ctx.Value(sessionKey).(string)
	return v
}

// ThemeFromContext returns the request's theme.
func ThemeFromContext(ctx context.Context) Theme {
	if v, ok := ctx.Value(themeKey).(Theme); ok {
		return v
	}
	return Theme{ToggleAction: "/theme"}
}

// OperatorFromContext returns the logged-in operator, if any.
func OperatorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(operatorKey).(string)
	return v
}
