package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/boddenberg/lamf-portal-go/internal/service"

	"go.uber.org/zap"
)

type loginPage struct {
	basePage
	Next  string
	User  string
	Error string
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/dashboard"
	}
	return next
}

// ============================================================
// GET /login
// ============================================================

func loginPageHandler(authSvc *service.AuthService, wb *web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := safeNext(r.URL.Query().Get("next"))
		if !authSvc.Enabled() {
			http.Redirect(w, r, next, http.StatusSeeOther)
			return
		}
		wb.render.Render(w, http.StatusOK, "login", loginPage{
			basePage: wb.base(r, "Operator Login", "login"),
			Next:     next,
		})
	}
}

// ============================================================
// POST /login
// ============================================================

func loginHandler(authSvc *service.AuthService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /login")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		user := strings.TrimSpace(r.PostFormValue("username"))
		next := safeNext(r.PostFormValue("next"))

		token, err := authSvc.Login(ctx, user, r.PostFormValue("password"))
		if err != nil {
			logger.Debug("login rejected", zap.String("user", user), zap.Error(err))
			wb.render.Render(w, statusFor(err), "login", loginPage{
				basePage: wb.base(r, "Operator Login", "login"),
				Next:     next,
				User:     user,
				Error:    userMessage(err),
			})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(authSvc.SessionTTL().Seconds()),
			HttpOnly: true,
			Secure:   wb.secure,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

// ============================================================
// POST /logout
// ============================================================

func logoutHandler(wb *web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   wb.secure,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ============================================================
// POST /theme: flip light/dark and go back
// ============================================================

func themeHandler(wb *web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := "dark"
		if ThemeFromContext(r.Context()).Dark {
			value = "light"
		}
		http.SetCookie(w, &http.Cookie{
			Name:     themeCookie,
			Value:    value,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			Secure:   wb.secure,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
	}
}

// backTo returns the same-site page the request came from, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return safeNext(ref.RequestURI())
}
