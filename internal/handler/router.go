package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router serves.
type Services struct {
	Dashboard    *service.DashboardService
	Applications *service.ApplicationsService
	Collateral   *service.CollateralService
	Repayment    *service.RepaymentService
	Calculator   *service.CalculatorService
	Auth         *service.AuthService
	Flashes      *service.Flashes
	Views        *service.ViewTracker
	Backends     []Backend

	SessionTTL   time.Duration
	CookieSecure bool
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	wb := &web{
		render:  NewRenderer(logger),
		flashes: svc.Flashes,
		views:   svc.Views,
		auth:    svc.Auth,
		secure:  svc.CookieSecure,
	}

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Backends))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// --- Pages ---
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(svc.CookieSecure, svc.SessionTTL))
		r.Use(ThemeMiddleware)

		// Public: marketing page, calculator, login and theme.
		r.Get("/", homeHandler(svc.Calculator, wb, logger))
		r.Post("/theme", themeHandler(wb))
		r.Get("/login", loginPageHandler(svc.Auth, wb))
		r.Post("/login", loginHandler(svc.Auth, wb, logger))
		r.Post("/logout", logoutHandler(wb))
		r.Get("/api/v1/calculator", calculatorHandler(svc.Calculator, logger))

		// Admin console. Open when no operator password is configured.
		r.Group(func(r chi.Router) {
			r.Use(OperatorAuthMiddleware(svc.Auth, logger))

			r.Get("/dashboard", dashboardHandler(svc.Dashboard, wb))

			r.Get("/applications", applicationsPageHandler(svc.Applications, wb, logger))
			r.Post("/applications", createApplicationHandler(svc.Applications, wb, logger))
			r.Post("/applications/{id}/status", applicationStatusHandler(svc.Applications, wb, logger))
			r.Post("/accounts", createAccountHandler(svc.Applications, wb, logger))

			r.Get("/collateral", collateralPageHandler(svc.Collateral, wb, logger))
			r.Post("/collateral", pledgeCollateralHandler(svc.Collateral, wb, logger))
			r.Post("/collateral/{id}/release", releaseCollateralHandler(svc.Collateral, wb, logger))
			r.Post("/collateral/{id}/value", updateCollateralValueHandler(svc.Collateral, wb, logger))
			r.Post("/collateral/{id}/shortfall", collateralShortfallHandler(svc.Collateral, wb, logger))

			r.Get("/repayment", repaymentPageHandler(svc.Repayment, wb, logger))
			r.Post("/repayment", recordRepaymentHandler(svc.Repayment, wb, logger))

			// --- API v1 ---
			r.Get("/api/v1/status", backendStatusHandler(metrics))
			r.Get("/api/v1/collaterals/ltv", ltvPreviewHandler(svc.Collateral, logger))
			r.Post("/api/v1/collaterals/{id}/shortfall", shortfallAPIHandler(svc.Collateral, logger))
		})
	})

	return r
}
