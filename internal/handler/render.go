package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/lending"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// pages are parsed together with layout.html.
var pages = []string{"home", "dashboard", "applications", "collateral", "repayment", "login"}

// basePage carries what every page renders around its content.
type basePage struct {
	Title    string
	Nav      string
	Theme    Theme
	Flash    *domain.Flash
	Operator string
	AuthOn   bool
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

// NewRenderer parses every page template. It panics on a malformed
// template since they are compiled into the binary.
func NewRenderer(logger *zap.Logger) *Renderer {
	rd := &Renderer{templates: make(map[string]*template.Template, len(pages)), logger: logger}
	for _, p := range pages {
		t := template.Must(template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html"))
		rd.templates[p] = t
	}
	return rd
}

// Render writes page with status. Rendering happens into a buffer so a
// template error never leaves a half-written page.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := rd.templates[page]
	if !ok {
		rd.logger.Error("unknown page template", zap.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		rd.logger.Error("template execution failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

var templateFuncs = template.FuncMap{
	"inr0":    func(v any) string { return lending.FormatINR(toDecimal(v), 0) },
	"inr2":    func(v any) string { return lending.FormatINR(toDecimal(v), 2) },
	"compact": func(v any) string { return lending.FormatCompactINR(toDecimal(v)) },
	"pct":     func(v any, places int) string { return lending.FormatPercent(toDecimal(v), int32(places)) },
	"fixed":   func(v any, places int) string { return toDecimal(v).StringFixed(int32(places)) },
	"date":    formatDate,
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
	"accountType": domain.AccountTypeLabel,
}

// toDecimal accepts the numeric shapes the view models carry.
func toDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case domain.Amount:
		return n.Decimal
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}
