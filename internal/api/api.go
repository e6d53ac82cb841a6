// internal/api/api.go
//
// HTTP surface of layoutd.
//
// Context
// -------
// The template editor talks to the engine through a small JSON API:
//
//	GET    /api/templates[?category=]       list registered templates
//	GET    /api/templates/{id}              fetch one (lazy store load)
//	PUT    /api/templates/{id}              register or replace
//	DELETE /api/templates/{id}              unregister
//	POST   /api/templates/{id}/process      substitute variables (+ theme)
//	POST   /api/templates/{id}/validate     structural validation
//	POST   /api/validate                    validate an unsaved draft
//	GET    /api/widgets                     known widget kinds
//	GET    /metrics                         Prometheus scrape
//
// Middleware order: request info (id + access log), panic recovery,
// security headers.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package api

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/layoutkit/internal/catalog"
	"github.com/yanizio/layoutkit/internal/middleware"
	"github.com/yanizio/layoutkit/internal/requestinfo"
	"github.com/yanizio/layoutkit/internal/widget"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Server holds the handler dependencies.
type Server struct {
	cat      *catalog.Catalog
	kinds    *widget.Registry[string]
	log      *zap.SugaredLogger
	policy   *bluemonday.Policy
	validate *validator.Validate
}

// New returns an API server.  A nil logger falls back to zap.S().
func New(cat *catalog.Catalog, kinds *widget.Registry[string], log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.S()
	}
	return &Server{
		cat:      cat,
		kinds:    kinds,
		log:      log,
		policy:   bluemonday.StrictPolicy(),
		validate: newValidator(),
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestinfo.Enrich(s.log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/widgets", s.listWidgets)
		r.Post("/validate", s.validateDraft)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getTemplate)
				r.Put("/", s.putTemplate)
				r.Delete("/", s.deleteTemplate)
				r.Post("/process", s.processTemplate)
				r.Post("/validate", s.validateTemplate)
			})
		})
	})
	return r
}
