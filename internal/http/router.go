package transporthttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"

	"github.com/MrKriegler/insureflow/docs"
	"github.com/MrKriegler/insureflow/internal/http/handlers"
	"github.com/MrKriegler/insureflow/internal/http/health"
	"github.com/MrKriegler/insureflow/internal/middleware"
	"github.com/MrKriegler/insureflow/internal/platform/metrics"
)

// Deps bundles feature handlers that implement handlers.Mountable together
// with the cross-cutting pieces the router wraps them in.
type Deps struct {
	Log            *slog.Logger
	Store          health.Pinger
	Metrics        *metrics.Metrics
	Identity       *middleware.Identity
	Limiter        middleware.Limiter // nil disables rate limiting
	APIKey         string             // empty disables the shared key check
	AllowedOrigins []string
	RequestTimeout time.Duration
	StoreTimeout   time.Duration
	Mounts         []handlers.Mountable
}

const apiPrefix = "/api/v1"

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(d.AllowedOrigins))

	health.NewChecker(d.Log, d.Store, d.StoreTimeout).Mount(r)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/swagger/doc.json", serveSwagger(d.Log))

	r.Route(apiPrefix, func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(middleware.RateLimit(d.Limiter, d.Metrics))
		}
		if d.APIKey != "" {
			r.Use(middleware.SimpleAPIKey(d.APIKey))
		}
		r.Use(d.Identity.AllowAnonymous(middleware.PublicRead(apiPrefix)).Handler)
		r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))
		r.Use(middleware.SetJSONContentType)
		if d.RequestTimeout > 0 {
			r.Use(chimw.Timeout(d.RequestTimeout))
		}

		// Mount each feature's routes into this router.
		for _, m := range d.Mounts {
			m.Mount(r)
		}
	})

	return r
}

func serveSwagger(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			log.Error("failed to render swagger doc", "err", err)
			http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}
}
