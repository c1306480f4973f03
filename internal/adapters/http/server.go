package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"backoffice/internal/auth"
	"backoffice/internal/metrics"
	"backoffice/internal/ports"
)

// Services are the admin operations exposed over HTTP.
type Services struct {
	Health     ports.DatabaseHealth
	Moderation ports.Moderation
	Users      ports.Users
	Staff      ports.Staff
	Salons     ports.Salons
	Analytics  ports.Analytics
	AuditLog   ports.AuditLog
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Verifier    *auth.Verifier
	DB          Pinger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Log         *zap.Logger
	CORSOrigins []string
}

type Server struct {
	svc  Services
	opts Options
	log  *zap.Logger
}

func New(svc Services, opts Options) *Server {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{svc: svc, opts: opts, log: opts.Log.Named("http")}
}

// Routes returns the full router: probes, metrics and the authenticated
// /admin API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/db-health", s.dbHealth)

		r.Route("/moderation", func(r chi.Router) {
			r.Get("/reviews", s.listReviews)
			r.Get("/stats", s.moderationStats)
			r.Post("/reviews/{id}/flag", s.flagReview)
			r.Post("/reviews/{id}/clear-flag", s.clearReviewFlag)
			r.Post("/reviews/{id}/delete", s.deleteReview)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Get("/stats", s.userStats)
			r.Post("/{id}/ban", s.banUser)
			r.Post("/{id}/unban", s.unbanUser)
			r.Post("/{id}/roles", s.setUserRole)
			r.Post("/{id}/delete", s.deleteUser)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", s.staffOversight)
			r.Post("/{id}/suspend", s.suspendStaff)
			r.Post("/{id}/reinstate", s.reinstateStaff)
		})

		r.Route("/salons", func(r chi.Router) {
			r.Get("/", s.listSalons)
			r.Post("/{id}", s.updateSalon)
			r.Post("/{id}/verify", s.setSalonVerified)
			r.Post("/{id}/delete", s.deleteSalon)
		})

		r.Get("/analytics", s.analytics)
		r.Get("/audit-logs", s.auditLogs)
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.opts.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.DB.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unavailable"})
			return
		}
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// authenticate resolves the bearer token into a principal. Role checks are
// left to the services.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, r, "authentication required")
			return
		}
		p, err := s.opts.Verifier.Verify(header)
		if err != nil {
			s.log.Debug("rejected token", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
			unauthorized(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
