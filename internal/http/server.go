// Package http serves the credit ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tarjetas/internal/ledger"
	"tarjetas/internal/log"
	"tarjetas/internal/middleware/ratelimit"
	"tarjetas/internal/middleware/security"
	"tarjetas/internal/middleware/trace"
)

// Options configures a Server.
type Options struct {
	// DefaultStatementIndex is the statement /statement/{id}/default shows.
	// Negative values count from the end.
	DefaultStatementIndex int
	// AutoSave persists the ledger after every successful mutation.
	AutoSave           bool
	AllowedOrigins     []string
	RateLimitPerMinute int
	Logger             *log.Logger
	// Now replaces time.Now for rolling statements forward.
	Now func() time.Time
}

type Server struct {
	http.Server
	router   *chi.Mux
	book     *ledger.Book
	opts     Options
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
}

// NewServer wires the routes for book. Call Shutdown to release the
// rate limiter.
func NewServer(addr string, book *ledger.Book, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		router:   chi.NewRouter(),
		book:     book,
		opts:     opts,
		logger:   opts.Logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		tracer:   trace.NewMiddleware(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.tracer.Handler)
	s.router.Use(log.Middleware(s.logger, trace.FromRequest))
	s.router.Use(security.Headers(security.DefaultHeadersConfig()))
	s.router.Use(s.flagSuspicious)

	if len(s.opts.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", trace.HeaderRequestID},
			ExposedHeaders: []string{trace.HeaderRequestID},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/hello", s.handleHello)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/", s.handleCredits)
	r.Get("/credit/{credit_id}", s.handleCredit)
	r.Get("/statement/{credit_id}/default", s.handleDefaultStatement)
	r.Get("/statement/{credit_id}/{statement_id}", s.handleStatement)

	r.Group(func(rt chi.Router) {
		rt.Use(s.limiter.Middleware(s.detector.ClientIP, s.handleRateLimited))

		rt.Get("/statements/create/next", s.handleCreateNext)
		rt.Post("/statements/create/next", s.handleCreateNext)
		rt.Put("/statements/update/{credit_id}/{statement_id}", s.handleUpdateStatement)
		rt.Put("/statements/payments/{credit_id}/{statement_id}", s.handleReplacePayments)
		rt.Put("/payment/update/{credit_id}/{statement_id}/{payment_id}", s.handleUpdatePayment)
		rt.Post("/payment/new/{credit_id}/{statement_id}", s.handleNewPayment)
		rt.Post("/save", s.handleSave)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
}

// flagSuspicious logs probe-looking requests. They are still served.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.IsSuspicious(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				log.FieldClientIP, s.detector.ClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded", log.FieldClientIP, s.detector.ClientIP(r))
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	s.logger.Info("Shutting down HTTP server",
		"requests_served", s.tracer.TotalRequests(),
		"rate_limited", s.limiter.Rejected(),
		"suspicious", s.detector.Suspicious())
	return s.Server.Shutdown(ctx)
}
