package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	httpctx "github.com/dtroode/gophspace-server/internal/api/http/context"
	"github.com/dtroode/gophspace-server/internal/api/http/handler"
	"github.com/dtroode/gophspace-server/internal/api/http/middleware"
	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/metrics"
	"github.com/dtroode/gophspace-server/internal/service"
)

// Services groups the domain services behind the HTTP API.
type Services struct {
	Identity    *service.Identity
	Tokens      *service.TokenService
	Spaces      *service.Space
	Permissions *service.Permission
	Messages    *service.Message
	Audit       *service.Audit
}

// Router builds the public HTTP API.
type Router struct {
	services       Services
	contextManager *httpctx.Manager
	limiter        middleware.Limiter
	metrics        *metrics.Metrics
	health         http.Handler
	allowedOrigins []string
	logger         *logger.Logger
}

// Option configures optional parts of the Router.
type Option func(*Router)

// WithLimiter enables rate limiting.
func WithLimiter(limiter middleware.Limiter) Option {
	return func(r *Router) {
		r.limiter = limiter
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithHealth serves h on /healthz.
func WithHealth(h http.Handler) Option {
	return func(r *Router) {
		r.health = h
	}
}

// WithAllowedOrigins sets the CORS origin list.
func WithAllowedOrigins(origins []string) Option {
	return func(r *Router) {
		r.allowedOrigins = origins
	}
}

// New creates new HTTP Router instance.
func New(services Services, contextManager *httpctx.Manager, logger *logger.Logger, opts ...Option) *Router {
	r := &Router{
		services:       services,
		contextManager: contextManager,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register builds the handler tree. Operational endpoints sit outside the
// audited API; every other path, matched or not, is audited.
func (r *Router) Register() http.Handler {
	mux := chi.NewRouter()

	mux.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.NewLogging(r.logger).Handle,
	)
	if r.metrics != nil {
		mux.Use(r.metrics.Middleware)
	}
	mux.Use(middleware.CORS(r.allowedOrigins))

	if r.health != nil {
		mux.Method(http.MethodGet, "/healthz", r.health)
	}
	if r.metrics != nil {
		mux.Method(http.MethodGet, "/metrics", r.metrics.Handler())
	}

	mux.Mount("/", r.api())

	return mux
}

func (r *Router) api() http.Handler {
	var observer interface {
		middleware.AuditObserver
		middleware.RateLimitObserver
	}
	if r.metrics != nil {
		observer = r.metrics
	}

	var limit *middleware.RateLimit
	if r.limiter != nil {
		limit = middleware.NewRateLimit(r.limiter, r.contextManager, observer)
	}

	api := chi.NewRouter()
	if limit != nil {
		api.Use(limit.Admit)
	}
	api.Use(
		middleware.NewIdentify(r.services.Identity, r.services.Tokens, r.contextManager, r.logger).Handle,
		middleware.NewAudit(r.services.Audit, r.contextManager, observer, r.logger).Handle,
		middleware.NewRecoverer(r.logger).Handle,
	)
	if limit != nil {
		api.Use(limit.Handle)
	}
	api.Use(middleware.RequireJSON)

	api.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteMessage(w, http.StatusNotFound, response.MessageNotFound)
	})
	api.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteMessage(w, http.StatusMethodNotAllowed, response.MessageNotAllowed)
	})

	users := handler.NewUser(r.services.Identity, r.services.Tokens, r.contextManager, r.logger)
	spaces := handler.NewSpace(r.services.Spaces, r.contextManager, r.logger)
	permissions := handler.NewPermission(r.services.Permissions, r.contextManager, r.logger)
	messages := handler.NewMessage(r.services.Messages, r.contextManager, r.logger)
	audit := handler.NewAudit(r.services.Audit, r.contextManager, r.logger)

	api.Post("/users", users.Register)
	api.Post("/sessions", users.CreateSession)

	api.Group(func(g chi.Router) {
		g.Use(middleware.NewRequireAuth(r.contextManager).Handle)

		g.Put("/users/me/password", users.RotatePassword)
		g.Post("/spaces", spaces.Create)
		g.Route("/spaces/{spaceID}", func(s chi.Router) {
			s.Get("/", spaces.Get)

			s.Get("/permissions", permissions.List)
			s.Get("/permissions/{userID}", permissions.Get)
			s.Put("/permissions/{userID}", permissions.Grant)
			s.Delete("/permissions/{userID}", permissions.Revoke)

			s.Post("/messages", messages.Post)
			s.Get("/messages", messages.List)
			s.Get("/messages/{messageID}", messages.Get)
			s.Delete("/messages/{messageID}", messages.Delete)
		})
		g.Get("/audit", audit.List)
	})

	return api
}
