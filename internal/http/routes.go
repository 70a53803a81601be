package http

import (
	"assist_backend/internal/config"
	"assist_backend/internal/domain"
	"assist_backend/internal/http/handlers"
	"assist_backend/internal/http/middleware"
	"assist_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TokenVerifier is satisfied by *service.AuthService.
type TokenVerifier interface {
	middleware.TokenVerifier
	ws.TokenVerifier
}

type Options struct {
	Config  *config.Config
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Tokens  TokenVerifier
	Limiter *middleware.RateLimiter
	Hub     *ws.Hub
}

// NewRouter returns an engine with the global middleware chain and every route mounted.
func NewRouter(o Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(o.Config.AllowedOrigin))

	RegisterRoutes(r, o)
	return r
}

func RegisterRoutes(r *gin.Engine, o Options) {
	// Health checks (no rate limiting)
	r.GET("/health", o.Health.Health)
	r.GET("/healthz", o.Health.Liveness)
	r.GET("/readyz", o.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Task event feed
	r.GET("/ws", ws.HandleWS(o.Hub, o.Tokens, o.Config.AllowedOrigin))

	registerAPIRoutes(&r.RouterGroup, o)

	// Versioned mount of the same API
	registerAPIRoutes(r.Group("/api/v1"), o)
}

func registerAPIRoutes(api *gin.RouterGroup, o Options) {
	h := o.Handler
	cfg := o.Config

	authRL := o.Limiter.ByIP("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	api.POST("/register", authRL, h.Register)
	api.POST("/login", authRL, h.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(o.Tokens))
	authed.Use(o.Limiter.ByUser("api", cfg.APIRateLimit, cfg.APIRateWindow))
	{
		authed.GET("/me", h.Me)

		authed.GET("/tasks", h.ListTasks)
		authed.POST("/tasks", h.CreateTask)
		authed.GET("/tasks/:id", h.GetTask)
		authed.PUT("/tasks/:id", h.UpdateTask)
		authed.DELETE("/tasks/:id", h.DeleteTask)

		authed.GET("/boards", h.ListBoards)
		authed.POST("/boards", h.CreateBoard)

		authed.POST("/assistant", h.Assistant)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/audit", h.AdminAudit)
		admin.GET("/stats", h.AdminStats)
	}
}
