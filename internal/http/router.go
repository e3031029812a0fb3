package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-assistant/internal/metrics"
)

// RouterOptions agrupa lo que el router necesita ademas de los handlers.
type RouterOptions struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	// MaxBodyBytes acota el body de cada request; 0 usa DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// NewRouter configura el router de Gin con middlewares y rutas de la API.
func NewRouter(
	opts RouterOptions,
	chatH *ChatHandler,
	settingsH *SettingsHandler,
	ticketH *TicketHandler,
	statusH *StatusHandler,
) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	// Los paths matchean exacto: /api/chat/ es 404 con CORS, no un redirect.
	r.RedirectTrailingSlash = false

	// CORS va antes que todo lo demas: OPTIONS corta aca con 204 en cualquier path.
	r.Use(requestIDMiddleware(), corsMiddleware(), zapLoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(metricsMiddleware(opts.Metrics))
	}
	r.Use(recoveryMiddleware(logger), bodyLimitMiddleware(opts.MaxBodyBytes))
	if opts.RateLimitRPS > 0 {
		r.Use(NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, logger).Middleware())
	}
	r.Use(tenantMiddleware(opts.JWTSecret))

	api := r.Group("/api")
	api.POST("/chat", chatH.PostChat)
	api.GET("/export", chatH.Export)
	api.POST("/settings", settingsH.SaveSettings)
	api.GET("/settings", settingsH.GetSettings)
	api.POST("/tickets", ticketH.CreateTicket)
	api.GET("/status", statusH.GetStatus)

	r.GET("/", serveIndex)
	r.GET("/index.html", serveIndex)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return r
}
