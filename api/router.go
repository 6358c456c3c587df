// Package api exposes the wallet, planner and assistant over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/xraph/ezcoin"
)

// Config controls the HTTP surface.
type Config struct {
	AllowOrigins []string
	Auth         MiddlewareConfig
	Verifier     *Verifier
	Logger       *slog.Logger
	// Metrics, when set, is served unauthenticated at /metrics.
	Metrics http.Handler
}

// Server holds the handlers' dependencies.
type Server struct {
	ledger *ezcoin.Ledger
	logger *slog.Logger
}

// NewRouter builds the gin engine serving l.
func NewRouter(l *ezcoin.Ledger, cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Auth.Logger == nil {
		cfg.Auth.Logger = logger
	}
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{ledger: l, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", WalletHeader},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", s.health)
	router.GET("/packages", s.packages)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	protected := router.Group("/")
	protected.Use(Middleware(cfg.Verifier, cfg.Auth))

	protected.GET("/wallet", s.wallet)
	protected.GET("/wallet/history", s.history)
	protected.POST("/wallet/purchase", s.purchase)
	protected.POST("/wallet/spend", s.spend)
	protected.POST("/wallet/actions/:action", s.charge)

	protected.GET("/planner/events", s.listEvents)
	protected.POST("/planner/events", s.createEvent)
	protected.GET("/planner/export", s.export)
	protected.POST("/planner/suggestions", s.suggest)

	protected.POST("/ezai/:action", s.assist)

	return router
}
