package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/minima-wallet-api/internal/api/handlers"
	"github.com/thanhnp/minima-wallet-api/internal/api/middleware"
	"github.com/thanhnp/minima-wallet-api/internal/config"
	"github.com/thanhnp/minima-wallet-api/internal/metrics"
	"github.com/thanhnp/minima-wallet-api/internal/rpc"
	"github.com/thanhnp/minima-wallet-api/internal/storage"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine         *gin.Engine
	metrics        *metrics.Metrics
	walletHandler  *handlers.WalletHandler
	addressHandler *handlers.AddressHandler
	labelHandler   *handlers.LabelHandler
}

// NewRouter creates a new Router with all handlers
func NewRouter(
	node rpc.CommandRunner,
	labels storage.LabelStore,
	cfg config.NodeConfig,
	m *metrics.Metrics,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:         gin.New(),
		metrics:        m,
		walletHandler:  handlers.NewWalletHandler(node, cfg),
		addressHandler: handlers.NewAddressHandler(node, labels),
		labelHandler:   handlers.NewLabelHandler(node, labels),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(r.metrics))
	r.engine.Use(middleware.CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	// Token balance, transfers and history
	r.engine.GET("/balance", r.walletHandler.GetBalance)
	r.engine.GET("/balance/:address", r.walletHandler.GetAddressBalance)
	r.engine.POST("/send", r.walletHandler.Send)
	r.engine.GET("/history", r.walletHandler.GetHistory)

	// Address management
	addresses := r.engine.Group("/addresses")
	{
		addresses.GET("", r.addressHandler.List)
		addresses.POST("", r.addressHandler.Create)
	}
	r.engine.POST("/label", r.labelHandler.Set)
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
