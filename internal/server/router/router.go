package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/config"
	"github.com/mamadbah2/fueldepot/internal/metrics"
	"github.com/mamadbah2/fueldepot/internal/server/handlers"
)

// Handlers groups the HTTP adapters served by the engine. Webhook is nil when
// WhatsApp is not configured.
type Handlers struct {
	Inventory   *handlers.InventoryHandler
	Conversions *handlers.ConversionHandler
	Fleet       *handlers.FleetHandler
	Accounts    *handlers.AccountsHandler
	Webhook     *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	if cfg.RateLimitRPS > 0 {
		api.Use(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger.Named("ratelimit")).middleware())
	}

	api.GET("/deliveries", h.Inventory.ListDeliveries)
	api.POST("/deliveries", h.Inventory.CreateDelivery)
	api.PATCH("/deliveries/:id", h.Inventory.UpdateDelivery)
	api.DELETE("/deliveries/:id", h.Inventory.DeleteDelivery)
	api.GET("/stock", h.Inventory.Stock)

	api.POST("/conversions/linear", h.Conversions.FromLinear)
	api.POST("/conversions/mass", h.Conversions.FromMass)

	api.GET("/trucks", h.Fleet.ListTrucks)
	api.POST("/trucks", h.Fleet.CreateTruck)
	api.PATCH("/trucks/:id", h.Fleet.UpdateTruck)
	api.DELETE("/trucks/:id", h.Fleet.DeleteTruck)
	api.GET("/trucks/:id/entries", h.Fleet.ListEntries)
	api.POST("/trucks/:id/entries", h.Fleet.CreateEntry)
	api.GET("/trucks/:id/status", h.Fleet.Status)
	api.PATCH("/entries/:id", h.Fleet.UpdateEntry)
	api.DELETE("/entries/:id", h.Fleet.DeleteEntry)

	api.GET("/counterparties", h.Accounts.ListCounterparties)
	api.POST("/counterparties", h.Accounts.CreateCounterparty)
	api.GET("/counterparties/:id/transactions", h.Accounts.ListTransactions)
	api.POST("/counterparties/:id/transactions", h.Accounts.AddTransaction)
	api.GET("/counterparties/:id/payments", h.Accounts.ListPayments)
	api.POST("/counterparties/:id/payments", h.Accounts.AddPayment)
	api.GET("/counterparties/:id/balance", h.Accounts.Balance)
	api.DELETE("/transactions/:id", h.Accounts.DeleteTransaction)
	api.DELETE("/payments/:id", h.Accounts.DeletePayment)
	api.GET("/balances", h.Accounts.Balances)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Bool("whatsapp", h.Webhook != nil))

	return r
}
