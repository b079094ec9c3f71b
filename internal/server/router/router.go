package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/config"
	"github.com/mamadbah2/coldstore/internal/server/handlers"
	"github.com/mamadbah2/coldstore/internal/server/middleware"
	"github.com/mamadbah2/coldstore/internal/service/auth"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Farmers   *handlers.FarmerHandler
	Customers *handlers.CustomerHandler
	Storage   *handlers.StorageHandler
	Purchases *handlers.PurchaseHandler
	Sales     *handlers.SaleHandler
	Stock     *handlers.StockHandler
	Payments  *handlers.PaymentHandler
	ColdRooms *handlers.ColdRoomHandler
	Dashboard *handlers.DashboardHandler
	Reports   *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(cfg)))

	metrics := middleware.NewMetrics()
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	r.POST("/auth/request-otp", h.Auth.RequestOTP)
	r.POST("/auth/verify-otp", h.Auth.VerifyOTP)

	api := r.Group("/", middleware.RequireAuth(authSvc))

	farmers := api.Group("/farmers")
	{
		farmers.POST("/add", h.Farmers.Add)
		farmers.GET("/all", h.Farmers.All)
		farmers.GET("/:id", h.Farmers.Get)
		farmers.PUT("/update/:id", h.Farmers.Update)
		farmers.DELETE("/delete/:id", h.Farmers.Delete)
		farmers.GET("/:id/ledger", h.Farmers.Ledger)
	}

	customers := api.Group("/customers")
	{
		customers.POST("/add", h.Customers.Add)
		customers.GET("/all", h.Customers.All)
		customers.PUT("/update/:id", h.Customers.Update)
		customers.DELETE("/delete/:id", h.Customers.Delete)
	}

	storage := api.Group("/storage")
	{
		storage.POST("/add", h.Storage.Add)
		storage.GET("/all", h.Storage.All)
		storage.PUT("/update/:id", h.Storage.Update)
		storage.DELETE("/:id", h.Storage.Delete)
	}

	purchases := api.Group("/purchases")
	{
		purchases.POST("/", h.Purchases.Add)
		purchases.GET("/all", h.Purchases.All)
		purchases.GET("/report", h.Purchases.Report)
	}

	sales := api.Group("/sales")
	{
		sales.POST("/add", h.Sales.Add)
		sales.GET("/all", h.Sales.All)
		sales.GET("/report", h.Sales.Report)
	}

	stock := api.Group("/stock")
	{
		stock.POST("/add", h.Stock.Add)
		stock.GET("/all", h.Stock.All)
		stock.GET("/summary", h.Stock.Summary)
		stock.PUT("/update/:id", h.Stock.Update)
		stock.GET("/alerts", h.Stock.Alerts)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/add", h.Payments.Add)
		payments.GET("/all", h.Payments.All)
		payments.GET("/farmer/:id", h.Payments.ByFarmer)
	}

	coldrooms := api.Group("/coldrooms")
	{
		coldrooms.POST("/add", h.ColdRooms.Add)
		coldrooms.GET("/all", h.ColdRooms.All)
		coldrooms.PUT("/update/:id", h.ColdRooms.Update)
	}

	api.GET("/dashboard/summary", h.Dashboard.Summary)

	reports := api.Group("/reports")
	{
		reports.GET("/stock/export", h.Reports.StockExport)
		reports.GET("/farmers/:id/ledger/export", h.Reports.FarmerLedgerExport)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return c
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
