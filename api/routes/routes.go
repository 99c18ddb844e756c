package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/config"
	"github.com/ArowuTest/fundme-backend/internal/handlers"
	"github.com/ArowuTest/fundme-backend/internal/metrics"
	"github.com/ArowuTest/fundme-backend/internal/middleware"
	"github.com/ArowuTest/fundme-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HandlerDependencies holds everything the router wires together
type HandlerDependencies struct {
	AuthHandler          *handlers.AuthHandler
	FundMeHandler        *handlers.FundMeHandler
	RaffleHandler        *handlers.RaffleHandler
	SimpleStorageHandler *handlers.SimpleStorageHandler
	DeploymentHandler    *handlers.DeploymentHandler
	EventHandler         *handlers.EventHandler
	PriceFeedHandler     *handlers.PriceFeedHandler

	Tokens  *jwt.TokenService
	Metrics *metrics.Collector
	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
	// HealthCheck reports storage health; nil means always healthy
	HealthCheck func(ctx context.Context) error
	Logger      *zap.SugaredLogger
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			if deps.HealthCheck != nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				defer cancel()
				if err := deps.HealthCheck(ctx); err != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/challenge", deps.AuthHandler.Challenge)
			auth.POST("/token", deps.AuthHandler.Token)
		}

		public.GET("/networks", deps.DeploymentHandler.Networks)
		public.GET("/deployments", deps.DeploymentHandler.List)
		public.GET("/deployments/:address", deps.DeploymentHandler.Get)
		public.GET("/events", deps.EventHandler.List)

		fundMe := public.Group("/fundme/:address")
		{
			fundMe.GET("", deps.FundMeHandler.Get)
			fundMe.GET("/amounts/:funder", deps.FundMeHandler.AmountFunded)
			fundMe.GET("/funders/:index", deps.FundMeHandler.Funder)
			fundMe.GET("/contributions", deps.FundMeHandler.Contributions)
			fundMe.GET("/payouts", deps.FundMeHandler.Payouts)
		}

		raffles := public.Group("/raffles/:address")
		{
			raffles.GET("", deps.RaffleHandler.Get)
			raffles.GET("/players/:index", deps.RaffleHandler.Player)
		}

		storage := public.Group("/simple-storage/:address")
		{
			storage.GET("", deps.SimpleStorageHandler.Get)
			storage.GET("/people/:name", deps.SimpleStorageHandler.FavoriteNumberOf)
		}

		feeds := public.Group("/price-feeds/:address")
		{
			feeds.GET("", deps.PriceFeedHandler.Get)
			feeds.GET("/convert", deps.PriceFeedHandler.Convert)
		}
	}

	// Protected routes: the caller is the address the bearer token was issued to
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens, deps.Logger))
	{
		protected.POST("/deployments", deps.DeploymentHandler.Deploy)
		protected.POST("/contracts/:address/transfer", deps.DeploymentHandler.Transfer)

		protected.POST("/fundme/:address/fund", deps.FundMeHandler.Fund)
		protected.POST("/fundme/:address/withdraw", deps.FundMeHandler.Withdraw)

		protected.POST("/raffles/:address/enter", deps.RaffleHandler.Enter)
		protected.POST("/raffles/:address/pick-winner", deps.RaffleHandler.PickWinner)

		protected.PUT("/simple-storage/:address/favorite-number", deps.SimpleStorageHandler.Store)
		protected.POST("/simple-storage/:address/people", deps.SimpleStorageHandler.AddPerson)

		protected.PUT("/price-feeds/:address/answer", deps.PriceFeedHandler.UpdateAnswer)
	}

	return router
}
