package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"trackfolio/internal/config"
	"trackfolio/internal/database"
	"trackfolio/internal/handlers"
	"trackfolio/internal/logger"
	"trackfolio/internal/middleware"
	"trackfolio/internal/prices"
	"trackfolio/internal/services"
	"trackfolio/internal/validator"
)

// @title           Trackfolio API
// @version         1.0
// @description     Trackfolio tracks a personal multi-asset investment portfolio: purchase records, market price synchronization, and portfolio totals.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Price sources share one HTTP client
	httpClient := &http.Client{Timeout: appConfig.PriceHTTPTimeout}
	coinGecko := prices.NewCoinGecko(httpClient)
	yahoo := prices.NewYahoo(httpClient)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db)
	cryptoService := services.NewCryptoInvestmentService(db, coinGecko)
	etfService := services.NewEtfInvestmentService(db, yahoo)
	stockService := services.NewStockInvestmentService(db, yahoo)
	savingsService := services.NewSavingsInvestmentService(db)
	otherService := services.NewOtherInvestmentService(db)
	investmentService := services.NewInvestmentFacade(db, cryptoService, etfService, stockService, savingsService, otherService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/portfolio", portfolioHandler.GetPortfolio)
			protected.POST("/portfolio", portfolioHandler.CreatePortfolio)

			protected.POST("/investments", investmentHandler.AddInvestment)
			protected.GET("/investments", investmentHandler.ListInvestments)
			protected.POST("/investments/sync", investmentHandler.SyncAll)
			protected.DELETE("/investments/:id", investmentHandler.RemoveInvestment)
			protected.POST("/investments/:id/price", investmentHandler.UpdatePrice)
			protected.PUT("/investments/:id/value", investmentHandler.UpdateValue)
			protected.GET("/investments/:id/value", investmentHandler.GetCurrentValue)
		}
	}

	log.Infof("Starting server on port %s", appConfig.Port)
	if err := router.Run(":" + appConfig.Port); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
