package main

import (
	"fmt"
	"log"
	"os"

	"main/config"
	"main/exchange"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"ENCRYPTION_KEY",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
}

type application struct {
	users     *usecase.UserService
	twoFactor *usecase.TwoFactorService
	apiKeys   *usecase.APIKeyService
	portfolio *usecase.PortfolioService
	market    *usecase.MarketService
	bots      *usecase.BotService
	tokens    *services.TokenService
}

func setupRouter(app *application) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	router.GET("/health", func(c *gin.Context) {
		handler.HealthHandler(c, utils.MongoClient)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register", func(c *gin.Context) {
			handler.RegistrationHandler(c, app.users)
		})
		auth.POST("/login", func(c *gin.Context) {
			handler.LoginHandler(c, app.users)
		})
		auth.POST("/verify-2fa", func(c *gin.Context) {
			handler.Verify2FAHandler(c, app.twoFactor)
		})
		auth.POST("/setup-2fa", func(c *gin.Context) {
			handler.Setup2FAHandler(c, app.twoFactor)
		})
		auth.POST("/enable-2fa", func(c *gin.Context) {
			handler.Enable2FAHandler(c, app.twoFactor)
		})
		auth.POST("/disable-2fa", func(c *gin.Context) {
			handler.Disable2FAHandler(c, app.twoFactor)
		})
		auth.POST("/refresh", func(c *gin.Context) {
			handler.RefreshTokenHandler(c, app.users)
		})
	}

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(app.tokens))
	{
		portfolio := protected.Group("/portfolio")
		{
			portfolio.GET("/api-keys", func(c *gin.Context) {
				handler.ListAPIKeysHandler(c, app.apiKeys)
			})
			portfolio.POST("/api-keys", func(c *gin.Context) {
				handler.AddAPIKeyHandler(c, app.apiKeys)
			})
			portfolio.DELETE("/api-keys/:id", func(c *gin.Context) {
				handler.DeleteAPIKeyHandler(c, app.apiKeys)
			})
			portfolio.GET("/balance", func(c *gin.Context) {
				handler.GetBalanceHandler(c, app.portfolio)
			})
			portfolio.GET("/transactions", func(c *gin.Context) {
				handler.GetTransactionsHandler(c, app.portfolio)
			})
		}

		market := protected.Group("/market")
		{
			market.GET("/opportunities", func(c *gin.Context) {
				handler.GetOpportunitiesHandler(c, app.market)
			})
			market.GET("/economic-calendar", func(c *gin.Context) {
				handler.GetEconomicCalendarHandler(c, app.market)
			})
		}

		bots := protected.Group("/bots")
		{
			bots.GET("/orders", func(c *gin.Context) {
				handler.GetBotOrdersHandler(c, app.bots)
			})
			bots.GET("/performance", func(c *gin.Context) {
				handler.GetBotPerformanceHandler(c, app.bots)
			})
			bots.GET("/logs", func(c *gin.Context) {
				handler.GetBotLogsHandler(c, app.bots)
			})
		}
	}

	return router
}

func main() {
	securityCfg := config.LoadSecurityConfig()
	dbCfg := config.LoadDatabaseConfig()
	cacheCfg := config.LoadCacheConfig()

	// Stored ciphertext depends on this exact key; never substitute one.
	cipher, err := services.NewSecretCipher(securityCfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Invalid ENCRYPTION_KEY: %v", err)
	}

	utils.InitMongoClient()
	if err := repository.SetupIndexes(utils.MongoClient.Database(dbCfg.DatabaseName)); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	var marketCache *services.MarketCache
	if cacheCfg.RedisURL != "" {
		marketCache, err = services.NewMarketCache(cacheCfg.RedisURL, cacheCfg.ScannerTTL)
		if err != nil {
			log.Printf("Market cache disabled: %v", err)
		}
	}

	tokens := services.NewTokenService(securityCfg.JWTSecret, securityCfg.RefreshTTL)
	userRepo := repository.GetUserRepo(utils.MongoClient)
	apiKeyRepo := repository.GetAPIKeyRepo(utils.MongoClient)
	registry := exchange.DefaultRegistry()

	apiKeys := &usecase.APIKeyService{Keys: apiKeyRepo, Cipher: cipher}

	app := &application{
		users:     &usecase.UserService{Users: userRepo, Tokens: tokens},
		twoFactor: &usecase.TwoFactorService{Users: userRepo, Tokens: tokens, Issuer: securityCfg.TOTPIssuer},
		apiKeys:   apiKeys,
		portfolio: &usecase.PortfolioService{Keys: apiKeys, Registry: registry},
		market:    &usecase.MarketService{Keys: apiKeys, Registry: registry, Cache: marketCache},
		bots:      usecase.NewBotService(),
		tokens:    tokens,
	}

	router := setupRouter(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
