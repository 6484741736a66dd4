package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"revistas_backend/internal/handlers"
	"revistas_backend/internal/middleware"
	"revistas_backend/internal/repositories"
	"revistas_backend/internal/services"
	"revistas_backend/pkg/utils"
)

// NewEngine builds the gin engine with the shared middleware chain and the
// unauthenticated health check.
func NewEngine(allowedOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(utils.GinRecovery())

	config := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	config.MaxAge = 12 * time.Hour
	engine.Use(cors.New(config))

	engine.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Rota não encontrada", c.Request.URL.Path))
	})
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, tokens *utils.TokenManager) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	periodRepo := repositories.NewPeriodRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	txManager := repositories.NewTxManager(db)

	// Initialize Services
	pricing := services.NewPricingEngine(services.NewVariantResolver(catalogRepo))
	authService := services.NewAuthService(authRepo, orgRepo, db, tokens)
	catalogService := services.NewCatalogService(catalogRepo, db)
	periodService := services.NewPeriodService(periodRepo, db)
	orgService := services.NewOrganizationService(orgRepo, db)
	orderService := services.NewOrderService(orderRepo, periodRepo, orgRepo, pricing, txManager)
	reportService := services.NewReportService(periodRepo, reportRepo, catalogRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)

	engine.POST("/auth/login", authHandler.LoginUser)

	authenticated := engine.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthRoutes(authenticated, authHandler)
		SetupCatalogRoutes(authenticated, catalogHandler)
		SetupPeriodRoutes(authenticated, periodHandler)
		SetupOrganizationRoutes(authenticated, orgHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}
