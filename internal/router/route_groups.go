package router

import (
	"github.com/gin-gonic/gin"

	"revistas_backend/internal/authz"
	"revistas_backend/internal/handlers"
	"revistas_backend/internal/middleware"
)

// SetupAuthRoutes sets up the authenticated part of /auth.
func SetupAuthRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := authenticatedGroup.Group("/auth")
	{
		authRoutes.GET("/me", authHandler.GetCurrentUser)
		authRoutes.POST("/register", middleware.RequireCapability(authz.ActionUserManage), authHandler.RegisterUser)
	}
}

// SetupCatalogRoutes sets up magazines and their variant combinations.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	read := middleware.RequireCapability(authz.ActionCatalogRead)
	manage := middleware.RequireCapability(authz.ActionCatalogManage)

	magazineRoutes := authenticatedGroup.Group("/magazines")
	{
		magazineRoutes.GET("", read, catalogHandler.GetMagazines)
		magazineRoutes.GET("/:id", read, catalogHandler.GetMagazineByID)
		magazineRoutes.POST("", manage, catalogHandler.CreateMagazine)
		magazineRoutes.PUT("/:id", manage, catalogHandler.UpdateMagazine)
		magazineRoutes.DELETE("/:id", manage, catalogHandler.DeleteMagazine)
	}

	combinationRoutes := authenticatedGroup.Group("/variants/:magazineId/combinations")
	{
		combinationRoutes.GET("", read, catalogHandler.ListCombinations)
		combinationRoutes.POST("", manage, catalogHandler.CreateCombination)
		combinationRoutes.PUT("/:combinationId", manage, catalogHandler.UpdateCombination)
		combinationRoutes.DELETE("/:combinationId", manage, catalogHandler.DeleteCombination)
	}
}

// SetupPeriodRoutes sets up the ordering period routes.
func SetupPeriodRoutes(authenticatedGroup *gin.RouterGroup, periodHandler *handlers.PeriodHandler) {
	read := middleware.RequireCapability(authz.ActionPeriodRead)
	manage := middleware.RequireCapability(authz.ActionPeriodManage)

	periodRoutes := authenticatedGroup.Group("/periods")
	{
		periodRoutes.GET("", read, periodHandler.GetPeriods)
		periodRoutes.GET("/active", read, periodHandler.GetActivePeriods)
		periodRoutes.GET("/:id", read, periodHandler.GetPeriodByID)
		periodRoutes.POST("", manage, periodHandler.CreatePeriod)
		periodRoutes.PUT("/:id", manage, periodHandler.UpdatePeriod)
		periodRoutes.DELETE("/:id", manage, periodHandler.DeletePeriod)
	}
}

// SetupOrganizationRoutes sets up areas and congregations.
func SetupOrganizationRoutes(authenticatedGroup *gin.RouterGroup, orgHandler *handlers.OrganizationHandler) {
	read := middleware.RequireCapability(authz.ActionOrganizationRead)
	manage := middleware.RequireCapability(authz.ActionOrganizationManage)

	areaRoutes := authenticatedGroup.Group("/areas")
	{
		areaRoutes.GET("", read, orgHandler.GetAreas)
		areaRoutes.POST("", manage, orgHandler.CreateArea)
		areaRoutes.PUT("/:id", manage, orgHandler.UpdateArea)
		areaRoutes.DELETE("/:id", manage, orgHandler.DeleteArea)
	}

	congregationRoutes := authenticatedGroup.Group("/congregations")
	{
		congregationRoutes.GET("", read, orgHandler.GetCongregations)
		congregationRoutes.GET("/:id", read, orgHandler.GetCongregationByID)
		congregationRoutes.POST("", manage, orgHandler.CreateCongregation)
		congregationRoutes.PUT("/:id", manage, orgHandler.UpdateCongregation)
		congregationRoutes.DELETE("/:id", manage, orgHandler.DeleteCongregation)
	}
}

// SetupOrderRoutes sets up the order routes. Ownership rules for a specific
// order are enforced by the order service.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", middleware.RequireCapability(authz.ActionOrderCreate), orderHandler.CreateOrder)
		orderRoutes.GET("", middleware.RequireCapability(authz.ActionOrderList), orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PATCH("/:id", orderHandler.UpdateOrder)
		orderRoutes.PATCH("/:id/status", middleware.RequireCapability(authz.ActionOrderChangeStatus), orderHandler.UpdateOrderStatus)
		orderRoutes.DELETE("/:id", orderHandler.DeleteOrder)
	}
}

// SetupReportRoutes sets up the admin report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RequireCapability(authz.ActionReportView))
	{
		adminRoutes.GET("/report", reportHandler.GetPeriodReport)
	}
}
