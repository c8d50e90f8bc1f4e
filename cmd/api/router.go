package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"harvest-backend/internal/shared/middleware"
	"harvest-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAdminRoutes(v1, c)
		setupCooperativeRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.AuthHandler.Signup)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/forgot-password", c.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", c.AuthHandler.ResetPassword)
		auth.POST("/change-password", middleware.Auth(c.JWTManager), c.AuthHandler.ChangePassword)
	}
}

// ========================================
// ADMIN ROUTES (cooperative approval workflow)
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(c.JWTManager), middleware.RequireAdmin())
	{
		admin.GET("/cooperatives/pending", c.AdminHandler.ListPending)
		admin.POST("/cooperatives/:id/approve", c.AdminHandler.Approve)
		admin.POST("/cooperatives/:id/reject", c.AdminHandler.Reject)
	}
}

// ========================================
// COOPERATIVE ROUTES (farmer registry + projects)
// ========================================
func setupCooperativeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	coop := v1.Group("/cooperative")
	coop.Use(middleware.Auth(c.JWTManager), middleware.RequireCooperative())
	{
		farmers := coop.Group("/farmers")
		{
			farmers.GET("", c.FarmerHandler.List)
			farmers.POST("", c.FarmerHandler.Create)
			farmers.GET("/statistics", c.FarmerHandler.Statistics)
			farmers.POST("/bulk-import", c.FarmerHandler.BulkImport)
			farmers.GET("/:id", c.FarmerHandler.GetByID)
			farmers.PUT("/:id", c.FarmerHandler.Update)
			farmers.DELETE("/:id", c.FarmerHandler.Delete)
			farmers.PATCH("/:id/status", c.FarmerHandler.UpdateStatus)

			projects := farmers.Group("/:id/projects")
			{
				projects.GET("", c.ProjectHandler.ListByFarmer)
				projects.POST("", c.ProjectHandler.Create)
				projects.PUT("/:projectId", c.ProjectHandler.Update)
				projects.PATCH("/:projectId/status", c.ProjectHandler.UpdateStatus)
				projects.DELETE("/:projectId", c.ProjectHandler.Delete)
			}
		}
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}
		cacheStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, gin.H{
			"status":   "ok",
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
