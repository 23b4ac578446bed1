package routes

import (
	"github.com/Govind-619/Bookstore/controllers"
	"github.com/Govind-619/Bookstore/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes the admin routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/books", controllers.CreateBook)

		admin.POST("/promotions", controllers.CreatePromotion)
		admin.GET("/promotions", controllers.ListPromotions)

		admin.GET("/users/:id", controllers.GetUser)

		admin.GET("/reports/activity", controllers.ExportActivityReport)
		admin.POST("/jobs/:name", controllers.RunJob)
	}
}
