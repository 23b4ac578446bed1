package routes

import (
	"github.com/Govind-619/Bookstore/controllers"
	"github.com/Govind-619/Bookstore/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes the public and reader routes
func initUserRoutes(router *gin.RouterGroup) {
	// Account
	router.POST("/register", controllers.RegisterUser)
	router.GET("/confirm-email/:code", controllers.ConfirmEmail)
	router.POST("/login", controllers.LoginUser)

	// Catalog; a logged-in reader's book views are recorded
	catalog := router.Group("")
	catalog.Use(middleware.OptionalAuthMiddleware())
	{
		catalog.GET("/books", controllers.ListBooks)
		catalog.GET("/books/:id", controllers.GetBook)
		catalog.GET("/books/:id/reviews", controllers.ListBookReviews)
		catalog.GET("/authors/:id", controllers.GetAuthor)
		catalog.GET("/publishers/:id", controllers.GetPublisher)
		catalog.GET("/categories", controllers.ListCategories)
		catalog.GET("/categories/:id", controllers.GetCategory)
		catalog.GET("/reviews/:id", controllers.GetReview)
	}

	router.POST("/contact", controllers.SubmitContact)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", controllers.GetProfile)
		protected.PUT("/password", controllers.ChangePassword)
		protected.GET("/history", controllers.GetViewHistory)

		protected.POST("/books/:id/reviews", controllers.AddReview)

		protected.POST("/orders", controllers.PlaceOrder)
		protected.GET("/orders/:id", controllers.GetOrder)
	}
}
