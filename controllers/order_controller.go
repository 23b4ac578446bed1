package controllers

import (
	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/middleware"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRequest is the body for ordering a book
type OrderRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrder records a pending order and reserves the stock
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "Please login for access")
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	userID := user.ID
	order := models.Order{
		BookID:   req.BookID,
		UserID:   &userID,
		Quantity: req.Quantity,
		Status:   models.OrderStatusPending,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&book, req.BookID).Error; err != nil {
			return utils.FromDBError(err, "Book")
		}
		if book.Stock < req.Quantity {
			return utils.ConflictError("Insufficient stock", nil)
		}
		if err := tx.Model(&book).Update("stock", gorm.Expr("stock - ?", req.Quantity)).Error; err != nil {
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		order.Book = book
		order.Book.Stock -= req.Quantity
		return nil
	})
	if err != nil {
		utils.LogError("Failed to place order for user %d: %v", user.ID, err)
		utils.Fail(c, err)
		return
	}

	utils.LogInfo("Order %d placed by user %d", order.ID, user.ID)
	utils.Created(c, "Order placed successfully", order)
}

// GetOrder returns one of the user's orders
func GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "Please login for access")
		return
	}

	id, ok := idParam(c, "order")
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.Preload("Book").
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Failed to load order %d for user %d: %v", id, user.ID, err)
		utils.Fail(c, utils.FromDBError(err, "Order"))
		return
	}
	utils.Success(c, "Order retrieved successfully", order)
}
