package controllers

import (
	"strings"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/middleware"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
)

// ReviewRequest is the body for reviewing a book
type ReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"text" binding:"required,max=1000"`
}

// GetReview returns a single review
func GetReview(c *gin.Context) {
	utils.LogInfo("GetReview called")

	id, ok := idParam(c, "review")
	if !ok {
		return
	}

	var review models.Review
	if err := config.DB.Preload("Book").Preload("User").First(&review, id).Error; err != nil {
		utils.LogError("Failed to load review %d: %v", id, err)
		utils.Fail(c, utils.FromDBError(err, "Review"))
		return
	}
	utils.Success(c, "Review retrieved successfully", review)
}

// ListBookReviews returns the reviews of a book, newest first
func ListBookReviews(c *gin.Context) {
	utils.LogInfo("ListBookReviews called")

	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	var exists int64
	if err := config.DB.Model(&models.Book{}).Where("id = ?", bookID).Count(&exists).Error; err != nil {
		utils.LogError("Failed to check book %d: %v", bookID, err)
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}
	if exists == 0 {
		utils.NotFound(c, "Book not found")
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Review{}).Where("book_id = ?", bookID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count reviews: %v", err)
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}
	pagination.SetTotal(total)

	var reviews []models.Review
	if err := query.Scopes(pagination.Scope).Preload("User").
		Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		utils.LogError("Failed to fetch reviews: %v", err)
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}
	utils.SuccessWithPagination(c, "Reviews retrieved successfully", reviews, pagination)
}

// AddReview stores the user's review of a book
func AddReview(c *gin.Context) {
	utils.LogInfo("AddReview called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "Please login for access")
		return
	}

	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid review request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if err := utils.ValidateRating(req.Rating); err != nil {
		utils.BadRequest(c, "Invalid rating", err.Error())
		return
	}
	text := strings.TrimSpace(req.Text)
	if valid, msg := utils.ValidateSafeInput(text); !valid {
		utils.LogError("Review rejected for user %d: %s", user.ID, msg)
		utils.BadRequest(c, "Invalid input", msg)
		return
	}

	var book models.Book
	if err := config.DB.First(&book, bookID).Error; err != nil {
		utils.LogError("Failed to load book %d: %v", bookID, err)
		utils.Fail(c, utils.FromDBError(err, "Book"))
		return
	}

	userID := user.ID
	review := models.Review{
		BookID: book.ID,
		UserID: &userID,
		Text:   utils.SanitizeString(text),
		Rating: req.Rating,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		utils.LogError("Failed to create review: %v", err)
		utils.InternalServerError(c, "Failed to add review", err.Error())
		return
	}

	utils.LogInfo("Review %d added to book %d by user %d", review.ID, book.ID, user.ID)
	utils.Created(c, "Review added successfully", review)
}
