package controllers

import (
	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/middleware"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
)

// RecentBook is a book in the viewed history
type RecentBook struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	ViewedAt string `json:"viewed_at"`
}

func recentBooks(c *gin.Context, userID uint) ([]RecentBook, error) {
	views, err := deps.Views.History(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	books := make([]RecentBook, 0, len(views))
	for _, v := range views {
		item := RecentBook{ID: v.BookID, ViewedAt: v.ViewedAt.Format("2006-01-02 15:04:05")}
		if v.Book != nil {
			item.Title = v.Book.Title
		}
		books = append(books, item)
	}
	return books, nil
}

// GetProfile returns the user's account with their recently viewed books
func GetProfile(c *gin.Context) {
	utils.LogInfo("GetProfile called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "Please login for access")
		return
	}

	recent, err := recentBooks(c, user.ID)
	if err != nil {
		utils.LogError("Failed to load view history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load profile", err.Error())
		return
	}

	data := gin.H{
		"user":            user,
		"recently_viewed": recent,
	}
	if !user.EmailConfirmed && user.ConfirmationCode != nil {
		data["confirmation_link"] = confirmationLink(*user.ConfirmationCode)
	}

	utils.LogDebug("Profile loaded for user %d", user.ID)
	utils.Success(c, "Profile retrieved successfully", data)
}

// GetViewHistory lists the books the user viewed most recently
func GetViewHistory(c *gin.Context) {
	utils.LogInfo("GetViewHistory called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "Please login for access")
		return
	}

	recent, err := recentBooks(c, user.ID)
	if err != nil {
		utils.LogError("Failed to load view history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load view history", err.Error())
		return
	}
	utils.Success(c, "View history retrieved successfully", gin.H{"books": recent})
}

// ChangePasswordRequest represents the change password body
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePassword replaces the user's password after checking the old one
func ChangePassword(c *gin.Context) {
	utils.LogInfo("ChangePassword called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "Please login for access")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid change password request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		utils.LogError("Password change failed - wrong old password for user %d", user.ID)
		utils.BadRequest(c, "Old password is incorrect", nil)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		utils.BadRequest(c, "Passwords do not match", "New password and confirm password must be the same")
		return
	}
	if valid, msg := utils.ValidatePassword(req.NewPassword); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to change password", err.Error())
		return
	}
	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("password", hashed).Error; err != nil {
		utils.LogError("Failed to update password for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to change password", err.Error())
		return
	}

	utils.LogInfo("Password changed for user %d", user.ID)
	utils.Success(c, "Password changed successfully", nil)
}
