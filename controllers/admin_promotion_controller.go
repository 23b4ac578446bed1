package controllers

import (
	"context"
	"time"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var maxDiscount = decimal.NewFromInt(100)

// PromotionRequest is the body for creating a promotion
type PromotionRequest struct {
	Name               string          `json:"name" binding:"required,max=100"`
	ExpiresAt          time.Time       `json:"expires_at" binding:"required"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Description        string          `json:"description"`
	CategoryIDs        []uint          `json:"category_ids" binding:"required,min=1"`
}

// CreatePromotion stores a promotion and e-mails it to readers of its categories
func CreatePromotion(c *gin.Context) {
	utils.LogInfo("CreatePromotion called")

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid promotion request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	var errs utils.FieldValidationErrors
	if req.DiscountPercentage.IsNegative() || req.DiscountPercentage.GreaterThan(maxDiscount) {
		errs.Add("discount_percentage", "Discount must be between 0 and 100")
	}
	if !req.ExpiresAt.After(time.Now()) {
		errs.Add("expires_at", "Expiry date must be in the future")
	}
	if valid, msg := utils.ValidateSafeInput(req.Name); !valid {
		errs.Add("name", msg)
	}
	if len(errs) > 0 {
		utils.LogError("Promotion validation failed: %v", errs)
		utils.ValidationError(c, "Invalid promotion data", errs)
		return
	}

	ids := uniqueIDs(req.CategoryIDs)
	var categories []models.Category
	if err := config.DB.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		utils.LogError("Failed to load categories: %v", err)
		utils.InternalServerError(c, "Failed to create promotion", err.Error())
		return
	}
	if len(categories) != len(ids) {
		utils.BadRequest(c, "Invalid category IDs", "One or more categories do not exist")
		return
	}

	promo := models.Promotion{
		Name:               utils.SanitizeString(req.Name),
		ExpiresAt:          req.ExpiresAt,
		DiscountPercentage: req.DiscountPercentage.Round(2),
		Description:        utils.SanitizeString(req.Description),
		Categories:         categories,
	}
	if err := config.DB.Omit("Categories.*").Create(&promo).Error; err != nil {
		utils.LogError("Failed to create promotion: %v", err)
		utils.InternalServerError(c, "Failed to create promotion", err.Error())
		return
	}
	utils.LogInfo("Promotion %d created: %s", promo.ID, promo.Name)

	// the fanout outlives a client that disconnects after the promotion is stored
	sent, err := deps.Promotions.NotifyPromotion(context.WithoutCancel(c.Request.Context()), &promo)
	if err != nil {
		utils.LogError("Promotion %d fanout stopped after %d e-mails: %v", promo.ID, sent, err)
	}

	data := gin.H{
		"promotion":   promo,
		"emails_sent": sent,
	}
	if err != nil {
		data["notification_error"] = err.Error()
	}
	utils.Created(c, "Promotion created successfully", data)
}

// ListPromotions returns the promotions, newest first
func ListPromotions(c *gin.Context) {
	utils.LogInfo("ListPromotions called")

	pagination := utils.NewPagination(c)
	var total int64
	if err := config.DB.Model(&models.Promotion{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count promotions: %v", err)
		utils.InternalServerError(c, "Failed to fetch promotions", err.Error())
		return
	}
	pagination.SetTotal(total)

	var promotions []models.Promotion
	if err := config.DB.Scopes(pagination.Scope).Preload("Categories").
		Order("created_at DESC, id DESC").Find(&promotions).Error; err != nil {
		utils.LogError("Failed to fetch promotions: %v", err)
		utils.InternalServerError(c, "Failed to fetch promotions", err.Error())
		return
	}
	utils.SuccessWithPagination(c, "Promotions retrieved successfully", promotions, pagination)
}
