package controllers

import (
	"fmt"
	"time"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/services"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
)

// GetUser returns an account with its recently viewed books
func GetUser(c *gin.Context) {
	utils.LogInfo("GetUser called")

	id, ok := idParam(c, "user")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		utils.LogError("Failed to load user %d: %v", id, err)
		utils.Fail(c, utils.FromDBError(err, "User"))
		return
	}

	recent, err := recentBooks(c, user.ID)
	if err != nil {
		utils.LogError("Failed to load view history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load user", err.Error())
		return
	}
	utils.Success(c, "User retrieved successfully", gin.H{
		"user":            user,
		"recently_viewed": recent,
	})
}

// ExportActivityReport returns the activity report of a day as JSON, text, xlsx or pdf
func ExportActivityReport(c *gin.Context) {
	utils.LogInfo("ExportActivityReport called")

	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := utils.ParseDate(d)
		if err != nil {
			utils.BadRequest(c, "Invalid date", "Date must use the YYYY-MM-DD format")
			return
		}
		day = parsed
	}

	report, err := deps.Jobs.BuildActivityReport(c.Request.Context(), day)
	if err != nil {
		utils.LogError("Failed to build activity report: %v", err)
		utils.InternalServerError(c, "Failed to build activity report", err.Error())
		return
	}

	filename := "activity_report_" + report.Date.Format("2006-01-02")
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		utils.Success(c, "Activity report generated", report)
		return
	case "txt":
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", filename))
		err = report.WriteText(c.Writer)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		err = report.WriteXLSX(c.Writer)
	case "pdf":
		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		err = report.WritePDF(c.Writer)
	default:
		utils.BadRequest(c, "Invalid format", "Format must be json, txt, xlsx or pdf")
		return
	}
	if err != nil {
		utils.LogError("Failed to write activity report: %v", err)
		if !c.Writer.Written() {
			utils.InternalServerError(c, "Failed to write activity report", err.Error())
		}
		return
	}
	utils.LogInfo("Activity report exported for %s", report.Date.Format("2006-01-02"))
}

// RunJob runs a scheduled job immediately
func RunJob(c *gin.Context) {
	name := c.Param("name")
	utils.LogInfo("RunJob called for %s", name)

	result, err := deps.Jobs.Run(c.Request.Context(), name)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, fmt.Sprintf("Unknown job %q, expected one of %v", name, services.JobNames()))
			return
		}
		utils.InternalServerError(c, "Job failed", err.Error())
		return
	}
	utils.Success(c, "Job completed", gin.H{"job": name, "result": result})
}

// CreateSampleAdmin makes sure the configured admin account exists
func CreateSampleAdmin(cfg *config.Config) error {
	utils.LogInfo("CreateSampleAdmin called")
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		utils.LogWarning("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin creation")
		return nil
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}

	admin := models.User{
		Username:       cfg.AdminUsername,
		Email:          cfg.AdminEmail,
		Password:       hashed,
		EmailConfirmed: true,
		IsAdmin:        true,
	}
	if err := config.DB.FirstOrCreate(&admin, models.User{Email: admin.Email}).Error; err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		return err
	}
	utils.LogInfo("Successfully created/updated sample admin: %s", admin.Email)
	return nil
}
