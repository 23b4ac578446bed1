package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/templates"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ConfirmationSubject is the subject of the e-mail sent after registration
const ConfirmationSubject = "Confirm your e-mail address"

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	ConfirmPassword  string `json:"confirm_password" binding:"required"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	FavoriteGenre    string `json:"favorite_genre" binding:"max=100"`
	BirthDate        string `json:"birth_date" binding:"omitempty,datetime=2006-01-02,notfuture"`
	ReadingFrequency string `json:"reading_frequency"`
}

// ConfirmationEmail is the data passed to the confirmation template
type ConfirmationEmail struct {
	User             models.User
	ConfirmationLink string
}

// RegisterUser creates an unconfirmed account and mails the confirmation link
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	var errs utils.FieldValidationErrors
	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		errs.Add("username", msg)
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		errs.Add("email", msg)
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		errs.Add("password", msg)
	}
	if req.Password != req.ConfirmPassword {
		errs.Add("confirm_password", "Password and confirm password must be the same")
	}
	if valid, phone := utils.ValidatePhone(req.Phone); !valid {
		errs.Add("phone", phone)
	} else {
		req.Phone = phone
	}
	if !utils.ValidateReadingFrequency(req.ReadingFrequency) {
		errs.Add("reading_frequency", "Reading frequency must be daily, weekly, monthly or rarely")
	}
	for field, value := range map[string]string{"first_name": req.FirstName, "last_name": req.LastName, "address": req.Address} {
		if valid, msg := utils.ValidateSafeInput(value); !valid {
			errs.Add(field, msg)
		}
	}
	if len(errs) > 0 {
		utils.LogError("Registration attempt failed for email %s: %v", req.Email, errs)
		utils.ValidationError(c, "Invalid registration data", errs)
		return
	}

	var existing int64
	if err := config.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&existing).Error; err != nil {
		utils.LogError("Failed to check existing users: %v", err)
		utils.InternalServerError(c, "Failed to register user", err.Error())
		return
	}
	if existing > 0 {
		utils.LogError("Registration attempt failed - Username or email already taken: %s", req.Email)
		utils.Conflict(c, "Username or email already registered", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to register user", err.Error())
		return
	}

	code := utils.NewConfirmationCode()
	user := models.User{
		Username:         req.Username,
		Email:            req.Email,
		Password:         hashed,
		FirstName:        utils.SanitizeString(req.FirstName),
		LastName:         utils.SanitizeString(req.LastName),
		Phone:            req.Phone,
		Address:          utils.SanitizeString(req.Address),
		FavoriteGenre:    utils.SanitizeString(req.FavoriteGenre),
		ReadingFrequency: req.ReadingFrequency,
		ConfirmationCode: &code,
	}
	if user.ReadingFrequency == "" {
		user.ReadingFrequency = models.ReadingWeekly
	}
	birth, err := parseOptionalDate("birth date", req.BirthDate)
	if err != nil {
		utils.LogError("Invalid birth date %q: %v", req.BirthDate, err)
		utils.Fail(c, err)
		return
	}
	user.BirthDate = birth

	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to register user", err.Error())
		return
	}

	emailSent := true
	if err := sendConfirmationEmail(c, user); err != nil {
		emailSent = false
		utils.LogError("Failed to send confirmation e-mail to %s: %v", user.Email, err)
	}

	utils.LogInfo("User registered successfully: %s", user.Email)
	utils.Created(c, "Registration successful. Please confirm your e-mail address.", gin.H{
		"user":       user,
		"email_sent": emailSent,
	})
}

func confirmationLink(code string) string {
	return strings.TrimRight(deps.Config.BaseURL, "/") + "/v1/confirm-email/" + code
}

func sendConfirmationEmail(c *gin.Context, user models.User) error {
	if user.ConfirmationCode == nil {
		return errors.New("user has no confirmation code")
	}
	body, err := deps.Renderer.Render(templates.EmailConfirmation, ConfirmationEmail{
		User:             user,
		ConfirmationLink: confirmationLink(*user.ConfirmationCode),
	})
	if err != nil {
		return err
	}
	return deps.Mailer.Send(c.Request.Context(), user.Email, ConfirmationSubject, body)
}

// ConfirmEmail marks the account holding the code as confirmed
func ConfirmEmail(c *gin.Context) {
	code := c.Param("code")
	utils.LogInfo("ConfirmEmail called")

	var user models.User
	if err := config.DB.Where("confirmation_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogError("E-mail confirmation failed - unknown code")
			utils.NotFound(c, "Invalid or expired confirmation link")
			return
		}
		utils.LogError("Failed to look up confirmation code: %v", err)
		utils.InternalServerError(c, "Failed to confirm e-mail", err.Error())
		return
	}

	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"email_confirmed":   true,
		"confirmation_code": nil,
	}).Error; err != nil {
		utils.LogError("Failed to confirm e-mail for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to confirm e-mail", err.Error())
		return
	}

	utils.LogInfo("E-mail confirmed for user: %s", user.Email)
	utils.Success(c, "E-mail confirmed successfully", gin.H{"username": user.Username})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// LoginUser issues a JWT for a confirmed account
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid username or password", err.Error())
		return
	}

	if valid, msg := utils.ValidateSafeInput(req.Username); !valid {
		utils.LogError("Login attempt failed - %s in username: %s", msg, req.Username)
		utils.BadRequest(c, "Invalid input", msg)
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.LogError("Login attempt failed - User not found: %s", req.Username)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login attempt failed - Invalid password for user: %s", user.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if user.IsBlocked {
		utils.LogError("Login attempt failed - Blocked account: %s", user.Email)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	if !user.EmailConfirmed {
		utils.LogError("Login attempt failed - E-mail not confirmed: %s", user.Email)
		utils.Forbidden(c, "Please confirm your e-mail address before logging in")
		return
	}

	ttl := utils.SessionTTL
	if req.RememberMe {
		ttl = utils.RememberMeTTL
	}
	token, err := utils.GenerateToken(&user, ttl)
	if err != nil {
		utils.LogError("Failed to generate JWT token for user: %s", user.Email)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	now := time.Now()
	if err := config.DB.Model(&user).Update("last_login_at", now).Error; err != nil {
		utils.LogError("Failed to update last login time for user: %s", user.Email)
	}

	utils.LogInfo("User logged in successfully: %s", user.Email)
	utils.Success(c, "Login successful", gin.H{
		"token":      token,
		"expires_in": int(ttl.Seconds()),
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
