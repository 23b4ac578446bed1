package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	contactAttemptsKey = "contact_attempts"
	// MaxContactAttempts is the number of submissions per session before a warning is returned
	MaxContactAttempts = 3
	// MinContactAge is the minimum age of a person using the contact form
	MinContactAge = 18
)

// ContactRequest is the contact form
type ContactRequest struct {
	Name         string `json:"name" binding:"required,max=10"`
	Surname      string `json:"surname"`
	BirthDate    string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Email        string `json:"email" binding:"required,email"`
	ConfirmEmail string `json:"confirm_email" binding:"required,email"`
	MessageType  string `json:"message_type" binding:"required,oneof=complaint question review request appointment"`
	Subject      string `json:"subject" binding:"required"`
	MinWaitDays  int    `json:"min_wait_days" binding:"required,min=1"`
	Message      string `json:"message" binding:"required"`
}

// ContactMessage is what gets stored for a valid submission
type ContactMessage struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Age         string `json:"age"`
	Email       string `json:"email"`
	MessageType string `json:"message_type"`
	Subject     string `json:"subject"`
	MinWaitDays int    `json:"min_wait_days"`
	Message     string `json:"message"`
}

// Validate applies the contact form rules as of today
func (r ContactRequest) Validate(today time.Time) utils.FieldValidationErrors {
	var errs utils.FieldValidationErrors

	if valid, msg := utils.ValidateCapitalized(r.Name, "Name"); !valid {
		errs.Add("name", msg)
	}
	if r.Surname != "" {
		if valid, msg := utils.ValidateCapitalized(r.Surname, "Surname"); !valid {
			errs.Add("surname", msg)
		}
	}
	if valid, msg := utils.ValidateCapitalized(r.Subject, "Subject"); !valid {
		errs.Add("subject", msg)
	}

	if birth, err := utils.ParseDate(r.BirthDate); err != nil {
		errs.Add("birth_date", "Birth date must use the YYYY-MM-DD format")
	} else if years, _ := utils.AgeOn(birth, today); years < MinContactAge {
		errs.Add("birth_date", fmt.Sprintf("You must be at least %d years old to send a message", MinContactAge))
	}

	if r.Email != r.ConfirmEmail {
		errs.Add("confirm_email", "E-mail and e-mail confirmation do not match")
	}

	words := utils.Words(r.Message)
	switch {
	case len(words) < 5 || len(words) > 100:
		errs.Add("message", "Message must contain between 5 and 100 words")
	case utils.ContainsLink(r.Message):
		errs.Add("message", "Message cannot contain links")
	case !strings.EqualFold(words[len(words)-1], r.Name):
		errs.Add("message", "Message must end with your name")
	}

	return errs
}

// ToMessage preprocesses a valid request for storage
func (r ContactRequest) ToMessage(today time.Time) ContactMessage {
	birth, _ := utils.ParseDate(r.BirthDate)
	years, months := utils.AgeOn(birth, today)
	return ContactMessage{
		Name:        r.Name,
		Surname:     r.Surname,
		Age:         fmt.Sprintf("%d years and %d months", years, months),
		Email:       r.Email,
		MessageType: r.MessageType,
		Subject:     r.Subject,
		MinWaitDays: r.MinWaitDays,
		Message:     utils.CollapseWhitespace(r.Message),
	}
}

// saveContactMessage writes msg as message_<unix>.json in dir and returns the path
func saveContactMessage(dir string, msg ContactMessage, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(msg, "", "    ")
	if err != nil {
		return "", err
	}

	base := fmt.Sprintf("message_%d", at.Unix())
	for i := 0; ; i++ {
		name := base + ".json"
		if i > 0 {
			name = fmt.Sprintf("%s_%d.json", base, i)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}
}

// SubmitContact validates the contact form and stores the message
func SubmitContact(c *gin.Context) {
	utils.LogInfo("SubmitContact called")

	session := sessions.Default(c)
	attempts, _ := session.Get(contactAttemptsKey).(int)
	attempts++
	session.Set(contactAttemptsKey, attempts)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save contact session: %v", err)
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid contact form: %v", err)
		utils.BadRequest(c, "The contact form contains errors", err.Error())
		return
	}

	now := time.Now()
	if errs := req.Validate(now); len(errs) > 0 {
		utils.LogError("Contact form rejected: %v", errs)
		utils.ValidationError(c, "The contact form contains errors", errs)
		return
	}

	path, err := saveContactMessage(deps.Config.MessagesDir, req.ToMessage(now), now)
	if err != nil {
		utils.LogError("Failed to save contact message: %v", err)
		utils.InternalServerError(c, "Failed to save your message", err.Error())
		return
	}
	utils.LogInfo("Contact message saved to %s", path)

	data := gin.H{"attempts": attempts}
	if attempts > MaxContactAttempts {
		utils.LogWarning("Contact form submitted %d times in one session", attempts)
		data["warning"] = "You have submitted the contact form too many times. Please wait or contact support."
	}
	utils.Success(c, "Your message was sent successfully", data)
}
