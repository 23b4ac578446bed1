// Package testutil provides an in-memory database, seed helpers and HTTP
// helpers for the bookstore tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory database, migrates it and installs it
// as config.DB for the duration of the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	previous := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = previous
		sqlDB.Close()
	})
	return db
}

// CreateTestUser creates a user with password "Password123"
func CreateTestUser(t *testing.T, db *gorm.DB, username string, confirmed bool) *models.User {
	t.Helper()

	hashed, err := utils.HashPassword("Password123")
	require.NoError(t, err)

	user := &models.User{
		Username:         username,
		Email:            username + "@example.com",
		Password:         hashed,
		EmailConfirmed:   confirmed,
		ReadingFrequency: models.ReadingWeekly,
	}
	if !confirmed {
		code := utils.NewConfirmationCode()
		user.ConfirmationCode = &code
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestAdmin creates a confirmed admin account
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	admin := CreateTestUser(t, db, "admin", true)
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)
	admin.IsAdmin = true
	return admin
}

// CreateTestCategory creates a category
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Description: name + " books"}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateTestAuthor creates an author
func CreateTestAuthor(t *testing.T, db *gorm.DB, name string) *models.Author {
	t.Helper()

	author := &models.Author{Name: name}
	require.NoError(t, db.Create(author).Error)
	return author
}

// CreateTestBook creates a book by a fresh author in the given categories
func CreateTestBook(t *testing.T, db *gorm.DB, title string, price string, categories ...*models.Category) *models.Book {
	t.Helper()

	author := CreateTestAuthor(t, db, "Author of "+title)
	book := &models.Book{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		AuthorID: author.ID,
	}
	for _, c := range categories {
		book.Categories = append(book.Categories, *c)
	}
	require.NoError(t, db.Omit("Categories.*").Create(book).Error)
	return book
}

// CreateTestView stores a view directly, bypassing the view tracker
func CreateTestView(t *testing.T, db *gorm.DB, userID, bookID uint, at time.Time) *models.BookView {
	t.Helper()

	view := &models.BookView{UserID: userID, BookID: bookID, ViewedAt: at}
	require.NoError(t, db.Create(view).Error)
	return view
}

// SentMail is one message captured by FakeMailer
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records messages and fails for the addresses in FailFor
type FakeMailer struct {
	mu      sync.Mutex
	FailFor map[string]bool
	Sent    []SentMail
}

// Send records the message
func (m *FakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[to] {
		return fmt.Errorf("smtp: mailbox %s unavailable", to)
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Recipients lists the addresses mail was delivered to, in order
func (m *FakeMailer) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, s := range m.Sent {
		out = append(out, s.To)
	}
	return out
}

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
	// Context replaces the request context when set
	Context context.Context
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Header     http.Header
	Body       map[string]interface{}
	Raw        []byte
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router http.Handler, req TestRequest) TestResponse {
	t.Helper()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	require.NoError(t, err)

	if req.Context != nil {
		httpReq = httpReq.WithContext(req.Context)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	var responseBody map[string]interface{}
	if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
	}

	return TestResponse{
		StatusCode: w.Code,
		Header:     w.Header(),
		Body:       responseBody,
		Raw:        w.Body.Bytes(),
	}
}

// AuthHeader returns the Authorization header for user
func AuthHeader(t *testing.T, user *models.User) map[string]string {
	t.Helper()

	token, err := utils.GenerateToken(user, utils.SessionTTL)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// Data returns the "data" object of a standard response
func (r TestResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

func init() {
	gin.SetMode(gin.TestMode)
}
