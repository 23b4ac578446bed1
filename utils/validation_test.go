package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestValidateSafeInput(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		msg   string
	}{
		{"Marcel Proust", true, ""},
		{"1 UNION SELECT password FROM users", false, "SQL injection attempt detected"},
		{"admin'; drop table users", false, "SQL injection attempt detected"},
		{"<script>alert(1)</script>", false, "XSS attempt detected"},
		{"javascript:alert(1)", false, "XSS attempt detected"},
	}
	for _, tt := range tests {
		ok, msg := ValidateSafeInput(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.msg, msg, tt.input)
	}
}

func TestValidateUsernameAndEmail(t *testing.T) {
	ok, _ := ValidateUsername("reader_01")
	assert.True(t, ok)
	ok, msg := ValidateUsername("ab")
	assert.False(t, ok)
	assert.Contains(t, msg, "3-20")

	ok, _ = ValidateEmail("ana@example.com")
	assert.True(t, ok)
	ok, _ = ValidateEmail("ana@example")
	assert.False(t, ok)
}

func TestValidateCapitalized(t *testing.T) {
	ok, _ := ValidateCapitalized("Ana Maria", "First name")
	assert.True(t, ok)

	ok, msg := ValidateCapitalized("ana", "First name")
	assert.False(t, ok)
	assert.Contains(t, msg, "First name")

	ok, _ = ValidateCapitalized("Ana2", "First name")
	assert.False(t, ok)
}

func TestValidateBookTitle(t *testing.T) {
	ok, _ := ValidateBookTitle("Dune")
	assert.True(t, ok)
	ok, _ = ValidateBookTitle("Én")
	assert.False(t, ok)
	ok, msg := ValidateBookTitle("dune")
	assert.False(t, ok)
	assert.Equal(t, "Title must start with an upper-case letter", msg)
}

func TestValidatePriceRange(t *testing.T) {
	d := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}
	ok, _ := ValidatePriceRange(d("5"), d("10"))
	assert.True(t, ok)
	ok, _ = ValidatePriceRange(nil, nil)
	assert.True(t, ok)
	ok, _ = ValidatePriceRange(d("-1"), nil)
	assert.False(t, ok)
	ok, msg := ValidatePriceRange(d("20"), d("10"))
	assert.False(t, ok)
	assert.Equal(t, "Minimum price cannot be greater than maximum price", msg)
}

func TestValidatePhone(t *testing.T) {
	ok, cleaned := ValidatePhone("+40 721-000-111")
	assert.True(t, ok)
	assert.Equal(t, "+40721000111", cleaned)

	ok, _ = ValidatePhone("12ab")
	assert.False(t, ok)
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		today  time.Time
		years  int
		months int
	}{
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 24, 0},
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 23, 11},
		{time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC), 24, 3},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 23, 7},
	}
	for _, tt := range tests {
		years, months := AgeOn(birth, tt.today)
		assert.Equal(t, tt.years, years, tt.today.Format(DateLayout))
		assert.Equal(t, tt.months, months, tt.today.Format(DateLayout))
	}
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, []string{"Hello", "there", "reader"}, Words("Hello,  there reader!"))
	assert.True(t, ContainsLink("see https://example.com/offer"))
	assert.False(t, ContainsLink("see example dot com"))
	assert.Equal(t, "one two three", CollapseWhitespace("one\n two   three "))
	assert.Equal(t, "alert(1)", SanitizeString("<b>alert(1)</b>"))
}

func TestFieldValidationErrors(t *testing.T) {
	var errs FieldValidationErrors
	errs.Add("name", "Name is required")
	errs.Add("age", "Too young")
	assert.Equal(t, "name: Name is required; age: Too young", errs.Error())
}

func TestAppErrors(t *testing.T) {
	base := NotFoundError("Book not found", gorm.ErrRecordNotFound)
	wrapped := WrapError(base, "load book")

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFoundError(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
	assert.ErrorIs(t, wrapped, gorm.ErrRecordNotFound)
	assert.Nil(t, WrapError(nil, "noop"))

	assert.Equal(t, http.StatusNotFound, FromDBError(gorm.ErrRecordNotFound, "Author").Code)
	assert.Equal(t, "Author not found", FromDBError(gorm.ErrRecordNotFound, "Author").Message)
	assert.Equal(t, http.StatusInternalServerError, FromDBError(assert.AnError, "Author").Code)
	assert.True(t, IsValidationError(UnprocessableError("bad", nil)))
	assert.Equal(t, http.StatusBadRequest, StatusCode(BadRequestError("Invalid birth date", assert.AnError)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(assert.AnError))
}

func TestNewPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, DefaultPaginationLimit, 0},
		{"page=3&limit=20", 3, 20, 40},
		{"page=-1&limit=abc", 1, DefaultPaginationLimit, 0},
		{"limit=1000", 1, MaxPaginationLimit, 0},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/books?"+tt.query, nil)

		p := NewPagination(c)
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.limit, p.Limit, tt.query)
		assert.Equal(t, tt.offset, p.Offset, tt.query)
	}

	p := &Pagination{Page: 1, Limit: 10}
	p.SetTotal(21)
	assert.Equal(t, 3, p.LastPage)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2001-02-03")
	require.NoError(t, err)
	assert.Equal(t, 2001, d.Year())
	assert.Equal(t, time.Local, d.Location())

	_, err = ParseDate("03/02/2001")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)
	assert.True(t, CheckPassword("Password123", hash))
	assert.False(t, CheckPassword("password123", hash))
}
