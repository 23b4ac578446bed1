package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/middleware"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookFilter holds the catalog query parameters
type BookFilter struct {
	Title           string `form:"title"`
	AuthorID        uint   `form:"author_id"`
	PublisherID     uint   `form:"publisher_id"`
	CategoryID      uint   `form:"category_id"`
	MinPrice        string `form:"min_price"`
	MaxPrice        string `form:"max_price"`
	PublicationDate string `form:"publication_date" binding:"omitempty,datetime=2006-01-02"`
	Stock           *int   `form:"stock" binding:"omitempty,min=0"`
}

// Apply narrows query to the books matching the filter
func (f BookFilter) Apply(query *gorm.DB) (*gorm.DB, error) {
	var errs utils.FieldValidationErrors

	minPrice, err := parseOptionalDecimal(f.MinPrice)
	if err != nil {
		errs.Add("min_price", "Minimum price must be a number")
	}
	maxPrice, err := parseOptionalDecimal(f.MaxPrice)
	if err != nil {
		errs.Add("max_price", "Maximum price must be a number")
	}
	if valid, msg := utils.ValidatePriceRange(minPrice, maxPrice); !valid {
		errs.Add("price", msg)
	}
	if len(errs) > 0 {
		return nil, utils.UnprocessableError("Invalid filters", errs)
	}
	day, err := parseOptionalDate("publication date", f.PublicationDate)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(f.Title); title != "" {
		query = query.Where("LOWER(books.title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if f.AuthorID != 0 {
		query = query.Where("books.author_id = ?", f.AuthorID)
	}
	if f.PublisherID != 0 {
		query = query.Where("books.publisher_id = ?", f.PublisherID)
	}
	if f.CategoryID != 0 {
		query = query.Where("books.id IN (?)",
			config.DB.Table("book_categories").Select("book_id").Where("category_id = ?", f.CategoryID))
	}
	if minPrice != nil {
		query = query.Where("books.price >= ?", *minPrice)
	}
	if maxPrice != nil {
		query = query.Where("books.price <= ?", *maxPrice)
	}
	if day != nil {
		query = query.Where("books.publication_date >= ? AND books.publication_date < ?", *day, day.AddDate(0, 0, 1))
	}
	if f.Stock != nil {
		query = query.Where("books.stock = ?", *f.Stock)
	}
	return query, nil
}

func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseOptionalDate parses a YYYY-MM-DD value; empty means unset
func parseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return nil, utils.BadRequestError("Invalid "+field+", expected YYYY-MM-DD", err)
	}
	return &d, nil
}

// ListBooks returns the catalog page matching the filters
func ListBooks(c *gin.Context) {
	utils.LogInfo("ListBooks called with query params: %v", c.Request.URL.Query())

	var filter BookFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.LogError("Invalid book filters: %v", err)
		utils.BadRequest(c, "Invalid filters", err.Error())
		return
	}

	query, err := filter.Apply(config.DB.Model(&models.Book{}))
	if err != nil {
		utils.LogError("Invalid book filters: %v", err)
		utils.Fail(c, err)
		return
	}

	pagination := utils.NewPagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count books: %v", err)
		utils.InternalServerError(c, "Failed to fetch books", err.Error())
		return
	}
	pagination.SetTotal(total)

	var books []models.Book
	if err := query.Scopes(pagination.Scope).
		Preload("Author").Preload("Publisher").Preload("Categories").
		Order("books.created_at DESC, books.id DESC").
		Find(&books).Error; err != nil {
		utils.LogError("Failed to fetch books: %v", err)
		utils.InternalServerError(c, "Failed to fetch books", err.Error())
		return
	}

	utils.LogDebug("Listed %d of %d books", len(books), total)
	utils.SuccessWithPagination(c, "Books retrieved successfully", books, pagination)
}

func bookIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid book ID", nil)
		return 0, false
	}
	return uint(id), true
}

// GetBook returns a book and records the view for a logged-in reader
func GetBook(c *gin.Context) {
	utils.LogInfo("GetBook called")

	id, ok := bookIDParam(c)
	if !ok {
		return
	}

	var book models.Book
	if err := config.DB.Preload("Author").Preload("Publisher").Preload("Categories").
		First(&book, id).Error; err != nil {
		utils.LogError("Failed to load book %d: %v", id, err)
		utils.Fail(c, utils.FromDBError(err, "Book"))
		return
	}

	if user, ok := middleware.CurrentUser(c); ok {
		if err := deps.Views.Record(c.Request.Context(), user.ID, book.ID); err != nil {
			utils.LogError("Failed to record view: %v", err)
		}
	}

	utils.Success(c, "Book retrieved successfully", book)
}

// BookRequest is the body for creating a book
type BookRequest struct {
	Title           string          `json:"title" binding:"required,max=200,titlecase"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	PublicationDate string          `json:"publication_date" binding:"omitempty,datetime=2006-01-02"`
	CoverImage      string          `json:"cover_image" binding:"omitempty,url"`
	Stock           int             `json:"stock" binding:"min=0"`
	AuthorID        uint            `json:"author_id" binding:"required"`
	PublisherID     *uint           `json:"publisher_id"`
	CategoryIDs     []uint          `json:"category_ids"`
}

// CreateBook adds a book to the catalog
func CreateBook(c *gin.Context) {
	utils.LogInfo("CreateBook called")

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid input: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	var errs utils.FieldValidationErrors
	if valid, msg := utils.ValidateBookTitle(req.Title); !valid {
		errs.Add("title", msg)
	}
	if req.Price.IsNegative() {
		errs.Add("price", "Price cannot be negative")
	}
	if len(errs) > 0 {
		utils.LogError("Book validation failed: %v", errs)
		utils.ValidationError(c, "Invalid book data", errs)
		return
	}

	var author models.Author
	if err := config.DB.First(&author, req.AuthorID).Error; err != nil {
		utils.LogError("Author not found: %v", err)
		utils.BadRequest(c, "Invalid author ID", "The specified author does not exist")
		return
	}

	if req.PublisherID != nil {
		var publisher models.Publisher
		if err := config.DB.First(&publisher, *req.PublisherID).Error; err != nil {
			utils.LogError("Publisher not found: %v", err)
			utils.BadRequest(c, "Invalid publisher ID", "The specified publisher does not exist")
			return
		}
	}

	var categories []models.Category
	if len(req.CategoryIDs) > 0 {
		if err := config.DB.Where("id IN ?", req.CategoryIDs).Find(&categories).Error; err != nil {
			utils.LogError("Failed to load categories: %v", err)
			utils.InternalServerError(c, "Failed to create book", err.Error())
			return
		}
		if len(categories) != len(uniqueIDs(req.CategoryIDs)) {
			utils.BadRequest(c, "Invalid category IDs", "One or more categories do not exist")
			return
		}
	}

	book := models.Book{
		Title:       strings.TrimSpace(req.Title),
		Description: utils.SanitizeString(req.Description),
		Price:       req.Price.Round(2),
		CoverImage:  req.CoverImage,
		Stock:       req.Stock,
		AuthorID:    req.AuthorID,
		PublisherID: req.PublisherID,
		Categories:  categories,
	}
	published, err := parseOptionalDate("publication date", req.PublicationDate)
	if err != nil {
		utils.LogError("Invalid publication date %q: %v", req.PublicationDate, err)
		utils.Fail(c, err)
		return
	}
	book.PublicationDate = published

	if err := config.DB.Omit("Categories.*").Create(&book).Error; err != nil {
		utils.LogError("Failed to create book: %v", err)
		utils.InternalServerError(c, "Failed to create book", err.Error())
		return
	}
	book.Author = author

	utils.LogInfo("Book created successfully: %s (ID %d)", book.Title, book.ID)
	utils.Created(c, "Book created successfully", book)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
