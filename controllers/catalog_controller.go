package controllers

import (
	"strconv"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
)

func idParam(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.LogError("Invalid %s ID: %s", what, c.Param("id"))
		utils.BadRequest(c, "Invalid "+what+" ID", nil)
		return 0, false
	}
	return uint(id), true
}

// GetAuthor returns an author with their books
func GetAuthor(c *gin.Context) {
	utils.LogInfo("GetAuthor called")

	id, ok := idParam(c, "author")
	if !ok {
		return
	}

	var author models.Author
	if err := config.DB.Preload("Books").First(&author, id).Error; err != nil {
		utils.LogError("Failed to load author %d: %v", id, err)
		utils.Fail(c, utils.FromDBError(err, "Author"))
		return
	}
	utils.Success(c, "Author retrieved successfully", author)
}

// GetPublisher returns a publisher with its books
func GetPublisher(c *gin.Context) {
	utils.LogInfo("GetPublisher called")

	id, ok := idParam(c, "publisher")
	if !ok {
		return
	}

	var publisher models.Publisher
	if err := config.DB.Preload("Books").First(&publisher, id).Error; err != nil {
		utils.LogError("Failed to load publisher %d: %v", id, err)
		utils.Fail(c, utils.FromDBError(err, "Publisher"))
		return
	}
	utils.Success(c, "Publisher retrieved successfully", publisher)
}

// ListCategories returns every category ordered by name
func ListCategories(c *gin.Context) {
	utils.LogInfo("ListCategories called")

	var categories []models.Category
	if err := config.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to fetch categories", err.Error())
		return
	}
	utils.Success(c, "Categories retrieved successfully", gin.H{"categories": categories})
}

// GetCategory returns a category with its books
func GetCategory(c *gin.Context) {
	utils.LogInfo("GetCategory called")

	id, ok := idParam(c, "category")
	if !ok {
		return
	}

	var category models.Category
	if err := config.DB.Preload("Books").First(&category, id).Error; err != nil {
		utils.LogError("Failed to load category %d: %v", id, err)
		utils.Fail(c, utils.FromDBError(err, "Category"))
		return
	}
	utils.Success(c, "Category retrieved successfully", category)
}

// CreateDefaultCategories seeds the categories that have promotion templates
func CreateDefaultCategories() error {
	defaults := []models.Category{
		{Name: "Poetry", Description: "Poems and verse"},
		{Name: "Fiction", Description: "Novels and short stories"},
	}
	for _, category := range defaults {
		category := category
		if err := config.DB.Where(models.Category{Name: category.Name}).FirstOrCreate(&category).Error; err != nil {
			utils.LogError("Failed to create default category %s: %v", category.Name, err)
			return err
		}
	}
	utils.LogInfo("Default categories ensured")
	return nil
}
