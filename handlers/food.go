package handlers

import (
	"net/http"

	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"

	"github.com/gin-gonic/gin"
)

// ListFoods returns the full menu across all shops (public)
func ListFoods(c *gin.Context) {
	var foods []models.Food
	query := config.DB
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if isVeg := c.Query("is_veg"); isVeg == "true" {
		query = query.Where("is_veg = ?", true)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	query.Find(&foods)
	c.JSON(http.StatusOK, gin.H{"count": len(foods), "foods": foods})
}

// ListShopFoods returns the menu of one shop (public)
func ListShopFoods(c *gin.Context) {
	var shop models.Shop
	if err := config.DB.First(&shop, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
		return
	}
	var foods []models.Food
	config.DB.Where("owner_id = ?", shop.UserID).Find(&foods)
	c.JSON(http.StatusOK, gin.H{"shop": shop.Name, "count": len(foods), "foods": foods})
}

// ListMyFoods returns foods owned by the logged-in admin
func ListMyFoods(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var foods []models.Food
	config.DB.Where("owner_id = ?", ownerID).Find(&foods)
	c.JSON(http.StatusOK, gin.H{"count": len(foods), "foods": foods})
}

type CreateFoodRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	IsVeg       *bool   `json:"is_veg"`
	Rating      float64 `json:"rating"`
}

// AddFood creates a food item owned by the logged-in admin. The owning
// shop supplies the denormalized restaurant name.
func AddFood(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	var shop models.Shop
	if err := config.DB.Where("user_id = ?", ownerID).First(&shop).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Create a shop first before adding food items"})
		return
	}

	var req CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isVeg := true
	if req.IsVeg != nil {
		isVeg = *req.IsVeg
	}
	rating := req.Rating
	if rating == 0 {
		rating = 4.5
	}

	food := models.Food{
		OwnerID:     ownerID,
		Restaurant:  shop.Name,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		IsVeg:       isVeg,
		Rating:      rating,
		IsAvailable: true,
	}
	if err := config.DB.Create(&food).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add food item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Food item added", "food": food})
}

// loadOwnedFood fetches a food item and enforces ownership. Writes the
// error response itself when it returns false.
func loadOwnedFood(c *gin.Context, food *models.Food) bool {
	ownerID := middleware.GetUserID(c)
	if err := config.DB.First(food, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food item not found"})
		return false
	}
	if food.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this food item"})
		return false
	}
	return true
}

// UpdateFood updates a food item (owner only). The ownership check runs
// before the body is even parsed.
func UpdateFood(c *gin.Context) {
	var food models.Food
	if !loadOwnedFood(c, &food) {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Owner and restaurant are server-managed.
	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "category": true,
		"image": true, "is_veg": true, "rating": true, "is_available": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&food).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Food item updated", "food": food})
}

// DeleteFood removes a food item (owner only)
func DeleteFood(c *gin.Context) {
	var food models.Food
	if !loadOwnedFood(c, &food) {
		return
	}
	config.DB.Delete(&food)
	c.JSON(http.StatusOK, gin.H{"message": "Food item deleted"})
}
