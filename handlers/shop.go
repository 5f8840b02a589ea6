package handlers

import (
	"net/http"

	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"

	"github.com/gin-gonic/gin"
)

// GetMyShop fetches the shop owned by the logged-in admin
func GetMyShop(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var shop models.Shop
	if err := config.DB.Where("user_id = ?", ownerID).First(&shop).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No shop found for your account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": shop})
}

type UpsertShopRequest struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	City    string `json:"city"`
	State   string `json:"state"`
	Address string `json:"address"`
}

// UpsertShop creates the admin's shop on first call, updates it after.
// Each admin owns at most one shop.
func UpsertShop(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req UpsertShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var shop models.Shop
	if err := config.DB.Where("user_id = ?", ownerID).First(&shop).Error; err == nil {
		update := map[string]interface{}{}
		if req.Name != "" {
			update["name"] = req.Name
		}
		if req.Image != "" {
			update["image"] = req.Image
		}
		if req.City != "" {
			update["city"] = req.City
		}
		if req.State != "" {
			update["state"] = req.State
		}
		if req.Address != "" {
			update["address"] = req.Address
		}
		if len(update) > 0 {
			config.DB.Model(&shop).Updates(update)
		}

		// Keep the denormalized restaurant name on foods in sync.
		if req.Name != "" {
			config.DB.Model(&models.Food{}).Where("owner_id = ?", ownerID).Update("restaurant", req.Name)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Shop updated", "shop": shop})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shop name is required"})
		return
	}
	shop = models.Shop{
		UserID:  ownerID,
		Name:    req.Name,
		Image:   req.Image,
		City:    req.City,
		State:   req.State,
		Address: req.Address,
	}
	if err := config.DB.Create(&shop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shop"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shop created", "shop": shop})
}

// GetAllShops returns every shop (public)
func GetAllShops(c *gin.Context) {
	var shops []models.Shop
	query := config.DB
	if city := c.Query("city"); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	query.Find(&shops)
	c.JSON(http.StatusOK, gin.H{"count": len(shops), "shops": shops})
}
