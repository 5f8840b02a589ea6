package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"foodie-api/config"
	"foodie-api/models"

	"github.com/gin-gonic/gin"
)

func TestFoodOwnership(t *testing.T) {
	r := setupRouter(t)

	ownerToken, _ := registerUser(t, r, "joe", models.RoleAdmin)
	rivalToken, _ := registerUser(t, r, "rita", models.RoleAdmin)
	// The rival needs a shop too, so only ownership separates them.
	w := doJSON(t, r, http.MethodPost, "/api/shop", rivalToken, gin.H{"name": "Rita's"})
	if w.Code != http.StatusCreated {
		t.Fatalf("rival shop: status %d", w.Code)
	}

	foodID := createShopAndFood(t, r, ownerToken, "Joe's", "Burger", 5)
	path := fmt.Sprintf("/api/food/%d", foodID)

	// A non-owner admin cannot touch the item, regardless of body.
	if w := doJSON(t, r, http.MethodPut, path, rivalToken, gin.H{"price": 1}); w.Code != http.StatusForbidden {
		t.Errorf("rival update: status %d, want 403", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, path, rivalToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("rival delete: status %d, want 403", w.Code)
	}

	var food models.Food
	config.DB.First(&food, foodID)
	if food.Price != 5 {
		t.Errorf("price changed to %v by forbidden update", food.Price)
	}

	// The owner can.
	if w := doJSON(t, r, http.MethodPut, path, ownerToken, gin.H{"price": 6}); w.Code != http.StatusOK {
		t.Errorf("owner update: status %d, want 200", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, path, ownerToken, nil); w.Code != http.StatusOK {
		t.Errorf("owner delete: status %d, want 200", w.Code)
	}
}

func TestFoodRequiresShop(t *testing.T) {
	r := setupRouter(t)

	adminToken, _ := registerUser(t, r, "joe", models.RoleAdmin)
	w := doJSON(t, r, http.MethodPost, "/api/food", adminToken, gin.H{
		"name": "Burger", "price": 5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("food without shop: status %d, want 400", w.Code)
	}
}

func TestFoodRoleGate(t *testing.T) {
	r := setupRouter(t)

	customerToken, _ := registerUser(t, r, "uma", models.RoleUser)
	if w := doJSON(t, r, http.MethodPost, "/api/food", customerToken, gin.H{
		"name": "Burger", "price": 5,
	}); w.Code != http.StatusForbidden {
		t.Errorf("customer adds food: status %d, want 403", w.Code)
	}
}

func TestShopFoodsListing(t *testing.T) {
	r := setupRouter(t)

	adminToken, adminID := registerUser(t, r, "joe", models.RoleAdmin)
	createShopAndFood(t, r, adminToken, "Joe's", "Burger", 5)

	var shop models.Shop
	if err := config.DB.Where("user_id = ?", adminID).First(&shop).Error; err != nil {
		t.Fatalf("load shop: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/food/shop/%d", shop.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("shop menu: status %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) != 1 {
		t.Errorf("shop menu count = %v, want 1", body["count"])
	}
	if body["shop"] != "Joe's" {
		t.Errorf("shop name = %v, want Joe's", body["shop"])
	}
}

// Renaming the shop must propagate to the denormalized restaurant name.
func TestShopRenameSyncsFoods(t *testing.T) {
	r := setupRouter(t)

	adminToken, _ := registerUser(t, r, "joe", models.RoleAdmin)
	foodID := createShopAndFood(t, r, adminToken, "Joe's", "Burger", 5)

	if w := doJSON(t, r, http.MethodPost, "/api/shop", adminToken, gin.H{"name": "Joe's Diner"}); w.Code != http.StatusOK {
		t.Fatalf("rename shop: status %d", w.Code)
	}

	var food models.Food
	config.DB.First(&food, foodID)
	if food.Restaurant != "Joe's Diner" {
		t.Errorf("food restaurant = %q, want %q", food.Restaurant, "Joe's Diner")
	}
}
