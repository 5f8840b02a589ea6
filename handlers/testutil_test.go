package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodie-api/config"
	"foodie-api/handlers"
	"foodie-api/mailer"
	"foodie-api/models"
	"foodie-api/realtime"
	"foodie-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter builds a full router backed by a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWTSecret = []byte("test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db

	hub := realtime.NewHub(handlers.CanViewOrder)
	go hub.Run()

	r := gin.New()
	routes.SetupRoutes(r, hub, mailer.New(config.SMTP{}))
	return r
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// registerUser creates an account through the API and returns its token
// and id.
func registerUser(t *testing.T, r *gin.Engine, name string, role models.UserRole) (string, uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     role,
		"address":  "12 Test Street",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", name, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]any)
	id, _ := user["id"].(float64)
	if token == "" || id == 0 {
		t.Fatalf("register %s: missing token or id in %v", name, body)
	}
	return token, uint(id)
}

// createShopAndFood seeds a shop plus one food item for an admin and
// returns the food id.
func createShopAndFood(t *testing.T, r *gin.Engine, adminToken, shopName, foodName string, price float64) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/shop", adminToken, gin.H{
		"name": shopName, "city": "Pune", "state": "MH", "address": "1 Main Rd",
	})
	if w.Code != http.StatusCreated && w.Code != http.StatusOK {
		t.Fatalf("create shop: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/food", adminToken, gin.H{
		"name": foodName, "description": "tasty", "price": price, "category": "Mains",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create food: status %d body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	food, _ := body["food"].(map[string]any)
	id, _ := food["id"].(float64)
	return uint(id)
}

// placeOrder places an order of qty x foodID for the customer token.
func placeOrder(t *testing.T, r *gin.Engine, customerToken string, foodID uint, qty int) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"items":             []gin.H{{"food_id": foodID, "quantity": qty}},
		"payment_method":    "cod",
		"delivery_location": gin.H{"address": "42 Hungry Lane", "lat": 18.52, "lng": 73.85},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place order: status %d body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	order, _ := body["order"].(map[string]any)
	id, _ := order["id"].(float64)
	return uint(id)
}

func setStatus(t *testing.T, r *gin.Engine, token string, orderID uint, status models.OrderStatus) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", orderID), token, gin.H{
		"status": status,
	})
}
