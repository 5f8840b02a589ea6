package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"foodie-api/config"
	"foodie-api/models"

	"github.com/gin-gonic/gin"
)

// prepares an order that is out for delivery with carl assigned.
func setupActiveDelivery(t *testing.T, r *gin.Engine) (orderID uint, tokens map[string]string) {
	t.Helper()
	adminToken, _ := registerUser(t, r, "joe", models.RoleAdmin)
	customerToken, _ := registerUser(t, r, "uma", models.RoleUser)
	courierToken, _ := registerUser(t, r, "carl", models.RoleDelivery)
	otherCourierToken, _ := registerUser(t, r, "dave", models.RoleDelivery)
	strangerToken, _ := registerUser(t, r, "eve", models.RoleUser)

	foodID := createShopAndFood(t, r, adminToken, "Joe's", "Burger", 5)
	orderID = placeOrder(t, r, customerToken, foodID, 1)
	if w := setStatus(t, r, adminToken, orderID, models.StatusPrepared); w.Code != http.StatusOK {
		t.Fatalf("prepare: status %d", w.Code)
	}
	if w := setStatus(t, r, courierToken, orderID, models.StatusDriverAssigned); w.Code != http.StatusOK {
		t.Fatalf("claim: status %d", w.Code)
	}
	if w := setStatus(t, r, adminToken, orderID, models.StatusOutForDelivery); w.Code != http.StatusOK {
		t.Fatalf("dispatch: status %d", w.Code)
	}
	return orderID, map[string]string{
		"admin":    adminToken,
		"customer": customerToken,
		"courier":  courierToken,
		"other":    otherCourierToken,
		"stranger": strangerToken,
	}
}

func putLocation(t *testing.T, r *gin.Engine, token string, orderID uint, lat, lng float64) int {
	t.Helper()
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tracking/%d/location", orderID), token, gin.H{
		"lat": lat, "lng": lng,
	})
	return w.Code
}

func TestLocationWriteAuthorization(t *testing.T) {
	r := setupRouter(t)
	orderID, tokens := setupActiveDelivery(t, r)

	if code := putLocation(t, r, tokens["courier"], orderID, 18.52, 73.85); code != http.StatusOK {
		t.Errorf("assigned courier write: status %d, want 200", code)
	}
	// Another courier is forbidden, whatever the body says.
	if code := putLocation(t, r, tokens["other"], orderID, 18.52, 73.85); code != http.StatusForbidden {
		t.Errorf("other courier write: status %d, want 403", code)
	}
	// Customers and admins lack the delivery role entirely.
	if code := putLocation(t, r, tokens["customer"], orderID, 18.52, 73.85); code != http.StatusForbidden {
		t.Errorf("customer write: status %d, want 403", code)
	}
	if code := putLocation(t, r, tokens["courier"], orderID+999, 18.52, 73.85); code != http.StatusNotFound {
		t.Errorf("unknown order write: status %d, want 404", code)
	}
}

func TestTrackingHistoryAppendOnly(t *testing.T) {
	r := setupRouter(t)
	orderID, tokens := setupActiveDelivery(t, r)

	samples := [][2]float64{{18.50, 73.80}, {18.51, 73.82}, {18.52, 73.85}}
	for _, s := range samples {
		if code := putLocation(t, r, tokens["courier"], orderID, s[0], s[1]); code != http.StatusOK {
			t.Fatalf("location write: status %d", code)
		}
	}

	var points []models.TrackingPoint
	config.DB.Where("order_id = ?", orderID).Order("id asc").Find(&points)
	if len(points) != len(samples) {
		t.Fatalf("tracking points = %d, want %d", len(points), len(samples))
	}
	var prev time.Time
	for i, p := range points {
		if p.Timestamp.Before(prev) {
			t.Errorf("point %d timestamp %v before previous %v", i, p.Timestamp, prev)
		}
		prev = p.Timestamp
		if p.Lat != samples[i][0] || p.Lng != samples[i][1] {
			t.Errorf("point %d = (%v,%v), want (%v,%v)", i, p.Lat, p.Lng, samples[i][0], samples[i][1])
		}
	}

	// The latest sample is mirrored on the order itself.
	var order models.Order
	config.DB.First(&order, orderID)
	last := samples[len(samples)-1]
	if order.DeliveryPersonLocation.Lat != last[0] || order.DeliveryPersonLocation.Lng != last[1] {
		t.Errorf("courier location = (%v,%v), want (%v,%v)",
			order.DeliveryPersonLocation.Lat, order.DeliveryPersonLocation.Lng, last[0], last[1])
	}
	if order.DeliveryPersonLocation.LastUpdated == nil {
		t.Error("courier location last_updated not set")
	}
}

func TestTrackingReadAuthorization(t *testing.T) {
	r := setupRouter(t)
	orderID, tokens := setupActiveDelivery(t, r)
	if code := putLocation(t, r, tokens["courier"], orderID, 18.52, 73.85); code != http.StatusOK {
		t.Fatalf("location write: status %d", code)
	}

	path := fmt.Sprintf("/api/tracking/%d/tracking", orderID)

	for _, who := range []string{"customer", "courier", "admin"} {
		w := doJSON(t, r, http.MethodGet, path, tokens[who], nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s reads tracking: status %d, want 200", who, w.Code)
			continue
		}
		body := decodeBody(t, w)
		if body["status"] != string(models.StatusOutForDelivery) {
			t.Errorf("%s tracking status = %v, want Out for Delivery", who, body["status"])
		}
		history, _ := body["tracking_history"].([]any)
		if len(history) != 1 {
			t.Errorf("%s tracking history = %d entries, want 1", who, len(history))
		}
	}

	for _, who := range []string{"stranger", "other"} {
		if w := doJSON(t, r, http.MethodGet, path, tokens[who], nil); w.Code != http.StatusForbidden {
			t.Errorf("%s reads tracking: status %d, want 403", who, w.Code)
		}
	}

	if w := doJSON(t, r, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous reads tracking: status %d, want 401", w.Code)
	}
}
