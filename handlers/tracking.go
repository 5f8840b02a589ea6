package handlers

import (
	"net/http"
	"strconv"
	"time"

	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"
	"foodie-api/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateLocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// UpdateLocation records a courier GPS sample on an order: overwrites
// the latest location, appends to the tracking history, and emits the
// room-scoped location event. Only the assigned courier may write.
func UpdateLocation(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		courierID := middleware.GetUserID(c)

		var order models.Order
		if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.DeliveryPersonID == nil || *order.DeliveryPersonID != courierID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this order's location"})
			return
		}

		var req UpdateLocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		if err := config.DB.Model(&order).Updates(map[string]interface{}{
			"courier_lat":          *req.Lat,
			"courier_lng":          *req.Lng,
			"courier_last_updated": now,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
			return
		}
		point := models.TrackingPoint{
			OrderID:   order.ID,
			Lat:       *req.Lat,
			Lng:       *req.Lng,
			Timestamp: now,
		}
		if err := config.DB.Create(&point).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record tracking point"})
			return
		}

		if hub != nil {
			orderID := strconv.FormatUint(uint64(order.ID), 10)
			update := realtime.LocationUpdate{OrderID: orderID, Timestamp: now}
			update.Location.Lat = *req.Lat
			update.Location.Lng = *req.Lng
			hub.EmitToRoom(realtime.RoomForOrder(orderID), "location_update", update)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"location": models.CourierLocation{
				Lat:         *req.Lat,
				Lng:         *req.Lng,
				LastUpdated: &now,
			},
		})
	}
}

// GetTracking returns the tracking detail for an order. Readable only
// by the order's customer, its assigned courier, or an admin.
func GetTracking(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var order models.Order
	if err := config.DB.
		Preload("Customer").
		Preload("DeliveryPerson").
		Preload("Items").
		Preload("TrackingHistory", func(db *gorm.DB) *gorm.DB { return db.Order("tracking_points.id asc") }).
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !canViewOrder(&order, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this order"})
		return
	}

	resp := gin.H{
		"order_id":                 order.ID,
		"status":                   order.Status,
		"delivery_location":        order.DeliveryLocation,
		"delivery_person_location": order.DeliveryPersonLocation,
		"estimated_delivery_time":  order.EstimatedDeliveryTime,
		"tracking_history":         order.TrackingHistory,
		"items":                    order.Items,
		"total_price":              order.TotalPrice,
		"customer": gin.H{
			"name":    order.Customer.Name,
			"address": order.Customer.Address,
		},
	}
	if order.DeliveryPerson != nil {
		resp["delivery_person"] = gin.H{
			"name":  order.DeliveryPerson.Name,
			"phone": order.DeliveryPerson.Phone,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func canViewOrder(order *models.Order, userID uint, role models.UserRole) bool {
	if role == models.RoleAdmin {
		return true
	}
	if order.CustomerID == userID {
		return true
	}
	return order.DeliveryPersonID != nil && *order.DeliveryPersonID == userID
}

// CanViewOrder is the hub's room-join authorizer: the same check the
// tracking endpoint applies, keyed by the order id string clients send.
func CanViewOrder(orderID string, userID uint, role string) bool {
	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		return false
	}
	return canViewOrder(&order, userID, models.UserRole(role))
}
