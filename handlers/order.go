package handlers

import (
	"fmt"
	"net/http"
	"time"

	"foodie-api/config"
	"foodie-api/middleware"
	"foodie-api/models"
	"foodie-api/realtime"
	"foodie-api/statemachine"

	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	Items []struct {
		FoodID   uint `json:"food_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	UPIID         string               `json:"upi_id"`
	DeliveryLocation struct {
		Address string  `json:"address" binding:"required"`
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
	} `json:"delivery_location" binding:"required"`
}

// CreateOrder places a new order (customer only). Line items are
// snapshotted from the menu so later edits never alter this order.
// Payment is recorded, not processed.
func CreateOrder(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.GetUserID(c)

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.PaymentMethod == "" {
			req.PaymentMethod = models.PaymentCOD
		}
		if req.PaymentMethod != models.PaymentCOD && req.PaymentMethod != models.PaymentUPI {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method must be 'cod' or 'upi'"})
			return
		}
		if req.PaymentMethod == models.PaymentUPI && req.UPIID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "UPI id is required for UPI payment"})
			return
		}

		var orderItems []models.OrderItem
		var total float64
		for _, reqItem := range req.Items {
			var food models.Food
			if err := config.DB.First(&food, reqItem.FoodID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Food item %d not found", reqItem.FoodID)})
				return
			}
			if !food.IsAvailable {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Food item '" + food.Name + "' is not available"})
				return
			}
			total += food.Price * float64(reqItem.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				FoodID:   food.ID,
				Name:     food.Name,
				Quantity: reqItem.Quantity,
				Price:    food.Price,
				Image:    food.Image,
			})
		}

		order := models.Order{
			CustomerID:    customerID,
			Status:        models.StatusPending,
			TotalPrice:    total,
			PaymentMethod: req.PaymentMethod,
			UPIID:         req.UPIID,
			DeliveryLocation: models.DeliveryLocation{
				Address: req.DeliveryLocation.Address,
				Lat:     req.DeliveryLocation.Lat,
				Lng:     req.DeliveryLocation.Lng,
			},
			Items: orderItems,
		}
		if err := config.DB.Create(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		config.DB.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: customerID,
			Note:      "Order placed by customer",
		})

		config.DB.Preload("Items").Preload("Customer").First(&order, order.ID)

		if hub != nil {
			hub.Broadcast("new_order", order)
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
	}
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("DeliveryPerson").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetDeliveryOrders shows couriers what they can claim (Prepared) plus
// everything already assigned to them.
func GetDeliveryOrders(c *gin.Context) {
	courierID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("Customer").
		Where("status = ? OR delivery_person_id = ?", models.StatusPrepared, courierID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetMyDeliveries returns the courier's active deliveries
func GetMyDeliveries(c *gin.Context) {
	courierID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("Customer").
		Where("delivery_person_id = ? AND status IN ?", courierID,
			[]models.OrderStatus{models.StatusDriverAssigned, models.StatusOutForDelivery}).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetAllOrders returns every order with a dashboard summary (admin)
func GetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items").Preload("Customer").Preload("DeliveryPerson")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered || o.Status == models.StatusCompleted {
			totalRevenue += o.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus drives the order lifecycle. The transition table
// decides who may do what; the courier claim is a single conditional
// update so two couriers can never both win.
func UpdateOrderStatus(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := middleware.GetUserID(c)
		role := middleware.GetRole(c)

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !models.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value: " + string(req.Status)})
			return
		}

		var order models.Order
		if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		// Customers may only cancel their own orders.
		if role == models.RoleUser && order.CustomerID != actorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
			return
		}

		if err := statemachine.CanTransition(order.Status, req.Status, role); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":             "Invalid state transition",
				"current_status":    order.Status,
				"requested":         req.Status,
				"reason":            err.Error(),
				"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
			})
			return
		}

		// Only the assigned courier finishes a delivery.
		if req.Status == models.StatusDelivered || req.Status == models.StatusCompleted {
			if order.DeliveryPersonID == nil || *order.DeliveryPersonID != actorID {
				c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned courier for this order"})
				return
			}
		}

		prevStatus := order.Status

		if req.Status == models.StatusDriverAssigned {
			// Atomic claim: first courier wins, the rest see zero rows.
			res := config.DB.Model(&models.Order{}).
				Where("id = ? AND status = ? AND delivery_person_id IS NULL", order.ID, models.StatusPrepared).
				Updates(map[string]interface{}{
					"status":             models.StatusDriverAssigned,
					"delivery_person_id": actorID,
				})
			if res.Error != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
				return
			}
			if res.RowsAffected == 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "Order has already been claimed by another courier"})
				return
			}
		} else {
			update := map[string]interface{}{"status": req.Status}
			if req.Status == models.StatusOutForDelivery {
				eta := time.Now().Add(30 * time.Minute)
				update["estimated_delivery_time"] = eta
			}
			if err := config.DB.Model(&order).Updates(update).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
				return
			}
		}

		config.DB.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prevStatus,
			ToStatus:   req.Status,
			ChangedBy:  actorID,
			Note:       req.Note,
		})

		var updated models.Order
		config.DB.Preload("Customer").Preload("DeliveryPerson").Preload("Items").First(&updated, order.ID)

		publishOrderUpdate(hub, &updated)

		c.JSON(http.StatusOK, gin.H{
			"message":         "Order status updated",
			"order":           updated,
			"previous_status": prevStatus,
			"current_status":  req.Status,
		})
	}
}

// publishOrderUpdate pushes the populated order to every client, plus
// the order-id-suffixed variant some clients listen on. Fire-and-forget
// by design: subscriber misses never fail the request.
func publishOrderUpdate(hub *realtime.Hub, order *models.Order) {
	if hub == nil {
		return
	}
	hub.Broadcast("order_updated", order)
	hub.Broadcast(fmt.Sprintf("order_updated_%d", order.ID), order)
}
