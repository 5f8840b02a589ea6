package models

import "time"

// OrderStatus represents all possible states of an order. The set is
// closed: the API rejects any value not listed here.
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusAccepted       OrderStatus = "Accepted"
	StatusCooking        OrderStatus = "Cooking"
	StatusPrepared       OrderStatus = "Prepared"
	StatusDriverAssigned OrderStatus = "Driver Assigned"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCompleted      OrderStatus = "Completed"
	StatusCancelled      OrderStatus = "Cancelled"
)

// AllStatuses lists every persisted status value.
var AllStatuses = []OrderStatus{
	StatusPending, StatusAccepted, StatusCooking, StatusPrepared,
	StatusDriverAssigned, StatusOutForDelivery, StatusDelivered,
	StatusCompleted, StatusCancelled,
}

// ValidStatus reports whether s is one of the closed enum values.
func ValidStatus(s OrderStatus) bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is expected from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "cod"
	PaymentUPI PaymentMethod = "upi"
)

// DeliveryLocation is the order's destination.
type DeliveryLocation struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// CourierLocation is the latest GPS sample reported by the assigned
// courier. LastUpdated is nil until the first sample arrives.
type CourierLocation struct {
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	LastUpdated *time.Time `json:"last_updated"`
}

type Order struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	CustomerID uint `json:"customer_id" gorm:"not null;index"`
	Customer   User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`

	DeliveryPersonID *uint `json:"delivery_person_id"`
	DeliveryPerson   *User `json:"delivery_person,omitempty" gorm:"foreignKey:DeliveryPersonID"`

	Status        OrderStatus   `json:"status" gorm:"not null;default:'Pending'"`
	TotalPrice    float64       `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"default:'cod'"`
	UPIID         string        `json:"upi_id,omitempty" gorm:"column:upi_id"`

	DeliveryLocation       DeliveryLocation `json:"delivery_location" gorm:"embedded;embeddedPrefix:delivery_"`
	DeliveryPersonLocation CourierLocation  `json:"delivery_person_location" gorm:"embedded;embeddedPrefix:courier_"`

	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`

	Items           []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	TrackingHistory []TrackingPoint      `json:"tracking_history,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory   []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a snapshot of a food item at order time, so later menu
// edits never alter historical orders.
type OrderItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"order_id" gorm:"not null;index"`
	FoodID   uint    `json:"food_id" gorm:"not null"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity" gorm:"not null"`
	Price    float64 `json:"price" gorm:"not null"`
	Image    string  `json:"image"`
}

// TrackingPoint is one appended GPS sample; rows are never updated or
// deleted, only appended.
type TrackingPoint struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusHistory tracks every status change for auditing.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
