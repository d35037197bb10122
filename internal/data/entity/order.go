package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type DeliveryAddress struct {
	Address string `db:"delivery_address"`
	City    string `db:"delivery_city"`
	Pincode string `db:"delivery_pincode"`
	Phone   string `db:"delivery_phone"`
}

type DeliveryPartner struct {
	Name          string `db:"partner_name"`
	Phone         string `db:"partner_phone"`
	VehicleNumber string `db:"partner_vehicle"`
}

type Order struct {
	Base
	UserID            uuid.UUID        `db:"user_id"`
	Items             []OrderItem      `db:"-"`
	Total             float64          `db:"total"`
	PaymentMethod     string           `db:"payment_method"`
	PaymentStatus     PaymentStatus    `db:"payment_status"`
	Status            OrderStatus      `db:"status"`
	TrackingCode      string           `db:"tracking_code"`
	DeliveryAddress   DeliveryAddress  `db:"-"`
	Partner           *DeliveryPartner `db:"-"`
	EstimatedDelivery *time.Time       `db:"estimated_delivery"`
	ActualDelivery    *time.Time       `db:"actual_delivery"`
}

type OrderItem struct {
	ID           uuid.UUID `db:"id"`
	OrderID      uuid.UUID `db:"order_id"`
	MedicineID   uuid.UUID `db:"medicine_id"`
	PharmacyID   uuid.UUID `db:"pharmacy_id"`
	MedicineName string    `db:"medicine_name"`
	PharmacyName string    `db:"pharmacy_name"`
	Quantity     int       `db:"quantity"`
	Price        float64   `db:"price"`
}

// nextStatuses encodes the forward-only lifecycle. Cancel is allowed from
// any non-terminal state.
var nextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from its current status
// to the target one.
func (o *Order) CanTransition(target OrderStatus) bool {
	for _, allowed := range nextStatuses[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order reached a final state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}
