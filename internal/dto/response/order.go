package response

import (
	"time"

	"medroute/internal/data/entity"
)

type OrderItemResponse struct {
	MedicineID   string  `json:"medicine_id"`
	PharmacyID   string  `json:"pharmacy_id"`
	MedicineName string  `json:"medicine_name"`
	PharmacyName string  `json:"pharmacy_name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

type DeliveryAddressResponse struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

type DeliveryPartnerResponse struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	VehicleNumber string `json:"vehicle_number"`
}

type OrderResponse struct {
	ID                string                   `json:"id"`
	UserID            string                   `json:"user_id"`
	Items             []OrderItemResponse      `json:"items"`
	Total             float64                  `json:"total"`
	PaymentMethod     string                   `json:"payment_method"`
	PaymentStatus     entity.PaymentStatus     `json:"payment_status"`
	Status            entity.OrderStatus       `json:"status"`
	TrackingCode      string                   `json:"tracking_code"`
	DeliveryAddress   DeliveryAddressResponse  `json:"delivery_address"`
	Partner           *DeliveryPartnerResponse `json:"partner,omitempty"`
	EstimatedDelivery *time.Time               `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time               `json:"actual_delivery,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
}

type PaymentResultResponse struct {
	OrderID           string               `json:"order_id"`
	TrackingCode      string               `json:"tracking_code"`
	TransactionID     string               `json:"transaction_id"`
	PaymentStatus     entity.PaymentStatus `json:"payment_status"`
	Total             float64              `json:"total"`
	EstimatedDelivery *time.Time           `json:"estimated_delivery,omitempty"`
}

// TrackingEventResponse is one step of the derived order timeline.
type TrackingEventResponse struct {
	Status entity.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Done   bool               `json:"done"`
	At     *time.Time         `json:"at,omitempty"`
}

type TrackingResponse struct {
	Order    OrderResponse           `json:"order"`
	Timeline []TrackingEventResponse `json:"timeline"`
}

type EmergencyDeliveryResponse struct {
	RequestID    string    `json:"request_id"`
	MedicineName string    `json:"medicine_name"`
	Status       string    `json:"status"`
	ETA          time.Time `json:"eta"`
}

// Helper converters
func OrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			MedicineID:   item.MedicineID.String(),
			PharmacyID:   item.PharmacyID.String(),
			MedicineName: item.MedicineName,
			PharmacyName: item.PharmacyName,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
	}

	resp := OrderResponse{
		ID:            order.ID.String(),
		UserID:        order.UserID.String(),
		Items:         items,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Status:        order.Status,
		TrackingCode:  order.TrackingCode,
		DeliveryAddress: DeliveryAddressResponse{
			Address: order.DeliveryAddress.Address,
			City:    order.DeliveryAddress.City,
			Pincode: order.DeliveryAddress.Pincode,
			Phone:   order.DeliveryAddress.Phone,
		},
		EstimatedDelivery: order.EstimatedDelivery,
		ActualDelivery:    order.ActualDelivery,
		CreatedAt:         order.CreatedAt,
	}

	if order.Partner != nil {
		resp.Partner = &DeliveryPartnerResponse{
			Name:          order.Partner.Name,
			Phone:         order.Partner.Phone,
			VehicleNumber: order.Partner.VehicleNumber,
		}
	}

	return resp
}

func OrdersToResponse(orders []*entity.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, OrderToResponse(order))
	}
	return responses
}
