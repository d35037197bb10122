package request

type OrderItemRequest struct {
	MedicineID string `json:"medicine_id" validate:"required,uuid4"`
	PharmacyID string `json:"pharmacy_id" validate:"required,uuid4"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type DeliveryAddressRequest struct {
	Address string `json:"address" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,min=4,max=10"`
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
}

type ProcessPaymentRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=card upi netbanking cod"`
	DeliveryAddress DeliveryAddressRequest `json:"delivery_address" validate:"required"`
}

type DeliveryPartnerRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,min=10,max=15"`
	VehicleNumber string `json:"vehicle_number" validate:"required,max=20"`
}

type UpdateOrderStatusRequest struct {
	Status  string                  `json:"status" validate:"required,oneof=confirmed preparing out-for-delivery delivered cancelled"`
	Partner *DeliveryPartnerRequest `json:"partner,omitempty" validate:"omitempty"`
}

type EmergencyDeliveryRequest struct {
	MedicineName string  `json:"medicine_name" validate:"required,max=150"`
	Address      string  `json:"address" validate:"required,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	Phone        string  `json:"phone" validate:"required,min=10,max=15"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
