package request

type VerifyPharmacyRequest struct {
	PharmacyID string `json:"pharmacy_id" validate:"required,uuid4"`
	Verified   *bool  `json:"verified" validate:"required"`
}
