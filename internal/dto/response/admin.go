package response

type AdminDashboardResponse struct {
	TotalUsers           int64              `json:"total_users"`
	TotalPharmacies      int64              `json:"total_pharmacies"`
	PendingVerifications int                `json:"pending_verifications"`
	TotalMedicines       int64              `json:"total_medicines"`
	TotalOrders          int64              `json:"total_orders"`
	MonthlyRevenue       float64            `json:"monthly_revenue"`
	PendingPharmacies    []PharmacyResponse `json:"pending_pharmacies"`
}
