package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"medroute/internal/dto/request"
	"medroute/internal/usecase"
	"medroute/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

// VerifyPharmacy handles POST /api/admin/verify-pharmacy
func (h *AdminHandler) VerifyPharmacy(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyPharmacyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.VerifyPharmacy(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "verify pharmacy")
		return
	}

	utils.ResponseSuccess(w, "Pharmacy verification updated", response)
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "load dashboard")
		return
	}

	utils.ResponseSuccess(w, "Dashboard loaded", response)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, err)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
