package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"medroute/internal/dto/request"
	"medroute/internal/usecase"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PharmacyHandler struct {
	service usecase.PharmacyService
	config  *utils.Config
	log     *zap.Logger
}

func NewPharmacyHandler(service usecase.PharmacyService, config *utils.Config, log *zap.Logger) *PharmacyHandler {
	return &PharmacyHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// Register handles POST /api/pharmacy/register
func (h *PharmacyHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPharmacyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "register pharmacy")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.JWT.CookieName,
		Value:    response.Token,
		Path:     "/",
		Expires:  response.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.ResponseCreated(w, "Pharmacy registered, verification pending", response)
}

// AddStock handles POST /api/pharmacy/stock
func (h *PharmacyHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AddStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.AddStock(r.Context(), pharmacyID, &req)
	if err != nil {
		h.handleServiceError(w, err, "add stock")
		return
	}

	utils.ResponseCreated(w, "Stock added", response)
}

// UpdateStock handles PUT /api/pharmacy/stock/{medicineId}
func (h *PharmacyHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	medicineID, err := utils.ParseUUID(chi.URLParam(r, "medicineId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid medicine ID", nil)
		return
	}

	var req request.UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.UpdateStock(r.Context(), pharmacyID, medicineID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update stock")
		return
	}

	utils.ResponseSuccess(w, "Stock updated", response)
}

// Dashboard handles GET /api/pharmacy/dashboard
func (h *PharmacyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	response, err := h.service.Dashboard(r.Context(), pharmacyID)
	if err != nil {
		h.handleServiceError(w, err, "load dashboard")
		return
	}

	utils.ResponseSuccess(w, "Dashboard loaded", response)
}

func (h *PharmacyHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "already registered"):
		h.log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, err)

	case strings.Contains(errMsg, "not verified"):
		h.log.Warn(operation+" failed - pharmacy unverified", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, err)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
