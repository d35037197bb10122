package adaptor

import (
	"net/http"
	"strings"

	"medroute/internal/usecase"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MedicineHandler struct {
	service usecase.SearchService
	log     *zap.Logger
}

func NewMedicineHandler(service usecase.SearchService, log *zap.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: service,
		log:     log,
	}
}

// Search handles GET /api/medicine/search?q=&location=&lat=&lng=
func (h *MedicineHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	location := r.URL.Query().Get("location")

	var lat, lng *float64
	if value, ok := utils.ParseCoordinate(r.URL.Query().Get("lat")); ok {
		lat = &value
	}
	if value, ok := utils.ParseCoordinate(r.URL.Query().Get("lng")); ok {
		lng = &value
	}

	// Optional identity: logged-in callers get their search recorded
	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	response, err := h.service.SearchMedicines(r.Context(), query, location, lat, lng, userID)
	if err != nil {
		h.handleServiceError(w, err, "search medicines")
		return
	}

	utils.ResponseSuccess(w, "Search complete", response)
}

// Detail handles GET /api/medicine/{id}
func (h *MedicineHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid medicine ID", nil)
		return
	}

	response, err := h.service.GetMedicine(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "load medicine")
		return
	}

	utils.ResponseSuccess(w, "Medicine loaded", response)
}

// Alternatives handles GET /api/medicine/alternatives?compound=
func (h *MedicineHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	compound := r.URL.Query().Get("compound")

	response, err := h.service.FindAlternatives(r.Context(), compound)
	if err != nil {
		h.handleServiceError(w, err, "find alternatives")
		return
	}

	utils.ResponseSuccess(w, "Alternatives resolved", response)
}

// Nearby handles GET /api/pharmacy/nearby?medicineId=&lat=&lng=
func (h *MedicineHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	medicineID, err := utils.ParseUUID(r.URL.Query().Get("medicineId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing medicineId", nil)
		return
	}

	var lat, lng *float64
	if value, ok := utils.ParseCoordinate(r.URL.Query().Get("lat")); ok {
		lat = &value
	}
	if value, ok := utils.ParseCoordinate(r.URL.Query().Get("lng")); ok {
		lng = &value
	}

	response, err := h.service.FindNearby(r.Context(), medicineID, lat, lng)
	if err != nil {
		h.handleServiceError(w, err, "find nearby pharmacies")
		return
	}

	utils.ResponseSuccess(w, "Nearby pharmacies resolved", response)
}

func (h *MedicineHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
