package rest

import (
	"errors"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// APIHandler - JSON API без состояния: сетка по номеру страницы и карточка объявления.
type APIHandler struct {
	listingUC usecases_port.GetListingPageUseCasePort
	detailsUC usecases_port.GetPropertyDetailsUseCasePort
}

func NewAPIHandler(listingUC usecases_port.GetListingPageUseCasePort, detailsUC usecases_port.GetPropertyDetailsUseCasePort) *APIHandler {
	return &APIHandler{
		listingUC: listingUC,
		detailsUC: detailsUC,
	}
}

// GetListingPage обрабатывает GET /api/v1/listings?page=N
func (h *APIHandler) GetListingPage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListingPage"})

	page, _, err := GetPageOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid 'page' parameter")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"page": page})
	handlerLogger.Info("Processing request to get listing page", nil)

	listingPage, err := h.listingUC.Execute(r.Context(), page)
	if err != nil {
		handlerLogger.Error("Get listing page use case failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Failed to retrieve listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingPageResponse(listingPage))
}

// GetProperty обрабатывает GET /api/v1/properties/{id}
func (h *APIHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "GetProperty",
		"property_id": id,
	})
	handlerLogger.Info("Processing request to get property", nil)

	record, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		handlerLogger.Error("Get property details use case failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Failed to retrieve property")
		return
	}

	RespondWithJSON(w, http.StatusOK, toDetailResponse(record))
}

// Health обрабатывает GET /healthz
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
