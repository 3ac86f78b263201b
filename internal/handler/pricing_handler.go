package handler

import (
	"net/http"

	"field-kart/internal/model"
	"field-kart/internal/service"

	"github.com/rs/zerolog"
)

// PricingHandler handles quote and scheme-lookup HTTP requests.
type PricingHandler struct {
	service service.PricingService
	logger  zerolog.Logger
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(service service.PricingService, logger zerolog.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		logger:  logger.With().Str("handler", "pricing").Logger(),
	}
}

// Quote handles POST /api/pricing/quote requests. It prices the cart without
// creating an order.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.QuoteRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, "failed to price cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// ApplicableSchemes handles POST /api/pricing/schemes requests. It returns
// the active promotions matching the cart without computing discounts.
func (h *PricingHandler) ApplicableSchemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.QuoteRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	schemes, err := h.service.ApplicableSchemes(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, "failed to match schemes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, schemes)
}
