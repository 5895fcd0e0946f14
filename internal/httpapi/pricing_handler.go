package httpapi

import (
	"net/http"

	"mediameter/internal/pricing"
	"mediameter/internal/utils"
)

// PricingHandler serves the pricing manifest export.
type PricingHandler struct {
	manifest *pricing.Manifest
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(manifest *pricing.Manifest) *PricingHandler {
	return &PricingHandler{manifest: manifest}
}

// Manifest handles GET /v1/pricing/manifest
func (h *PricingHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.manifest.Export())
}
