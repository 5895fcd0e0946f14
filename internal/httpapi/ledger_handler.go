package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediameter/internal/config"
	"mediameter/internal/ledger"
	"mediameter/internal/middleware"
	"mediameter/internal/models"
	"mediameter/internal/pricing"
	"mediameter/internal/storage"
	"mediameter/internal/utils"
)

// LedgerHandler serves both the user-facing account endpoints
// (bootstrap, billing sync) and the pipeline endpoints
// (reserve, debit, release).
type LedgerHandler struct {
	ledger   *ledger.Service
	manifest *pricing.Manifest
	cfg      *config.Config
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(svc *ledger.Service, manifest *pricing.Manifest, cfg *config.Config) *LedgerHandler {
	return &LedgerHandler{ledger: svc, manifest: manifest, cfg: cfg}
}

type bootstrapRequest struct {
	// DesiredMin is a client hint; the server clamps it to the
	// configured bootstrap minimum, never above.
	DesiredMin int64 `json:"desired_min"`
}

// Bootstrap handles POST /v1/ledger/bootstrap
func (h *LedgerHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	desiredMin := h.cfg.Ledger.BootstrapMin
	var req bootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		if req.DesiredMin > 0 && req.DesiredMin < desiredMin {
			desiredMin = req.DesiredMin
		}
	}

	snap, err := h.ledger.Bootstrap(r.Context(), userID, desiredMin, h.manifest.Version)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to bootstrap account")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap)
}

// billingSyncResponse is the bootstrap snapshot plus plan identity.
type billingSyncResponse struct {
	models.Snapshot
	PlanID    string `json:"plan_id"`
	PlanLabel string `json:"plan_label"`
}

// BillingSync handles GET /v1/billing/sync
func (h *LedgerHandler) BillingSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	snap, err := h.ledger.Snapshot(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Account not bootstrapped")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}

	planID, planLabel := planFor(h.manifest, snap.BootstrapMin)
	utils.RespondWithJSON(w, http.StatusOK, billingSyncResponse{
		Snapshot:  snap,
		PlanID:    planID,
		PlanLabel: planLabel,
	})
}

// planFor maps a bootstrap minimum onto the largest pack it covers.
func planFor(m *pricing.Manifest, bootstrapMin int64) (string, string) {
	planID, planLabel := "free", "Free"
	for _, p := range m.Packs {
		if p.Tokens <= bootstrapMin {
			planID, planLabel = p.ID, p.Label
		}
	}
	return planID, planLabel
}

type reserveRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// Reserve handles POST /v1/ledger/reserve
func (h *LedgerHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "user_id and a positive amount are required")
		return
	}

	snap, err := h.ledger.Reserve(r.Context(), req.UserID, req.Amount)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap)
}

type debitRequest struct {
	UserID          string `json:"user_id"`
	Amount          int64  `json:"amount"`
	ReleaseReserved int64  `json:"release_reserved"`
	Service         string `json:"service"`
	RefType         string `json:"ref_type"`
	RefID           string `json:"ref_id"`
}

// Debit handles POST /v1/ledger/debit
func (h *LedgerHandler) Debit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req debitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "user_id and a positive amount are required")
		return
	}

	snap, err := h.ledger.Debit(r.Context(), req.UserID, req.Amount, req.ReleaseReserved,
		req.Service, req.RefType, req.RefID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap)
}

type releaseRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// Release handles POST /v1/ledger/release
func (h *LedgerHandler) Release(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req releaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "user_id and a positive amount are required")
		return
	}

	snap, err := h.ledger.Release(r.Context(), req.UserID, req.Amount)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, snap)
}

func (h *LedgerHandler) respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, "Insufficient media tokens")
	case errors.Is(err, storage.ErrAccountNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Ledger operation failed")
	}
}
