package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediameter/internal/estimate"
	"mediameter/internal/ledger"
	"mediameter/internal/middleware"
	"mediameter/internal/utils"
)

// EstimateHandler prices runs on demand. Estimates never mutate the
// ledger; a served estimate is recorded as a usage event only.
type EstimateHandler struct {
	estimator *estimate.Estimator
	ledger    *ledger.Service
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimator *estimate.Estimator, svc *ledger.Service) *EstimateHandler {
	return &EstimateHandler{estimator: estimator, ledger: svc}
}

// contentPayload is the tagged wire form of estimate content.
type contentPayload struct {
	Type     string             `json:"type"` // "text", "segments", "subtitle"
	Text     string             `json:"text,omitempty"`
	Segments []estimate.Segment `json:"segments,omitempty"`
	Document string             `json:"document,omitempty"`
}

// toContent maps the tagged payload onto the concrete content type.
// Unknown or empty tags yield nil, which falls through to the duration
// fallback.
func (p *contentPayload) toContent() estimate.Content {
	if p == nil {
		return nil
	}
	switch p.Type {
	case "text":
		return estimate.Text(p.Text)
	case "segments":
		return estimate.Segments(p.Segments)
	case "subtitle":
		return estimate.SubtitleDoc(p.Document)
	default:
		return nil
	}
}

type estimateItemPayload struct {
	DurationSeconds float64 `json:"duration_seconds"`
	ModelID         string  `json:"model_id,omitempty"`
}

type estimateRequest struct {
	Service         string                `json:"service"`
	Items           []estimateItemPayload `json:"items,omitempty"`
	DefaultModelID  string                `json:"default_model_id,omitempty"`
	DurationSeconds float64               `json:"duration_seconds,omitempty"`
	TargetCount     int                   `json:"target_count,omitempty"`
	Content         *contentPayload       `json:"content,omitempty"`
	RefID           string                `json:"ref_id,omitempty"`
}

type estimateResponse struct {
	Status   string                  `json:"status"` // "ok" or "unknown"
	Estimate *estimate.UsageEstimate `json:"estimate,omitempty"`
}

// Estimate handles POST /v1/estimate. A request with no resolvable
// input answers "unknown" with 200; missing input is an expected state
// before upload probing completes, not a client error.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var result estimate.UsageEstimate
	var estErr error

	switch estimate.Service(req.Service) {
	case estimate.ServiceTranscription:
		items := make([]estimate.TranscriptionItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, estimate.TranscriptionItem{
				DurationSeconds: it.DurationSeconds,
				ModelID:         it.ModelID,
			})
		}
		result = h.estimator.TranscriptionRun(items, req.DefaultModelID)

	case estimate.ServiceTranslation:
		targetCount := req.TargetCount
		if targetCount <= 0 {
			targetCount = 1
		}
		result, estErr = h.estimator.TranslationRun(req.Content.toContent(), req.DurationSeconds, targetCount)

	case estimate.ServiceSummarization:
		result, estErr = h.estimator.SummarizationRun(req.Content.toContent(), req.DurationSeconds)

	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown service")
		return
	}

	if estErr != nil {
		if errors.Is(estErr, estimate.ErrEstimationUnavailable) {
			utils.RespondWithJSON(w, http.StatusOK, estimateResponse{Status: "unknown"})
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Estimation failed")
		return
	}

	h.ledger.RecordEstimate(r.Context(), userID, req.Service,
		result.BillableUnits, result.MediaTokens, "estimate", req.RefID)

	utils.RespondWithJSON(w, http.StatusOK, estimateResponse{Status: "ok", Estimate: &result})
}
