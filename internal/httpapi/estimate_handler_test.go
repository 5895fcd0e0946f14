package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediameter/internal/estimate"
	"mediameter/internal/ledger"
	"mediameter/internal/middleware"
	"mediameter/internal/pricing"
)

func newEstimateHandler() *EstimateHandler {
	// No repository, cache, or usage recorder: estimates touch none of
	// them in these tests.
	svc := ledger.NewService(nil, nil, nil)
	return NewEstimateHandler(estimate.New(pricing.Default()), svc)
}

func doEstimate(t *testing.T, h *EstimateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "user-1"))
	rr := httptest.NewRecorder()
	h.Estimate(rr, req)
	return rr
}

func TestEstimateHandler_Transcription(t *testing.T) {
	h := newEstimateHandler()

	rr := doEstimate(t, h, `{
		"service": "transcription",
		"default_model_id": "scribe-standard",
		"items": [
			{"duration_seconds": 125, "model_id": "scribe-standard"},
			{"duration_seconds": 60}
		]
	}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp estimateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Estimate)
	assert.Equal(t, int64(83), resp.Estimate.BillableUnits)
	assert.Equal(t, int64(5), resp.Estimate.MediaTokens)
}

func TestEstimateHandler_TranslationWithContent(t *testing.T) {
	h := newEstimateHandler()

	rr := doEstimate(t, h, `{
		"service": "translation",
		"target_count": 2,
		"content": {"type": "text", "text": "hello world"}
	}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp estimateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Estimate)
	assert.Positive(t, resp.Estimate.BillableUnits)
	assert.Equal(t, int64(2), resp.Estimate.Breakdown["targets"])
}

func TestEstimateHandler_DurationFallback(t *testing.T) {
	h := newEstimateHandler()

	rr := doEstimate(t, h, `{
		"service": "summarization",
		"duration_seconds": 60
	}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp estimateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Estimate)
	assert.Equal(t, int64(900), resp.Estimate.Breakdown["synthetic_chars"])
}

// A run with no duration and no content is answered "unknown" with
// 200, never a 4xx: the caller may simply not have probed the upload
// yet.
func TestEstimateHandler_NoInputIsUnknown(t *testing.T) {
	h := newEstimateHandler()

	rr := doEstimate(t, h, `{"service": "translation", "target_count": 2}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp estimateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "unknown", resp.Status)
	assert.Nil(t, resp.Estimate)
}

func TestEstimateHandler_UnknownService(t *testing.T) {
	h := newEstimateHandler()

	rr := doEstimate(t, h, `{"service": "mastering"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEstimateHandler_RejectsWrongMethod(t *testing.T) {
	h := newEstimateHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/estimate", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "user-1"))
	rr := httptest.NewRecorder()
	h.Estimate(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestEstimateHandler_RequiresIdentity(t *testing.T) {
	h := newEstimateHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.Estimate(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
