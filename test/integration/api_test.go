package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/plate-calculator/internal/api"
	"github.com/eugenenazirov/plate-calculator/internal/plates"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	handler := api.NewHandler(plates.New(), store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestIntegrationFlow drives the API the way the calculator screen does: edit the bar,
// edit the target, step it, and resolve after every committed change.
func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	var bar struct {
		CommittedBar    float64 `json:"committedBar"`
		CommittedTarget float64 `json:"committedTarget"`
	}
	rec = performRequest(t, handler, http.MethodPost, "/api/commit/bar", map[string]any{
		"rawText": "150", "previousBar": 45, "previousTarget": 135,
	})
	if err := json.NewDecoder(rec.Body).Decode(&bar); err != nil {
		t.Fatalf("decode bar commit: %v", err)
	}
	if bar.CommittedBar != 150 || bar.CommittedTarget != 150 {
		t.Fatalf("expected bar raise to drag target up, got %+v", bar)
	}

	var target struct {
		CommittedValue float64 `json:"committedValue"`
	}
	rec = performRequest(t, handler, http.MethodPost, "/api/commit/target", map[string]any{
		"rawText": "abc", "barWeight": bar.CommittedBar, "previousTarget": bar.CommittedTarget,
	})
	if err := json.NewDecoder(rec.Body).Decode(&target); err != nil {
		t.Fatalf("decode target commit: %v", err)
	}
	if target.CommittedValue != 150 {
		t.Fatalf("expected non-numeric target to revert, got %v", target.CommittedValue)
	}

	var step struct {
		TargetWeight float64 `json:"targetWeight"`
	}
	rec = performRequest(t, handler, http.MethodPost, "/api/step", map[string]any{
		"direction": 1, "currentTarget": target.CommittedValue, "barWeight": bar.CommittedBar,
	})
	if err := json.NewDecoder(rec.Body).Decode(&step); err != nil {
		t.Fatalf("decode step: %v", err)
	}

	rec = performRequest(t, handler, http.MethodPost, "/api/resolve", map[string]any{
		"targetWeight": step.TargetWeight, "barWeight": bar.CommittedBar,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from resolve, got %d", rec.Code)
	}

	var response struct {
		Plates      []float64 `json:"plates"`
		TotalPlates int       `json:"totalPlates"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !slices.Equal(response.Plates, []float64{2.5}) || response.TotalPlates != 2 {
		t.Fatalf("unexpected loadout %+v", response)
	}
}
