package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/plates"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
	"github.com/eugenenazirov/plate-calculator/internal/validator"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultBarWeight       = 45.0
	defaultMaxTargetWeight = 2000.0
)

// Handler wires the plate resolver and plate storage into HTTP handlers.
type Handler struct {
	resolver plates.Resolver
	storage  storage.Storage

	barWeight       float64
	maxTargetWeight float64

	clock  func() time.Time
	logger *zap.Logger

	mu              sync.RWMutex
	platesUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithLogger sets the logger used for plate events. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithBarWeight sets the bar weight used when a resolve request omits one.
func WithBarWeight(weight float64) HandlerOption {
	return func(h *Handler) {
		if weight > 0 {
			h.barWeight = weight
		}
	}
}

// WithMaxTargetWeight caps the target weight accepted by the resolve endpoint.
func WithMaxTargetWeight(weight float64) HandlerOption {
	return func(h *Handler) {
		if weight > 0 {
			h.maxTargetWeight = weight
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(resolver plates.Resolver, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		resolver:        resolver,
		storage:         store,
		barWeight:       defaultBarWeight,
		maxTargetWeight: defaultMaxTargetWeight,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.platesUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPlates(w http.ResponseWriter, r *http.Request) {
	_ = r
	denominations, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := platesResponse{
		Plates:    denominations,
		UpdatedAt: h.currentPlatesUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutPlates(w http.ResponseWriter, r *http.Request) {
	var req platesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Plates) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid plates", "plates must contain at least one weight")
		return
	}

	if err := h.storage.SetDenominations(req.Plates); err != nil {
		if errors.Is(err, storage.ErrInvalidDenominations) {
			h.logger.Info("plate set rejected",
				zap.Float64s("plates", req.Plates),
				zap.String("request_id", requestIDFromContext(r.Context())),
			)
			writeError(w, http.StatusBadRequest, "Invalid plates", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markPlatesUpdated()

	denominations, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := platesResponse{
		Plates:    denominations,
		UpdatedAt: h.currentPlatesUpdatedAt(),
		Message:   "Plates updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.TargetWeight == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "targetWeight is required")
		return
	}

	bar := h.barWeight
	if req.BarWeight != nil {
		bar = *req.BarWeight
	}
	if bar <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "barWeight must be positive")
		return
	}

	target := *req.TargetWeight
	if target > h.maxTargetWeight {
		suggestion := fmt.Sprintf("Use a target weight of at most %s", validator.FormatWeight(h.maxTargetWeight))
		writeError(w, http.StatusBadRequest, "Invalid request", "targetWeight exceeds the supported maximum", suggestion)
		return
	}

	denominations, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	if !plates.FitsCapacity(target, bar, denominations) {
		suggestion := fmt.Sprintf("Use heavier plates or a lower target; at most %d plates fit on one side", plates.MaxPlatesPerSide)
		writeError(w, http.StatusBadRequest, "Invalid request", "loadout needs too many plates per side", suggestion)
		return
	}

	loadout := plates.Summarize(target, bar, h.resolver.Resolve(target, bar, denominations))
	h.logger.Debug("plates resolved",
		zap.Float64("target_weight", target),
		zap.Float64("bar_weight", bar),
		zap.Int("plates_per_side", loadout.PlatesPerSide),
		zap.Float64("leftover_per_side", loadout.LeftoverPerSide),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	groups := make([]plateGroup, 0, len(loadout.Plates))
	for _, g := range plates.GroupRuns(loadout.Plates) {
		groups = append(groups, plateGroup{Weight: g.Weight, Count: g.Count})
	}

	resp := resolveResponse{
		TargetWeight:    loadout.TargetWeight,
		BarWeight:       loadout.BarWeight,
		PerSide:         loadout.PerSide,
		Plates:          loadout.Plates,
		Groups:          groups,
		LoadedPerSide:   loadout.LoadedPerSide,
		LeftoverPerSide: loadout.LeftoverPerSide,
		PlatesPerSide:   loadout.PlatesPerSide,
		TotalPlates:     loadout.TotalPlates,
		AchievedWeight:  loadout.AchievedWeight,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCommitTarget(w http.ResponseWriter, r *http.Request) {
	var req commitTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.BarWeight <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "barWeight must be positive")
		return
	}

	res := validator.CommitTargetWeight(req.RawText, req.BarWeight, req.PreviousTarget)
	writeJSON(w, http.StatusOK, commitTargetResponse{
		CommittedValue: res.CommittedValue,
		DisplayText:    res.DisplayText,
	})
}

func (h *Handler) handleCommitBar(w http.ResponseWriter, r *http.Request) {
	var req commitBarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.PreviousBar <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "previousBar must be positive")
		return
	}

	res := validator.CommitBarWeight(req.RawText, req.PreviousBar, req.PreviousTarget)
	writeJSON(w, http.StatusOK, commitBarResponse{
		CommittedBar:      res.CommittedBar,
		CommittedTarget:   res.CommittedTarget,
		BarDisplayText:    res.BarDisplayText,
		TargetDisplayText: res.TargetDisplayText,
	})
}

func (h *Handler) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	direction := validator.Direction(req.Direction)
	if !direction.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid request", "direction must be 1 or -1")
		return
	}
	if req.BarWeight <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "barWeight must be positive")
		return
	}

	target := validator.Step(direction, req.CurrentTarget, req.BarWeight)
	writeJSON(w, http.StatusOK, stepResponse{
		TargetWeight: target,
		DisplayText:  validator.FormatWeight(target),
	})
}

func (h *Handler) currentPlatesUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.platesUpdatedAt
}

func (h *Handler) markPlatesUpdated() {
	h.mu.Lock()
	h.platesUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type platesRequest struct {
	Plates []float64 `json:"plates"`
}

type platesResponse struct {
	Plates    []float64 `json:"plates"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message,omitempty"`
}

type resolveRequest struct {
	TargetWeight *float64 `json:"targetWeight"`
	BarWeight    *float64 `json:"barWeight"`
}

type plateGroup struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type resolveResponse struct {
	TargetWeight    float64      `json:"targetWeight"`
	BarWeight       float64      `json:"barWeight"`
	PerSide         float64      `json:"perSide"`
	Plates          []float64    `json:"plates"`
	Groups          []plateGroup `json:"groups"`
	LoadedPerSide   float64      `json:"loadedPerSide"`
	LeftoverPerSide float64      `json:"leftoverPerSide"`
	PlatesPerSide   int          `json:"platesPerSide"`
	TotalPlates     int          `json:"totalPlates"`
	AchievedWeight  float64      `json:"achievedWeight"`
}

type commitTargetRequest struct {
	RawText        string  `json:"rawText"`
	BarWeight      float64 `json:"barWeight"`
	PreviousTarget float64 `json:"previousTarget"`
}

type commitTargetResponse struct {
	CommittedValue float64 `json:"committedValue"`
	DisplayText    string  `json:"displayText"`
}

type commitBarRequest struct {
	RawText        string  `json:"rawText"`
	PreviousBar    float64 `json:"previousBar"`
	PreviousTarget float64 `json:"previousTarget"`
}

type commitBarResponse struct {
	CommittedBar      float64 `json:"committedBar"`
	CommittedTarget   float64 `json:"committedTarget"`
	BarDisplayText    string  `json:"barDisplayText"`
	TargetDisplayText string  `json:"targetDisplayText"`
}

type stepRequest struct {
	Direction     int     `json:"direction"`
	CurrentTarget float64 `json:"currentTarget"`
	BarWeight     float64 `json:"barWeight"`
}

type stepResponse struct {
	TargetWeight float64 `json:"targetWeight"`
	DisplayText  string  `json:"displayText"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
