package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/prioritizer"
)

const (
	opAnalyze = "analyze"
	opSuggest = "suggest"

	maxBodyBytes = 4 << 20
)

// TasksHandler serves analyze and suggest over HTTP and, through RegisterRPC,
// over hermes request/reply. Both transports share process.
type TasksHandler struct {
	analyzer *prioritizer.Analyzer
	hermes   hermes.Client
	metrics  *Metrics
	now      func() time.Time
	logger   *slog.Logger
}

// NewTasksHandler creates a handler. h and m may be nil.
func NewTasksHandler(a *prioritizer.Analyzer, h hermes.Client, m *Metrics, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{analyzer: a, hermes: h, metrics: m, now: time.Now, logger: logger}
}

func (h *TasksHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, opAnalyze)
}

func (h *TasksHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, opSuggest)
}

func (h *TasksHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	scorer := h.analyzer.Scorer()
	th := scorer.Thresholds()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": scorer.Catalogue(),
		"thresholds": map[string]float64{
			"critical": th.Critical,
			"high":     th.High,
			"medium":   th.Medium,
		},
	})
}

func (h *TasksHandler) serve(w http.ResponseWriter, r *http.Request, op string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.observe(op, "http", http.StatusBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	status, payload := h.process(op, body)
	h.observe(op, "http", status)
	writeJSON(w, status, payload)
}

// process runs one operation on a raw request body and returns the status
// and response document.
func (h *TasksHandler) process(op string, body []byte) (int, interface{}) {
	start := time.Now()
	req, err := prioritizer.DecodeRequest(body)
	if err != nil {
		return http.StatusBadRequest, map[string]string{"error": "invalid request body"}
	}

	var (
		resp     interface{}
		analysis *prioritizer.Analysis
	)
	switch op {
	case opSuggest:
		resp, analysis, err = h.analyzer.HandleSuggest(req, h.now())
	default:
		resp, analysis, err = h.analyzer.HandleAnalyze(req, h.now())
	}
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("scoring failed", "operation", op, "error", err)
			return status, map[string]string{"error": "internal error"}
		}
		return status, map[string]string{"error": err.Error()}
	}

	if h.metrics != nil {
		h.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		h.metrics.TasksScored.WithLabelValues(string(analysis.Strategy)).Add(float64(analysis.Total))
		h.metrics.InvalidTasks.Add(float64(analysis.Invalid))
		if len(analysis.Cycles) > 0 {
			h.metrics.CyclesDetected.Inc()
		}
	}
	h.publish(op, analysis)
	return http.StatusOK, resp
}

func (h *TasksHandler) observe(op, transport string, status int) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case status >= 500:
		outcome = "error"
	case status >= 400:
		outcome = "rejected"
	}
	h.metrics.Requests.WithLabelValues(op, transport, outcome).Inc()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, prioritizer.ErrNoTasks),
		errors.Is(err, prioritizer.ErrNotAList),
		errors.Is(err, prioritizer.ErrMalformedTask),
		errors.Is(err, prioritizer.ErrDuplicateID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
