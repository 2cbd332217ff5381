package api

import (
	"time"

	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/prioritizer"
)

const topTaskIDs = 3

// publish emits the completion event for an analysis, plus a cycle event when
// the batch had circular dependencies. Failures are logged and counted only.
func (h *TasksHandler) publish(op string, a *prioritizer.Analysis) {
	if h.hermes == nil || a == nil {
		return
	}
	now := time.Now().UTC()
	id := a.ID.String()

	event := hermes.CompletedEvent{
		AnalysisID:   a.ID,
		Operation:    op,
		Strategy:     string(a.Strategy),
		TotalTasks:   a.Total,
		InvalidTasks: a.Invalid,
		Returned:     len(a.Tasks),
		Timestamp:    now,
	}
	for i := 0; i < len(a.Tasks) && i < topTaskIDs; i++ {
		if key := a.Tasks[i].Key(); !key.IsZero() {
			event.TopTaskIDs = append(event.TopTaskIDs, key.String())
		}
	}

	subject := hermes.SubjectAnalysisCompleted(id)
	if op == opSuggest {
		subject = hermes.SubjectSuggestionCompleted(id)
	}
	h.emit(subject, event)

	if len(a.Cycles) > 0 {
		h.emit(hermes.SubjectCycleDetected(id), hermes.CycleDetectedEvent{
			AnalysisID: a.ID,
			Cycles:     a.Cycles,
			Timestamp:  now,
		})
	}
}

func (h *TasksHandler) emit(subject string, event interface{}) {
	if err := h.hermes.Publish(subject, event); err != nil {
		h.logger.Warn("failed to publish event", "subject", subject, "error", err)
		if h.metrics != nil {
			h.metrics.PublishFailures.Inc()
		}
	}
}
