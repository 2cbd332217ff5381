package hermes

import (
	"time"

	"github.com/google/uuid"
)

// CompletedEvent is published after every successful analyze or suggest call.
type CompletedEvent struct {
	AnalysisID   uuid.UUID `json:"analysis_id"`
	Operation    string    `json:"operation"`
	Strategy     string    `json:"strategy"`
	TotalTasks   int       `json:"total_tasks"`
	InvalidTasks int       `json:"invalid_tasks"`
	Returned     int       `json:"returned"`
	TopTaskIDs   []string  `json:"top_task_ids,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type CycleDetectedEvent struct {
	AnalysisID uuid.UUID  `json:"analysis_id"`
	Cycles     [][]string `json:"cycles"`
	Timestamp  time.Time  `json:"timestamp"`
}
