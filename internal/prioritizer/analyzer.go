// Package prioritizer scores a batch of tasks, sorts them and picks the ones
// to work on next. Every call is a pure function of its inputs and the date
// passed in as today.
package prioritizer

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Triage/internal/depgraph"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
	"github.com/MikeSquared-Agency/Triage/internal/task"
)

var (
	ErrNoTasks       = errors.New("no tasks provided")
	ErrNotAList      = errors.New("tasks must be a list")
	ErrMalformedTask = errors.New("malformed task")
	ErrDuplicateID   = errors.New("duplicate task id")
)

// DefaultSuggestionCount is how many tasks Suggest returns unless configured.
const DefaultSuggestionCount = 3

// ScoredTask is a task as received plus its scoring output.
type ScoredTask struct {
	task.Input
	PriorityScore      float64           `json:"priority_score"`
	PriorityLevel      scoring.Level     `json:"priority_level"`
	Explanation        string            `json:"explanation"`
	Breakdown          scoring.Breakdown `json:"breakdown"`
	CircularDependency bool              `json:"circular_dependency,omitempty"`
	ValidationError    string            `json:"validation_error,omitempty"`
}

// Analysis is the annotated, sorted result of one batch.
type Analysis struct {
	ID       uuid.UUID
	Strategy scoring.Strategy
	Tasks    []ScoredTask
	Total    int
	Invalid  int
	Cycles   [][]string
	Warning  string
}

// Analyzer orchestrates validation, cycle detection, scoring and ranking.
type Analyzer struct {
	scorer          *scoring.Scorer
	suggestionCount int
	logger          *slog.Logger
}

// New creates an Analyzer. A non-positive suggestionCount uses the default.
func New(scorer *scoring.Scorer, suggestionCount int, logger *slog.Logger) *Analyzer {
	if suggestionCount <= 0 {
		suggestionCount = DefaultSuggestionCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{scorer: scorer, suggestionCount: suggestionCount, logger: logger}
}

// Scorer returns the scorer used by the analyzer.
func (a *Analyzer) Scorer() *scoring.Scorer { return a.scorer }

// Analyze scores every task and returns them sorted by descending score.
// Equal scores keep their input order. Invalid tasks are kept with a zero
// score; a circular dependency only produces a warning.
func (a *Analyzer) Analyze(inputs []task.Input, strategy string, today time.Time) (*Analysis, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTasks
	}
	return a.run(inputs, strategy, today)
}

// Suggest is Analyze truncated to the top tasks. An empty batch yields an
// empty suggestion list rather than an error.
func (a *Analyzer) Suggest(inputs []task.Input, strategy string, today time.Time) (*Analysis, error) {
	if len(inputs) == 0 {
		return &Analysis{
			ID:       uuid.New(),
			Strategy: a.scorer.Resolve(strategy),
			Tasks:    []ScoredTask{},
		}, nil
	}
	analysis, err := a.run(inputs, strategy, today)
	if err != nil {
		return nil, err
	}
	if len(analysis.Tasks) > a.suggestionCount {
		analysis.Tasks = analysis.Tasks[:a.suggestionCount]
	}
	return analysis, nil
}

func (a *Analyzer) run(inputs []task.Input, strategy string, today time.Time) (*Analysis, error) {
	if err := checkUniqueIDs(inputs); err != nil {
		return nil, err
	}

	resolved := a.scorer.Resolve(strategy)

	nodes := make([]depgraph.Node, len(inputs))
	for i, in := range inputs {
		nodes[i].Key = in.Key().Key
		deps, _ := in.DependencyKeys()
		for _, d := range deps {
			nodes[i].Dependencies = append(nodes[i].Dependencies, d.Key)
		}
	}
	graph := depgraph.New(nodes)
	report := graph.DetectCycles()

	analysis := &Analysis{
		ID:       uuid.New(),
		Strategy: resolved,
		Tasks:    make([]ScoredTask, len(inputs)),
		Total:    len(inputs),
		Cycles:   report.Cycles,
	}
	if report.HasCycles() {
		analysis.Warning = "Circular dependencies detected: " + report.String()
		a.logger.Warn("circular dependencies detected",
			"analysis_id", analysis.ID,
			"cycles", report.String(),
		)
	}

	for i, in := range inputs {
		st := ScoredTask{Input: in, CircularDependency: report.Circular[i]}

		t, err := in.Parse()
		var result scoring.Result
		if err != nil {
			result = scoring.InvalidResult()
			st.ValidationError = err.Error()
			analysis.Invalid++
		} else {
			result = a.scorer.Score(scoring.Input{
				Task:       t,
				Today:      today,
				Dependents: graph.Dependents(i),
				Circular:   report.Circular[i],
			}, resolved)
		}

		st.PriorityScore = result.Score
		st.PriorityLevel = result.Level
		st.Explanation = result.Explanation
		st.Breakdown = result.Breakdown
		analysis.Tasks[i] = st
	}

	sort.SliceStable(analysis.Tasks, func(i, j int) bool {
		return analysis.Tasks[i].PriorityScore > analysis.Tasks[j].PriorityScore
	})

	a.logger.Debug("batch analyzed",
		"analysis_id", analysis.ID,
		"strategy", resolved,
		"tasks", analysis.Total,
		"invalid", analysis.Invalid,
	)
	return analysis, nil
}

func checkUniqueIDs(inputs []task.Input) error {
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		key := in.Key().Key
		if key == "" {
			continue
		}
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, key)
		}
		seen[key] = true
	}
	return nil
}
