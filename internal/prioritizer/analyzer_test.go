package prioritizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
	"github.com/MikeSquared-Agency/Triage/internal/task"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func newTestAnalyzer() *Analyzer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(scoring.NewScorer(scoring.DefaultStrategies(), scoring.DefaultThresholds(), logger), 0, logger)
}

func date(days int) string {
	return today.AddDate(0, 0, days).Format(task.DateLayout)
}

func inputs(t *testing.T, bodies ...string) []task.Input {
	t.Helper()
	out := make([]task.Input, len(bodies))
	for i, b := range bodies {
		require.NoError(t, json.Unmarshal([]byte(b), &out[i]))
	}
	return out
}

func taskJSON(id any, title string, days int, hours float64, importance int, deps ...any) string {
	depJSON, _ := json.Marshal(deps)
	if deps == nil {
		depJSON = []byte("[]")
	}
	idJSON, _ := json.Marshal(id)
	return fmt.Sprintf(`{"id":%s,"title":%q,"due_date":%q,"estimated_hours":%v,"importance":%d,"dependencies":%s}`,
		idJSON, title, date(days), hours, importance, depJSON)
}

func titles(tasks []ScoredTask) []string {
	out := make([]string, len(tasks))
	for i, st := range tasks {
		var s string
		_ = json.Unmarshal(st.Title, &s)
		out[i] = s
	}
	return out
}

func TestAnalyzeSortsDescending(t *testing.T) {
	a := newTestAnalyzer()
	batch := inputs(t,
		taskJSON(1, "Low Priority", 30, 10, 2),
		taskJSON(2, "High Priority", 0, 1, 10),
		taskJSON(3, "Medium Priority", 7, 5, 5),
	)

	analysis, err := a.Analyze(batch, "smart_balance", today)
	require.NoError(t, err)

	require.Len(t, analysis.Tasks, 3)
	assert.Equal(t, []string{"High Priority", "Medium Priority", "Low Priority"}, titles(analysis.Tasks))
	assert.GreaterOrEqual(t, analysis.Tasks[0].PriorityScore, analysis.Tasks[1].PriorityScore)
	assert.GreaterOrEqual(t, analysis.Tasks[1].PriorityScore, analysis.Tasks[2].PriorityScore)
	assert.Equal(t, scoring.SmartBalance, analysis.Strategy)
	assert.Empty(t, analysis.Warning)
}

func TestAnalyzeStableForEqualScores(t *testing.T) {
	a := newTestAnalyzer()
	batch := inputs(t,
		taskJSON("a", "first", 5, 3, 5),
		taskJSON("b", "second", 5, 3, 5),
		taskJSON("c", "third", 5, 3, 5),
	)

	analysis, err := a.Analyze(batch, "", today)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, titles(analysis.Tasks))
}

func TestAnalyzeKeepsInvalidTasks(t *testing.T) {
	a := newTestAnalyzer()
	batch := inputs(t,
		taskJSON(1, "Good", 1, 2, 6),
		`{"id":2,"title":"Too important","due_date":"2026-10-20","estimated_hours":1,"importance":11}`,
		`{"title":"Invalid Task","due_date":"invalid-date","estimated_hours":"not-a-number","importance":5}`,
	)

	analysis, err := a.Analyze(batch, "smart_balance", today)
	require.NoError(t, err)
	require.Len(t, analysis.Tasks, 3)
	assert.Equal(t, 2, analysis.Invalid)
	assert.Equal(t, "Good", titles(analysis.Tasks)[0])

	for _, st := range analysis.Tasks[1:] {
		assert.Equal(t, 0.0, st.PriorityScore)
		assert.Equal(t, scoring.LevelLow, st.PriorityLevel)
		assert.Equal(t, "Invalid task data", st.Explanation)
		assert.Equal(t, scoring.Breakdown{}, st.Breakdown)
		assert.NotEmpty(t, st.ValidationError)
	}
	assert.Equal(t, "importance: must be between 1 and 10", analysis.Tasks[1].ValidationError)
}

func TestAnalyzeDependencyBoost(t *testing.T) {
	a := newTestAnalyzer()
	batch := inputs(t,
		taskJSON(1, "Blocker", 30, 8, 3),
		taskJSON(2, "A", 30, 8, 3, 1),
		taskJSON(3, "B", 30, 8, 3, 1),
		taskJSON(4, "C", 30, 8, 3, 1),
		taskJSON(5, "D", 30, 8, 3, 1),
	)

	analysis, err := a.Analyze(batch, "smart_balance", today)
	require.NoError(t, err)

	top := analysis.Tasks[0]
	assert.Equal(t, "Blocker", titles(analysis.Tasks)[0])
	assert.Equal(t, 50.0, top.Breakdown.DependencyBoost)
	assert.Contains(t, top.Explanation, "Blocks 4 other task(s)")
	for _, st := range analysis.Tasks[1:] {
		assert.Equal(t, 0.0, st.Breakdown.DependencyBoost)
	}
}

func TestAnalyzeCircularDependencyWarns(t *testing.T) {
	a := newTestAnalyzer()
	batch := inputs(t,
		taskJSON("A", "A", 10, 3, 5, "B"),
		taskJSON("B", "B", 10, 3, 5, "C"),
		taskJSON("C", "C", 10, 3, 5, "A"),
		taskJSON("D", "D", 10, 3, 5),
	)

	analysis, err := a.Analyze(batch, "smart_balance", today)
	require.NoError(t, err)
	require.Len(t, analysis.Tasks, 4)

	assert.Equal(t, "Circular dependencies detected: A -> B -> C -> A", analysis.Warning)
	assert.Equal(t, [][]string{{"A", "B", "C", "A"}}, analysis.Cycles)

	for _, st := range analysis.Tasks {
		name := titles([]ScoredTask{st})[0]
		if name == "D" {
			assert.False(t, st.CircularDependency)
			assert.Equal(t, 0.0, st.Breakdown.DependencyBoost)
			continue
		}
		assert.True(t, st.CircularDependency, name)
		assert.Equal(t, 15.0, st.Breakdown.DependencyBoost, "one direct dependent each")
	}
}

func TestAnalyzeDenseCyclesKeepWarningSmall(t *testing.T) {
	const n = 150
	bodies := make([]string, n)
	for i := 0; i < n; i++ {
		var deps []any
		for j := 1; j <= n; j++ {
			if j != i+1 {
				deps = append(deps, j)
			}
		}
		bodies[i] = taskJSON(i+1, fmt.Sprintf("task %d", i+1), 5, 2, 5, deps...)
	}

	analysis, err := newTestAnalyzer().Analyze(inputs(t, bodies...), "", today)
	require.NoError(t, err)

	assert.Less(t, len(analysis.Warning), 2048)
	assert.LessOrEqual(t, len(analysis.Cycles), 10)
	for _, st := range analysis.Tasks {
		assert.True(t, st.CircularDependency)
	}

	resp, err := json.Marshal(analysis)
	require.NoError(t, err)
	assert.Less(t, len(resp), 1<<20, "must fit a default NATS payload")
}

func TestAnalyzeErrors(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.Analyze(nil, "", today)
	assert.ErrorIs(t, err, ErrNoTasks)

	_, err = a.Analyze(inputs(t, taskJSON(1, "x", 1, 1, 1), taskJSON(1, "y", 1, 1, 1)), "", today)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAnalyzeUnknownStrategyFallsBack(t *testing.T) {
	a := newTestAnalyzer()
	analysis, err := a.Analyze(inputs(t, taskJSON(1, "x", 1, 1, 1)), "invalid_strategy", today)
	require.NoError(t, err)
	assert.Equal(t, scoring.SmartBalance, analysis.Strategy)
}

func TestSuggestTopThree(t *testing.T) {
	a := newTestAnalyzer()
	var bodies []string
	for i := 1; i <= 5; i++ {
		bodies = append(bodies, taskJSON(i, fmt.Sprintf("Task %d", i), i, float64(i), 10-i))
	}

	analysis, err := a.Suggest(inputs(t, bodies...), "smart_balance", today)
	require.NoError(t, err)
	require.Len(t, analysis.Tasks, 3)
	assert.Equal(t, 5, analysis.Total)
	assert.Equal(t, "Task 1", titles(analysis.Tasks)[0])
	assert.GreaterOrEqual(t, analysis.Tasks[0].PriorityScore, analysis.Tasks[1].PriorityScore)
}

func TestSuggestLength(t *testing.T) {
	a := newTestAnalyzer()
	for n := 0; n <= 4; n++ {
		var bodies []string
		for i := 0; i < n; i++ {
			bodies = append(bodies, taskJSON(i, "t", i, 1, 5))
		}
		analysis, err := a.Suggest(inputs(t, bodies...), "", today)
		require.NoError(t, err)
		assert.Len(t, analysis.Tasks, min(3, n), "batch of %d", n)
	}
}

func TestSuggestionCountConfigurable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := New(scoring.NewScorer(scoring.DefaultStrategies(), scoring.DefaultThresholds(), logger), 1, logger)
	analysis, err := a.Suggest(inputs(t, taskJSON(1, "a", 1, 1, 1), taskJSON(2, "b", 0, 1, 9)), "", today)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, titles(analysis.Tasks))
}

func TestHandleAnalyzeRequest(t *testing.T) {
	a := newTestAnalyzer()
	body := `{"strategy":"deadline_driven","tasks":[` + taskJSON(7, "Ship", 0, 2, 10) + `]}`

	req, err := DecodeRequest([]byte(body))
	require.NoError(t, err)
	resp, analysis, err := a.HandleAnalyze(req, today)
	require.NoError(t, err)

	assert.Equal(t, analysis.ID.String(), resp.AnalysisID)
	assert.Equal(t, "deadline_driven", resp.StrategyUsed)
	assert.Equal(t, 1, resp.TotalTasks)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), `"id":7`), string(out))
	assert.Contains(t, string(out), `"priority_level":"High"`)
	assert.NotContains(t, string(out), "warning")
}

func TestHandleSuggestEmpty(t *testing.T) {
	a := newTestAnalyzer()
	req, err := DecodeRequest([]byte(`{"tasks":[]}`))
	require.NoError(t, err)

	resp, _, err := a.HandleSuggest(req, today)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SuggestionCount)
	assert.Empty(t, resp.Suggestions)
	assert.NotNil(t, resp.Suggestions)
	assert.Equal(t, NoSuggestionsMessage, resp.Message)
	assert.Equal(t, "smart_balance", resp.StrategyUsed)
}

func TestRequestInputs(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr error
	}{
		{"missing tasks", `{}`, 0, nil},
		{"null tasks", `{"tasks":null}`, 0, nil},
		{"empty list", `{"tasks":[]}`, 0, nil},
		{"two tasks", `{"tasks":[{"id":1},{"id":2}]}`, 2, nil},
		{"object", `{"tasks":{"id":1}}`, 0, ErrNotAList},
		{"string", `{"tasks":"nope"}`, 0, ErrNotAList},
		{"scalar element", `{"tasks":[1,2]}`, 0, ErrMalformedTask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.body))
			require.NoError(t, err)
			got, err := req.Inputs()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeRequestRejectsGarbage(t *testing.T) {
	_, err := DecodeRequest([]byte(`not json`))
	assert.Error(t, err)
}
