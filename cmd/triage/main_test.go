package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Triage/internal/prioritizer"
)

const tasksJSON = `{"tasks":[
	{"id":1,"title":"Fix login bug","due_date":"2026-10-20","estimated_hours":3,"importance":8,"dependencies":[]},
	{"id":2,"title":"Write docs","due_date":"2026-11-30","estimated_hours":6,"importance":4,"dependencies":[1]},
	{"id":3,"title":"Ship release","due_date":"2026-10-19","estimated_hours":1,"importance":10,"dependencies":[1]},
	{"id":4,"title":"Refactor","due_date":"2026-11-05","estimated_hours":12,"importance":5,"dependencies":[]}
]}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"TRIAGE_DEFAULT_STRATEGY", "TRIAGE_SUGGESTION_COUNT", "TRIAGE_LOG_FORMAT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCommandJSON(t *testing.T) {
	out, err := run(t, tasksJSON, "analyze", "-", "--today", "2026-10-19", "-o", "json")
	require.NoError(t, err)

	var resp prioritizer.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 4, resp.TotalTasks)
	assert.Equal(t, "smart_balance", resp.StrategyUsed)
	assert.Equal(t, "1", string(resp.Tasks[0].ID))
}

func TestSuggestCommandStrategyFlag(t *testing.T) {
	out, err := run(t, tasksJSON, "suggest", "-", "--today", "2026-10-19", "--strategy", "fastest_wins", "-o", "json")
	require.NoError(t, err)

	var resp prioritizer.SuggestResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "fastest_wins", resp.StrategyUsed)
	assert.Equal(t, 3, resp.SuggestionCount)
	assert.Equal(t, "3", string(resp.Suggestions[0].ID), "one hour task wins under fastest_wins")
}

func TestSuggestCommandTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(tasksJSON), 0o600))

	out, err := run(t, "", "suggest", path, "--today", "2026-10-19")
	require.NoError(t, err)
	assert.Contains(t, out, "Suggestions")
	assert.Contains(t, out, "Fix login bug")
	assert.NotContains(t, out, "Write docs")
}

func TestConfigFileSetsDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "triage.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scoring:\n  default_strategy: high_impact\n  suggestion_count: 1\n"), 0o600))

	out, err := run(t, tasksJSON, "--config", cfgPath, "suggest", "-", "--today", "2026-10-19", "-o", "json")
	require.NoError(t, err)

	var resp prioritizer.SuggestResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "high_impact", resp.StrategyUsed)
	assert.Equal(t, 1, resp.SuggestionCount)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, tasksJSON, "analyze", "-", "--today", "19/10/2026")
	assert.Error(t, err)

	_, err = run(t, tasksJSON, "analyze", "-", "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, `{"tasks":[]}`, "analyze", "-")
	assert.ErrorIs(t, err, prioritizer.ErrNoTasks)

	_, err = run(t, "", "analyze")
	assert.Error(t, err)
}

func TestStrategiesCommand(t *testing.T) {
	out, err := run(t, "", "strategies", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "deadline_driven"`)
	assert.Contains(t, out, `"default": true`)
}
