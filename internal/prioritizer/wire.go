package prioritizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/Triage/internal/task"
)

// Request is the body accepted by both analyze and suggest, on every transport.
type Request struct {
	Tasks    json.RawMessage `json:"tasks"`
	Strategy string          `json:"strategy,omitempty"`
}

// DecodeRequest parses a request body.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return &req, nil
}

// Inputs splits the tasks field into individual task inputs. A missing or
// null field yields an empty batch.
func (r *Request) Inputs() ([]task.Input, error) {
	raw := bytes.TrimSpace(r.Tasks)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, ErrNotAList
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrNotAList
	}
	inputs := make([]task.Input, len(items))
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: task at index %d is not an object", ErrMalformedTask, i)
		}
		if err := json.Unmarshal(trimmed, &inputs[i]); err != nil {
			return nil, fmt.Errorf("%w: task at index %d: %v", ErrMalformedTask, i, err)
		}
	}
	return inputs, nil
}

// AnalyzeResponse is the analyze reply.
type AnalyzeResponse struct {
	AnalysisID   string       `json:"analysis_id"`
	Tasks        []ScoredTask `json:"tasks"`
	StrategyUsed string       `json:"strategy_used"`
	TotalTasks   int          `json:"total_tasks"`
	Warning      string       `json:"warning,omitempty"`
	Cycles       [][]string   `json:"cycles,omitempty"`
}

// SuggestResponse is the suggest reply.
type SuggestResponse struct {
	AnalysisID      string       `json:"analysis_id"`
	Suggestions     []ScoredTask `json:"suggestions"`
	StrategyUsed    string       `json:"strategy_used"`
	SuggestionCount int          `json:"suggestion_count"`
	Warning         string       `json:"warning,omitempty"`
	Message         string       `json:"message,omitempty"`
}

// NoSuggestionsMessage accompanies an empty suggestion list.
const NoSuggestionsMessage = "No tasks available to suggest"

// HandleAnalyze runs analyze for a decoded request.
func (a *Analyzer) HandleAnalyze(req *Request, today time.Time) (*AnalyzeResponse, *Analysis, error) {
	inputs, err := req.Inputs()
	if err != nil {
		return nil, nil, err
	}
	analysis, err := a.Analyze(inputs, req.Strategy, today)
	if err != nil {
		return nil, nil, err
	}
	return &AnalyzeResponse{
		AnalysisID:   analysis.ID.String(),
		Tasks:        analysis.Tasks,
		StrategyUsed: string(analysis.Strategy),
		TotalTasks:   len(analysis.Tasks),
		Warning:      analysis.Warning,
		Cycles:       analysis.Cycles,
	}, analysis, nil
}

// HandleSuggest runs suggest for a decoded request.
func (a *Analyzer) HandleSuggest(req *Request, today time.Time) (*SuggestResponse, *Analysis, error) {
	inputs, err := req.Inputs()
	if err != nil {
		return nil, nil, err
	}
	analysis, err := a.Suggest(inputs, req.Strategy, today)
	if err != nil {
		return nil, nil, err
	}
	resp := &SuggestResponse{
		AnalysisID:      analysis.ID.String(),
		Suggestions:     analysis.Tasks,
		StrategyUsed:    string(analysis.Strategy),
		SuggestionCount: len(analysis.Tasks),
		Warning:         analysis.Warning,
	}
	if len(analysis.Tasks) == 0 {
		resp.Message = NoSuggestionsMessage
	}
	return resp, analysis, nil
}
