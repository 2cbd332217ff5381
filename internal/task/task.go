package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Task is a validated task record. It is never modified during an analysis.
type Task struct {
	ID             ID
	Title          string
	DueDate        time.Time
	EstimatedHours float64
	Importance     int
	Dependencies   []ID
}

// ID identifies a task within one batch. Clients send either numbers or
// strings; Numeric remembers which so the id can be echoed unchanged.
type ID struct {
	Key     string
	Numeric bool
}

func (id ID) String() string { return id.Key }

func (id ID) IsZero() bool { return id.Key == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.Numeric {
		return []byte(id.Key), nil
	}
	return json.Marshal(id.Key)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	parsed, err := parseID(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ValidationError reports the first invalid field of a task.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Input is a task exactly as a client sent it. Fields stay raw so a task with
// bad data can still be echoed back and scored on the invalid path instead of
// failing the whole batch.
type Input struct {
	ID             json.RawMessage `json:"id,omitempty"`
	Title          json.RawMessage `json:"title,omitempty"`
	DueDate        json.RawMessage `json:"due_date,omitempty"`
	EstimatedHours json.RawMessage `json:"estimated_hours,omitempty"`
	Importance     json.RawMessage `json:"importance,omitempty"`
	Dependencies   json.RawMessage `json:"dependencies,omitempty"`
}

// Key returns the task id, or the zero ID when it is absent or unusable.
func (in Input) Key() ID {
	id, err := parseID(in.ID)
	if err != nil {
		return ID{}
	}
	return id
}

// DependencyKeys returns the ids this task depends on. ok is false when the
// dependencies field is present but is not a list of ids.
func (in Input) DependencyKeys() (deps []ID, ok bool) {
	deps, err := parseDependencies(in.Dependencies)
	if err != nil {
		return nil, false
	}
	return deps, true
}

// Parse validates every field and returns the typed record.
func (in Input) Parse() (Task, error) {
	var t Task
	var err error

	if t.ID, err = parseID(in.ID); err != nil {
		return Task{}, err
	}
	if t.Title, err = parseTitle(in.Title); err != nil {
		return Task{}, err
	}
	if t.DueDate, err = parseDate(in.DueDate); err != nil {
		return Task{}, err
	}
	if t.EstimatedHours, err = parseHours(in.EstimatedHours); err != nil {
		return Task{}, err
	}
	if t.Importance, err = parseImportance(in.Importance); err != nil {
		return Task{}, err
	}
	if t.Dependencies, err = parseDependencies(in.Dependencies); err != nil {
		return Task{}, err
	}
	return t, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func parseID(raw json.RawMessage) (ID, error) {
	if isNull(raw) {
		return ID{}, nil
	}
	raw = bytes.TrimSpace(raw)
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ID{}, invalid("id", "malformed string")
		}
		return ID{Key: strings.TrimSpace(s)}, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		key, err := canonicalNumber(string(raw))
		if err != nil {
			return ID{}, invalid("id", "malformed number")
		}
		return ID{Key: key, Numeric: true}, nil
	default:
		return ID{}, invalid("id", "must be a string or number")
	}
}

// canonicalNumber keeps integer literals verbatim and normalises everything
// else so 1.0 and 1 name the same task.
func canonicalNumber(text string) (string, error) {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return text, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func parseTitle(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", invalid("title", "is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalid("title", "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("title", "must not be empty")
	}
	return s, nil
}

func parseDate(raw json.RawMessage) (time.Time, error) {
	if isNull(raw) {
		return time.Time{}, invalid("due_date", "is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, invalid("due_date", "must be a YYYY-MM-DD string")
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid("due_date", "%q is not a YYYY-MM-DD date", s)
	}
	return d, nil
}

// parseNumber accepts a JSON number or a string holding one.
func parseNumber(field string, raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, invalid(field, "is required")
	}
	text := string(bytes.TrimSpace(raw))
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, invalid(field, "must be a number")
		}
		text = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(field, "must be a number")
	}
	return f, nil
}

func parseHours(raw json.RawMessage) (float64, error) {
	h, err := parseNumber("estimated_hours", raw)
	if err != nil {
		return 0, err
	}
	if h <= 0 {
		return 0, invalid("estimated_hours", "must be positive")
	}
	return h, nil
}

func parseImportance(raw json.RawMessage) (int, error) {
	f, err := parseNumber("importance", raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalid("importance", "must be an integer")
	}
	if f < 1 || f > 10 {
		return 0, invalid("importance", "must be between 1 and 10")
	}
	return int(f), nil
}

func parseDependencies(raw json.RawMessage) ([]ID, error) {
	if isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, invalid("dependencies", "must be a list")
	}
	deps := make([]ID, 0, len(items))
	for _, item := range items {
		id, err := parseID(item)
		if err != nil || id.IsZero() {
			return nil, invalid("dependencies", "must contain only task ids")
		}
		deps = append(deps, id)
	}
	return deps, nil
}
