// Package cli loads task files and renders scoring results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Triage/internal/prioritizer"
)

// ReadRequest loads a task file. "-" reads standard input.
func ReadRequest(path string, stdin io.Reader) (*prioritizer.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return ParseRequest(data)
}

// ParseRequest accepts either a bare list of tasks or a {tasks, strategy}
// document, as JSON or YAML.
func ParseRequest(data []byte) (*prioritizer.Request, error) {
	if !json.Valid(data) {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse tasks: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("parse tasks: %w", err)
		}
		data = converted
	}

	var shape interface{}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	switch shape.(type) {
	case []interface{}:
		return &prioritizer.Request{Tasks: json.RawMessage(data)}, nil
	case map[string]interface{}:
		return prioritizer.DecodeRequest(data)
	case nil:
		return &prioritizer.Request{}, nil
	default:
		return nil, prioritizer.ErrNotAList
	}
}
