package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Triage/internal/prioritizer"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// writeDocument emits v as indented JSON or as YAML. YAML goes through JSON
// first so field names and echoed task fields match the HTTP responses.
func writeDocument(w io.Writer, f Format, v interface{}) error {
	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// RenderAnalysis writes an analyze or suggest result. resp is the wire
// response used for json and yaml output.
func RenderAnalysis(w io.Writer, f Format, heading string, resp interface{}, a *prioritizer.Analysis) error {
	if f != FormatTable {
		return writeDocument(w, f, resp)
	}

	fmt.Fprintln(w, styleTitle.Render(heading)+" "+
		styleDim.Render(fmt.Sprintf("strategy=%s tasks=%d analysis=%s", a.Strategy, a.Total, a.ID)))
	if a.Warning != "" {
		fmt.Fprintln(w, styleWarning.Render(iconWarning+" "+a.Warning))
	}
	if len(a.Tasks) == 0 {
		fmt.Fprintln(w, styleDim.Render(prioritizer.NoSuggestionsMessage))
		return nil
	}
	fmt.Fprintln(w, TaskTable(a.Tasks))
	return nil
}

// TaskTable renders scored tasks, one row each, in the order given.
func TaskTable(tasks []prioritizer.ScoredTask) string {
	const levelCol = 7

	rows := make([][]string, 0, len(tasks))
	levels := make([]string, 0, len(tasks))
	for i, st := range tasks {
		id := st.Key().String()
		if id == "" {
			id = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			id,
			rawText(st.Title),
			rawText(st.DueDate),
			rawText(st.EstimatedHours),
			rawText(st.Importance),
			strconv.FormatFloat(st.PriorityScore, 'f', 2, 64),
			string(st.PriorityLevel),
			explanation(st),
		})
		levels = append(levels, string(st.PriorityLevel))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Title", "Due", "Hours", "Imp", "Score", "Level", "Why").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if col == levelCol && row >= 0 && row < len(levels) {
				if s, ok := levelStyles[levels[row]]; ok {
					return s.Padding(0, 1)
				}
			}
			return styleCell
		})
	return t.Render()
}

// RenderStrategies writes the strategy catalogue.
func RenderStrategies(w io.Writer, f Format, cat []scoring.StrategyInfo) error {
	if f != FormatTable {
		return writeDocument(w, f, map[string]interface{}{"strategies": cat})
	}

	rows := make([][]string, 0, len(cat))
	for _, info := range cat {
		name := info.Name
		if info.Default {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			weight(info.Weights.Urgency),
			weight(info.Weights.Importance),
			weight(info.Weights.Effort),
			weight(info.Weights.DependencyBoost),
			info.Description,
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Strategy", "Urgency", "Importance", "Effort", "Deps", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, styleDim.Render("* default"))
	return nil
}

func explanation(st prioritizer.ScoredTask) string {
	if st.ValidationError != "" {
		return st.Explanation + " (" + st.ValidationError + ")"
	}
	return st.Explanation
}

func weight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rawText shows an echoed field the way the user wrote it.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "-"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
