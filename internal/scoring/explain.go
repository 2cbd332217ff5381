package scoring

import (
	"fmt"
	"strings"
)

const reasonSeparator = " • "

var factorLabels = map[string]string{
	"urgency":          "urgency",
	"importance":       "importance",
	"effort":           "low effort",
	"dependency_boost": "blocked tasks",
}

// explain lists the reasons a task ranks where it does. When no reason
// applies it names the factor with the largest weighted contribution.
func explain(in Input, factors []FactorResult) string {
	var reasons []string

	days := DaysUntil(in.Task.DueDate, in.Today)
	switch {
	case days < 0:
		reasons = append(reasons, fmt.Sprintf("Overdue by %d day(s)", -days))
	case days == 0:
		reasons = append(reasons, "Due today")
	case days == 1:
		reasons = append(reasons, "Due tomorrow")
	case days <= 3:
		reasons = append(reasons, "Due very soon")
	}

	if in.Task.Importance >= 8 {
		reasons = append(reasons, "High importance rating")
	}
	if in.Task.EstimatedHours <= 2 {
		reasons = append(reasons, "Quick win (low effort)")
	}
	if in.Dependents > 0 {
		reasons = append(reasons, fmt.Sprintf("Blocks %d other task(s)", in.Dependents))
	}
	if in.Circular {
		reasons = append(reasons, "Part of a circular dependency chain")
	}

	if len(reasons) == 0 {
		top := dominant(factors)
		return fmt.Sprintf("Standard priority task (driven by %s)", factorLabels[top.Name])
	}
	return strings.Join(reasons, reasonSeparator)
}

// dominant returns the factor with the largest weighted value; ties go to
// the earlier factor.
func dominant(factors []FactorResult) FactorResult {
	top := factors[0]
	for _, f := range factors[1:] {
		if f.Weighted > top.Weighted {
			top = f
		}
	}
	return top
}
