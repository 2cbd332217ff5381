package scoring

import (
	"fmt"
	"sort"
)

// Strategy names a weight vector.
type Strategy string

const (
	SmartBalance   Strategy = "smart_balance"
	FastestWins    Strategy = "fastest_wins"
	HighImpact     Strategy = "high_impact"
	DeadlineDriven Strategy = "deadline_driven"
)

// DefaultStrategy is used when a request names no strategy or an unknown one.
const DefaultStrategy = SmartBalance

// WeightSet multiplies each sub-score. Weights are not normalised: the
// dependency weight scales a bonus rather than sharing a unit budget.
type WeightSet struct {
	Urgency         float64 `json:"urgency" yaml:"urgency"`
	Importance      float64 `json:"importance" yaml:"importance"`
	Effort          float64 `json:"effort" yaml:"effort"`
	DependencyBoost float64 `json:"dependency_boost" yaml:"dependency_boost"`
}

// Validate checks that no weight is negative.
func (w WeightSet) Validate() error {
	for _, v := range []float64{w.Urgency, w.Importance, w.Effort, w.DependencyBoost} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

// StrategyTable maps each strategy to its weights.
type StrategyTable map[Strategy]WeightSet

// DefaultStrategies returns the built-in weight table.
func DefaultStrategies() StrategyTable {
	return StrategyTable{
		SmartBalance:   {Urgency: 0.35, Importance: 0.30, Effort: 0.20, DependencyBoost: 1.0},
		FastestWins:    {Urgency: 0.20, Importance: 0.10, Effort: 0.60, DependencyBoost: 0.5},
		HighImpact:     {Urgency: 0.20, Importance: 0.60, Effort: 0.10, DependencyBoost: 0.5},
		DeadlineDriven: {Urgency: 0.60, Importance: 0.25, Effort: 0.10, DependencyBoost: 0.3},
	}
}

var descriptions = map[Strategy]string{
	SmartBalance:   "Balanced weighting of all factors",
	FastestWins:    "Prioritizes low-effort tasks",
	HighImpact:     "Prioritizes importance",
	DeadlineDriven: "Prioritizes due dates",
}

// Description returns a one-line summary of the strategy.
func (s Strategy) Description() string { return descriptions[s] }

// Known reports whether s is one of the built-in strategies.
func (s Strategy) Known() bool {
	_, ok := descriptions[s]
	return ok
}

// Override returns a copy of t with the given weights replacing the defaults.
func (t StrategyTable) Override(overrides map[string]WeightSet) (StrategyTable, error) {
	out := make(StrategyTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	for name, w := range overrides {
		s := Strategy(name)
		if !s.Known() {
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("strategy %s: %w", name, err)
		}
		out[s] = w
	}
	return out, nil
}

// Validate checks that every built-in strategy is present with valid weights.
func (t StrategyTable) Validate() error {
	for s := range descriptions {
		w, ok := t[s]
		if !ok {
			return fmt.Errorf("missing weights for strategy %s", s)
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("strategy %s: %w", s, err)
		}
	}
	return nil
}

// Names returns the strategies in the table, sorted.
func (t StrategyTable) Names() []Strategy {
	names := make([]Strategy, 0, len(t))
	for s := range t {
		names = append(names, s)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
