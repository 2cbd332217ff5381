package scoring

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Triage/internal/task"
)

// Level is the coarse priority bucket of a final score.
type Level string

const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// Thresholds are the inclusive lower bounds of each level above Low.
type Thresholds struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
}

// DefaultThresholds returns the fixed cut points used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{Critical: 100, High: 70, Medium: 40}
}

// Validate checks that thresholds are strictly descending and non-negative.
func (t Thresholds) Validate() error {
	if !(t.Critical > t.High && t.High > t.Medium && t.Medium >= 0) {
		return fmt.Errorf("thresholds must satisfy critical > high > medium >= 0, got %.2f/%.2f/%.2f",
			t.Critical, t.High, t.Medium)
	}
	return nil
}

// Level buckets a final score.
func (t Thresholds) Level(score float64) Level {
	switch {
	case score >= t.Critical:
		return LevelCritical
	case score >= t.High:
		return LevelHigh
	case score >= t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// InvalidExplanation is the explanation attached to every task that fails validation.
const InvalidExplanation = "Invalid task data"

// Input bundles everything needed to score one task.
type Input struct {
	Task       task.Task
	Today      time.Time
	Dependents int
	Circular   bool
}

// Result is the scoring output for a single task.
type Result struct {
	Score       float64        `json:"priority_score"`
	Level       Level          `json:"priority_level"`
	Explanation string         `json:"explanation"`
	Breakdown   Breakdown      `json:"breakdown"`
	Factors     []FactorResult `json:"-"`
}

// Scorer combines the four sub-scores under a strategy's weights.
type Scorer struct {
	strategies StrategyTable
	thresholds Thresholds
	fallback   Strategy
	logger     *slog.Logger
}

// NewScorer creates a Scorer with the given weight table and level thresholds.
func NewScorer(strategies StrategyTable, thresholds Thresholds, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		strategies: strategies,
		thresholds: thresholds,
		fallback:   DefaultStrategy,
		logger:     logger,
	}
}

// WithDefault returns a copy of s that falls back to strategy instead of
// DefaultStrategy. Unknown strategies are ignored.
func (s *Scorer) WithDefault(strategy Strategy) *Scorer {
	cp := *s
	if _, ok := s.strategies[strategy]; ok {
		cp.fallback = strategy
	}
	return &cp
}

// Default returns the strategy used for empty or unknown names.
func (s *Scorer) Default() Strategy { return s.fallback }

// Strategies returns the weight table in use.
func (s *Scorer) Strategies() StrategyTable { return s.strategies }

// Thresholds returns the level cut points in use.
func (s *Scorer) Thresholds() Thresholds { return s.thresholds }

// StrategyInfo describes one entry of the strategy catalogue.
type StrategyInfo struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Weights     WeightSet `json:"weights" yaml:"weights"`
	Default     bool      `json:"default" yaml:"default"`
}

// Catalogue lists every strategy in the scorer's table, sorted by name.
func (s *Scorer) Catalogue() []StrategyInfo {
	out := make([]StrategyInfo, 0, len(s.strategies))
	for _, name := range s.strategies.Names() {
		out = append(out, StrategyInfo{
			Name:        string(name),
			Description: name.Description(),
			Weights:     s.strategies[name],
			Default:     name == s.fallback,
		})
	}
	return out
}

// Resolve maps a requested strategy name to the one that will be used.
// Empty and unknown names fall back to the scorer's default.
func (s *Scorer) Resolve(name string) Strategy {
	st := Strategy(name)
	if _, ok := s.strategies[st]; ok {
		return st
	}
	if name != "" {
		s.logger.Debug("unknown strategy, using default", "requested", name, "strategy", s.fallback)
	}
	return s.fallback
}

// Score computes the composite score for a valid task.
func (s *Scorer) Score(in Input, strategy Strategy) Result {
	w := s.strategies[s.Resolve(string(strategy))]

	factors := []FactorResult{
		{Name: "urgency", Score: UrgencyScore(in.Task.DueDate, in.Today), Weight: w.Urgency},
		{Name: "importance", Score: ImportanceScore(in.Task.Importance), Weight: w.Importance},
		{Name: "effort", Score: EffortScore(in.Task.EstimatedHours), Weight: w.Effort},
		{Name: "dependency_boost", Score: DependencyBoost(in.Dependents), Weight: w.DependencyBoost},
	}

	var total float64
	for i := range factors {
		factors[i].Weighted = factors[i].Score * factors[i].Weight
		total += factors[i].Weighted
	}
	total = round2(total)

	return Result{
		Score:       total,
		Level:       s.thresholds.Level(total),
		Explanation: explain(in, factors),
		Breakdown: Breakdown{
			Urgency:         round2(factors[0].Score),
			Importance:      round2(factors[1].Score),
			Effort:          round2(factors[2].Score),
			DependencyBoost: round2(factors[3].Score),
		},
		Factors: factors,
	}
}

// InvalidResult is the result for a task that failed validation: zero score,
// Low level and an all-zero breakdown.
func InvalidResult() Result {
	return Result{
		Score:       0,
		Level:       LevelLow,
		Explanation: InvalidExplanation,
	}
}
