package scoring

import (
	"math"
	"time"
)

// FactorResult captures one factor's contribution to the total score.
type FactorResult struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// Breakdown holds the four raw sub-scores of a task.
type Breakdown struct {
	Urgency         float64 `json:"urgency" yaml:"urgency"`
	Importance      float64 `json:"importance" yaml:"importance"`
	Effort          float64 `json:"effort" yaml:"effort"`
	DependencyBoost float64 `json:"dependency_boost" yaml:"dependency_boost"`
}

const (
	maxUrgency         = 150
	maxDependencyBoost = 50
	pointsPerDependent = 15
)

// DaysUntil returns whole calendar days from today to due. Negative means
// overdue. Time of day and zone are ignored.
func DaysUntil(due, today time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	// Unix seconds rather than Sub, which saturates past ~292 years.
	return int((d.Unix() - t.Unix()) / 86400)
}

// UrgencyScore maps due-date proximity to 10..150.
//
//	overdue      100 + 5/day, capped at 150
//	today        95
//	tomorrow     90
//	2-3 days     75
//	4-7 days     50
//	8-14 days    30
//	15+ days     10
func UrgencyScore(due, today time.Time) float64 {
	days := DaysUntil(due, today)
	switch {
	case days < 0:
		return math.Min(maxUrgency, 100+5*float64(-days))
	case days == 0:
		return 95
	case days == 1:
		return 90
	case days <= 3:
		return 75
	case days <= 7:
		return 50
	case days <= 14:
		return 30
	default:
		return 10
	}
}

// ImportanceScore maps a 1..10 rating to 10..100.
func ImportanceScore(importance int) float64 {
	return float64(importance) * 10
}

// EffortScore is inversely proportional to estimated hours. It is not
// capped: tasks under half an hour score above 100.
func EffortScore(hours float64) float64 {
	return 100 / (hours + 0.5)
}

// DependencyBoost awards 15 points per dependent task, capped at 50.
func DependencyBoost(dependents int) float64 {
	return math.Min(maxDependencyBoost, float64(dependents*pointsPerDependent))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
