// Package leadscore converts untrusted per-metric lead scores into a
// bounded, penalized composite score with a full audit trail.
package leadscore

// Metric names one of the fixed scoring dimensions.
type Metric string

const (
	DealPotential Metric = "dealPotential"
	Practicality  Metric = "practicality"
	Revenue       Metric = "revenue"
	AIEase        Metric = "aiEase"
	Difficulty    Metric = "difficulty"
)

// allMetrics is the enumeration order. Penalties are evaluated in this order.
var allMetrics = [...]Metric{DealPotential, Practicality, Revenue, AIEase, Difficulty}

// AllMetrics returns every metric in enumeration order.
func AllMetrics() []Metric {
	out := make([]Metric, len(allMetrics))
	copy(out, allMetrics[:])
	return out
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	for _, known := range allMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// Inverted reports whether a lower value is better for m.
func (m Metric) Inverted() bool {
	return m == Difficulty
}
