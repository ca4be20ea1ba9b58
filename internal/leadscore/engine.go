package leadscore

import "math"

// RawScores maps metric names to untrusted values. Unknown keys are ignored.
type RawScores map[string]any

// Penalty records a deduction for a metric below its threshold.
type Penalty struct {
	Metric        Metric  `json:"metric"`
	Threshold     float64 `json:"threshold"`
	Actual        float64 `json:"actual"`
	PenaltyFactor float64 `json:"penaltyFactor"`
	PenaltyValue  float64 `json:"penaltyValue"`
}

// Result is the scoring output with every intermediate value retained.
type Result struct {
	Profile          string             `json:"profile"`
	NormalizedScores map[Metric]float64 `json:"normalizedScores"`
	Weights          map[Metric]float64 `json:"weights"`
	WeightedScores   map[Metric]float64 `json:"weightedScores"`
	RawTotal         float64            `json:"rawTotal"`
	Penalties        []Penalty          `json:"penalties"`
	TotalPenalty     float64            `json:"totalPenalty"`
	TotalScore       int                `json:"totalScore"`
}

// Compute scores raw with the canonical profile.
func Compute(raw RawScores) Result {
	return profiles[DefaultProfileName].Compute(raw)
}

// Compute scores raw with p. It is a pure function of p and raw. A profile
// that fails ValidateProfile scores as the canonical profile, so the total
// always lands in [0, 100].
func (p Profile) Compute(raw RawScores) Result {
	if ValidateProfile(p) != nil {
		p = profiles[DefaultProfileName]
	}

	res := Result{
		Profile:          p.Name,
		NormalizedScores: make(map[Metric]float64, len(allMetrics)),
		Weights:          make(map[Metric]float64, len(allMetrics)),
		WeightedScores:   make(map[Metric]float64, len(allMetrics)),
		Penalties:        []Penalty{},
	}

	for _, m := range allMetrics {
		res.NormalizedScores[m] = Normalize(raw[string(m)], p.Default)
	}

	// Inversion happens after normalization so an invalid difficulty
	// defaults to a neutral contribution.
	for _, m := range allMetrics {
		w := p.Weights[m]
		v := res.NormalizedScores[m]
		if m.Inverted() {
			v = maxScore - v
		}
		res.Weights[m] = w
		res.WeightedScores[m] = v * w
		res.RawTotal += v * w
	}

	for _, m := range allMetrics {
		threshold, ok := p.Thresholds[m]
		if !ok {
			continue
		}
		actual := res.NormalizedScores[m]
		if actual >= threshold {
			continue
		}
		factor := p.penaltyFactor(threshold - actual)
		pen := Penalty{
			Metric:        m,
			Threshold:     threshold,
			Actual:        actual,
			PenaltyFactor: factor,
			PenaltyValue:  res.RawTotal * factor,
		}
		res.Penalties = append(res.Penalties, pen)
		res.TotalPenalty += pen.PenaltyValue
	}

	res.TotalScore = int(math.Round(clamp(res.RawTotal-res.TotalPenalty, minScore, maxScore)))
	return res
}

// penaltyFactor charges PenaltyRate for every started PenaltyStep of
// shortfall. A 1-point and a 10-point shortfall cost the same.
func (p Profile) penaltyFactor(shortfall float64) float64 {
	return math.Ceil(shortfall/p.PenaltyStep) * p.PenaltyRate
}
