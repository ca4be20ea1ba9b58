package model

import (
	"encoding/json"
	"time"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

// Report is the analysis returned for a single lead.
type Report struct {
	ID              string                       `json:"id"`
	URL             string                       `json:"url"`
	CompanyName     string                       `json:"companyName"`
	Source          string                       `json:"source"`
	RawScores       leadscore.RawScores          `json:"rawScores"`
	Scores          map[leadscore.Metric]float64 `json:"scores"`
	TotalScore      int                          `json:"totalScore"`
	ScoringDetails  ScoringDetails               `json:"scoringDetails"`
	Insights        []string                     `json:"insights"`
	Recommendations []string                     `json:"recommendations"`
	Email           *EmailInfo                   `json:"email,omitempty"`
	PagesAnalyzed   int                          `json:"pagesAnalyzed"`
	AnalyzedAt      time.Time                    `json:"analyzedAt"`
}

// MarshalJSON also writes each normalized metric as a top-level key
// (dealPotential, practicality, ...), the shape older clients read.
func (r Report) MarshalJSON() ([]byte, error) {
	type report Report
	return json.Marshal(struct {
		report
		DealPotential float64 `json:"dealPotential"`
		Practicality  float64 `json:"practicality"`
		Revenue       float64 `json:"revenue"`
		AIEase        float64 `json:"aiEase"`
		Difficulty    float64 `json:"difficulty"`
	}{
		report:        report(r),
		DealPotential: r.Scores[leadscore.DealPotential],
		Practicality:  r.Scores[leadscore.Practicality],
		Revenue:       r.Scores[leadscore.Revenue],
		AIEase:        r.Scores[leadscore.AIEase],
		Difficulty:    r.Scores[leadscore.Difficulty],
	})
}

// ScoringDetails is the audit trail behind TotalScore.
type ScoringDetails struct {
	Profile        string                       `json:"profile"`
	Weights        map[leadscore.Metric]float64 `json:"weights"`
	WeightedScores map[leadscore.Metric]float64 `json:"weightedScores"`
	Penalties      []leadscore.Penalty          `json:"penalties"`
	RawTotal       float64                      `json:"rawTotal"`
	TotalPenalty   float64                      `json:"totalPenalty"`
}

// EmailInfo describes the contact email supplied with a lead.
type EmailInfo struct {
	Address    string          `json:"address"`
	Validation EmailValidation `json:"validation"`
}

// EmailValidation holds the outcome of email checks.
type EmailValidation struct {
	IsValid      bool `json:"is_valid"`
	IsDisposable bool `json:"is_disposable"`
	HasMXRecords bool `json:"has_mx_records"`
}

// NewScoringDetails copies the audit fields out of a scoring result.
func NewScoringDetails(res leadscore.Result) ScoringDetails {
	return ScoringDetails{
		Profile:        res.Profile,
		Weights:        res.Weights,
		WeightedScores: res.WeightedScores,
		Penalties:      res.Penalties,
		RawTotal:       res.RawTotal,
		TotalPenalty:   res.TotalPenalty,
	}
}
