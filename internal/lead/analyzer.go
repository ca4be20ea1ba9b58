package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/monitoring"
	"github.com/sells-group/lead-qualifier/internal/source"
)

// Request is a lead to analyze. Email is optional.
type Request struct {
	URL   string `json:"url"`
	Email string `json:"email,omitempty"`
}

// ValidationError is returned for bad input. Its message is safe to show
// to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Analyzer scores leads with a source and a scoring profile.
type Analyzer struct {
	source  source.Source
	profile leadscore.Profile
	metrics *monitoring.Metrics
	now     func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProfile scores with p instead of the default profile.
func WithProfile(p leadscore.Profile) Option {
	return func(a *Analyzer) { a.profile = p }
}

// WithMetrics records analyses to m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates an Analyzer over src.
func NewAnalyzer(src source.Source, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:  src,
		profile: leadscore.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Profile returns the scoring profile in use.
func (a *Analyzer) Profile() leadscore.Profile { return a.profile }

// Analyze validates req, gathers raw scores and returns the scored report.
// Input problems come back as *ValidationError.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.Report, error) {
	rawURL := Sanitize(req.URL)
	email := Sanitize(req.Email)

	if rawURL == "" {
		a.metrics.RecordLead(a.source.Name(), monitoring.AssessedByNone, monitoring.OutcomeInvalid, 0)
		return nil, &ValidationError{Message: "URL is required"}
	}
	if !ValidURL(rawURL) {
		a.metrics.RecordLead(a.source.Name(), monitoring.AssessedByNone, monitoring.OutcomeInvalid, 0)
		return nil, &ValidationError{Message: "Invalid URL format"}
	}

	var emailInfo *model.EmailInfo
	if email != "" {
		if !ValidEmail(email) {
			a.metrics.RecordLead(a.source.Name(), monitoring.AssessedByNone, monitoring.OutcomeInvalid, 0)
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid email format: %s", email)}
		}
		emailInfo = &model.EmailInfo{
			Address: email,
			Validation: model.EmailValidation{
				IsValid:      true,
				IsDisposable: false,
				HasMXRecords: true,
			},
		}
	}

	log := zap.L().With(zap.String("url", rawURL), zap.String("source", a.source.Name()))
	start := a.now()

	assessment, err := a.source.Assess(ctx, rawURL)
	if err != nil {
		a.metrics.RecordLead(a.source.Name(), monitoring.AssessedByNone, monitoring.OutcomeSourceFailed, 0)
		log.Error("lead: assessment failed", zap.Error(err))
		return nil, eris.Wrap(err, "lead: assess")
	}

	res := a.profile.Compute(assessment.Raw)
	for _, p := range res.Penalties {
		a.metrics.RecordPenalty(string(p.Metric))
	}
	a.metrics.RecordLead(a.source.Name(), assessment.Source, monitoring.OutcomeOK, res.TotalScore)

	log.Info("lead: analyzed",
		zap.String("assessed_by", assessment.Source),
		zap.Int("total_score", res.TotalScore),
		zap.Int("penalties", len(res.Penalties)),
		zap.Int("pages", assessment.Pages),
		zap.Duration("elapsed", a.now().Sub(start)),
	)

	return &model.Report{
		ID:              GenerateID(rawURL),
		URL:             rawURL,
		CompanyName:     CompanyName(rawURL),
		Source:          assessment.Source,
		RawScores:       assessment.Raw,
		Scores:          res.NormalizedScores,
		TotalScore:      res.TotalScore,
		ScoringDetails:  model.NewScoringDetails(res),
		Insights:        nonNil(assessment.Insights),
		Recommendations: nonNil(assessment.Recommendations),
		Email:           emailInfo,
		PagesAnalyzed:   assessment.Pages,
		AnalyzedAt:      a.now().UTC(),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
