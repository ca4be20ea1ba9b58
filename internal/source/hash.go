package source

import (
	"context"
	"crypto/md5" //nolint:gosec // fingerprint only, not security
	"encoding/binary"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

// hashLayout is the metric read from each 2-byte slice of the URL digest.
var hashLayout = [...]leadscore.Metric{
	leadscore.DealPotential,
	leadscore.Practicality,
	leadscore.Difficulty,
	leadscore.Revenue,
	leadscore.AIEase,
}

var (
	mockInsights = []string{
		"Strong market presence in their industry",
		"Clear need for automation in their processes",
		"Potential budget available for implementation",
		"Technical team likely in place for integration",
	}
	mockRecommendations = []string{
		"Focus on ROI in initial pitch",
		"Highlight successful case studies similar to their industry",
		"Prepare technical implementation plan",
		"Schedule demo with their technical team",
	}
)

// HashSource derives stable scores in [60, 89] from the MD5 of the URL. It
// does no I/O and is the fallback of last resort.
type HashSource struct{}

// NewHashSource creates a HashSource.
func NewHashSource() *HashSource { return &HashSource{} }

// Name implements Source.
func (h *HashSource) Name() string { return NameMock }

// Assess implements Source. It never fails.
func (h *HashSource) Assess(_ context.Context, url string) (*Assessment, error) {
	sum := md5.Sum([]byte(url)) //nolint:gosec

	raw := make(leadscore.RawScores, len(hashLayout))
	for i, m := range hashLayout {
		v := binary.BigEndian.Uint16(sum[2*i : 2*i+2])
		raw[string(m)] = int(v%30) + 60
	}

	return &Assessment{
		Source:          NameMock,
		Raw:             raw,
		Insights:        append([]string(nil), mockInsights...),
		Recommendations: append([]string(nil), mockRecommendations...),
	}, nil
}
