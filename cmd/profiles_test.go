package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

func TestPrintProfiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printProfiles(&buf, "canonical"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2+len(leadscore.Profiles()))
	assert.True(t, strings.HasPrefix(lines[0], "PROFILE"))
	assert.Contains(t, lines[2], "canonical *")
	assert.Contains(t, lines[2], "dealPotential=0.25,practicality=0.2,revenue=0.3,aiEase=0.15,difficulty=0.1")
	assert.Contains(t, lines[2], "dealPotential=50,revenue=50")
	assert.Contains(t, lines[3], "legacy-mock")
	assert.NotContains(t, lines[3], "*")
}

func TestFormatMetrics(t *testing.T) {
	assert.Equal(t, "-", formatMetrics(nil))
	assert.Equal(t, "revenue=50,difficulty=10", formatMetrics(map[leadscore.Metric]float64{
		leadscore.Difficulty: 10,
		leadscore.Revenue:    50,
	}))
}
