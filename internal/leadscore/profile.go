package leadscore

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultProfileName is the profile used by Compute.
const DefaultProfileName = "canonical"

const weightSumTolerance = 1e-9

//go:embed profiles.yaml
var profileTable []byte

// Profile is a versioned weight and threshold configuration.
type Profile struct {
	Name        string             `yaml:"name" json:"name"`
	Version     int                `yaml:"version" json:"version"`
	Description string             `yaml:"description" json:"description,omitempty"`
	Default     float64            `yaml:"default_score" json:"defaultScore"`
	PenaltyStep float64            `yaml:"penalty_step" json:"penaltyStep"`
	PenaltyRate float64            `yaml:"penalty_rate" json:"penaltyRate"`
	Weights     map[Metric]float64 `yaml:"weights" json:"weights"`
	Thresholds  map[Metric]float64 `yaml:"thresholds" json:"thresholds"`
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// profiles is populated once at init and never mutated afterwards.
var profiles = mustParseProfiles(profileTable)

func mustParseProfiles(data []byte) map[string]Profile {
	out, err := parseProfiles(data)
	if err != nil {
		panic(err)
	}
	return out
}

func parseProfiles(data []byte) (map[string]Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "leadscore: parse profile table")
	}
	if len(f.Profiles) == 0 {
		return nil, eris.New("leadscore: profile table is empty")
	}

	out := make(map[string]Profile, len(f.Profiles))
	for _, p := range f.Profiles {
		if _, dup := out[p.Name]; dup {
			return nil, eris.Errorf("leadscore: duplicate profile %q", p.Name)
		}
		if err := ValidateProfile(p); err != nil {
			return nil, err
		}
		if p.Thresholds == nil {
			p.Thresholds = map[Metric]float64{}
		}
		out[p.Name] = p
	}
	if _, ok := out[DefaultProfileName]; !ok {
		return nil, eris.Errorf("leadscore: default profile %q missing", DefaultProfileName)
	}
	return out, nil
}

// ValidateProfile checks that a Profile is internally consistent.
func ValidateProfile(p Profile) error {
	var errs []string

	if p.Name == "" {
		errs = append(errs, "name is required")
	}

	sum := 0.0
	for _, m := range allMetrics {
		w, ok := p.Weights[m]
		if !ok {
			errs = append(errs, fmt.Sprintf("weight for %s is missing", m))
			continue
		}
		if w < 0 || math.IsNaN(w) {
			errs = append(errs, fmt.Sprintf("weight for %s must be >= 0", m))
		}
		sum += w
	}
	for m := range p.Weights {
		if !m.Valid() {
			errs = append(errs, fmt.Sprintf("unknown weight metric %q", m))
		}
	}
	if math.Abs(sum-1) > weightSumTolerance {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.4f", sum))
	}

	for m, t := range p.Thresholds {
		if !m.Valid() {
			errs = append(errs, fmt.Sprintf("unknown threshold metric %q", m))
		}
		if t < minScore || t > maxScore {
			errs = append(errs, fmt.Sprintf("threshold for %s must be between 0 and 100", m))
		}
	}

	if p.PenaltyStep <= 0 {
		errs = append(errs, "penalty_step must be > 0")
	}
	if p.PenaltyRate < 0 {
		errs = append(errs, "penalty_rate must be >= 0")
	}
	if p.Default < minScore || p.Default > maxScore {
		errs = append(errs, "default_score must be between 0 and 100")
	}

	if len(errs) > 0 {
		return eris.Errorf("leadscore: profile %q invalid: %s", p.Name, strings.Join(errs, "; "))
	}
	return nil
}

// Lookup returns a copy of the named profile.
func Lookup(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, eris.Errorf("leadscore: unknown profile %q", name)
	}
	return p.clone(), nil
}

// Default returns a copy of the canonical profile.
func Default() Profile {
	return profiles[DefaultProfileName].clone()
}

// Profiles returns the names of all profiles, sorted.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Profile) clone() Profile {
	p.Weights = cloneMetricMap(p.Weights)
	p.Thresholds = cloneMetricMap(p.Thresholds)
	return p
}

func cloneMetricMap(in map[Metric]float64) map[Metric]float64 {
	out := make(map[Metric]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
