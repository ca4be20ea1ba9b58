package leadscore

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	minScore = 0.0
	maxScore = 100.0

	// DefaultScore is used for absent or invalid metric values.
	DefaultScore = 50.0
)

// Normalize coerces raw into a score in [0, 100]. Absent values and values
// that do not coerce to a finite number return def. Never fails.
func Normalize(raw any, def float64) float64 {
	v, ok := toFloat(raw)
	if !ok {
		return def
	}
	return clamp(v, minScore, maxScore)
}

// toFloat converts numeric kinds, json.Number and numeric strings.
// Booleans are not scores and are rejected.
func toFloat(raw any) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case nil:
		return 0, false
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
