// Package scoring converts raw weekly health metrics into fantasy-style
// point totals. All arithmetic is defensive: corrupt device readings
// (NaN, infinities, negatives, absurd totals) are clamped before
// weighting so a single bad sync can never distort standings.
package scoring

import "math"

// Metric keys accepted in a league scoring config.
const (
	MetricSteps          = "steps"
	MetricActiveCalories = "active_calories"
	MetricDistanceKM     = "distance_km"
	MetricSleepMinutes   = "sleep_minutes"
	MetricWorkoutMinutes = "workout_minutes"
)

// Config maps metric keys to point weights. A missing or invalid weight
// falls back to the metric's default; a present zero disables the metric.
type Config map[string]float64

// Metrics is one member's raw totals for a single week.
type Metrics struct {
	Steps          float64
	ActiveCalories float64
	DistanceKM     float64
	SleepMinutes   float64
	WorkoutMinutes float64
}

type metricDef struct {
	key           string
	defaultWeight float64
	// weeklyMax caps the raw value before weighting. The caps are
	// generous (e.g. 50k steps/day) and exist to bound corrupt totals.
	weeklyMax float64
}

var metricDefs = []metricDef{
	{key: MetricSteps, defaultWeight: 0.001, weeklyMax: 350000},
	{key: MetricActiveCalories, defaultWeight: 0.02, weeklyMax: 70000},
	{key: MetricDistanceKM, defaultWeight: 1.0, weeklyMax: 700},
	{key: MetricSleepMinutes, defaultWeight: 0.05, weeklyMax: 4200},
	{key: MetricWorkoutMinutes, defaultWeight: 0.25, weeklyMax: 2520},
}

func (m Metrics) value(key string) float64 {
	switch key {
	case MetricSteps:
		return m.Steps
	case MetricActiveCalories:
		return m.ActiveCalories
	case MetricDistanceKM:
		return m.DistanceKM
	case MetricSleepMinutes:
		return m.SleepMinutes
	case MetricWorkoutMinutes:
		return m.WorkoutMinutes
	default:
		return 0
	}
}

// DefaultConfig returns the default weight for every known metric.
func DefaultConfig() Config {
	out := make(Config, len(metricDefs))
	for _, def := range metricDefs {
		out[def.key] = def.defaultWeight
	}
	return out
}

// ValidConfigKey reports whether key names a known metric.
func ValidConfigKey(key string) bool {
	for _, def := range metricDefs {
		if def.key == key {
			return true
		}
	}
	return false
}

// Score computes the weighted point total for one week of metrics,
// rounded to two decimals. Unknown keys in cfg are ignored.
func Score(m Metrics, cfg Config) float64 {
	total := 0.0
	for _, def := range metricDefs {
		value := clamp(m.value(def.key), def.weeklyMax)
		total += value * weightFor(cfg, def)
	}
	return Round2(total)
}

func weightFor(cfg Config, def metricDef) float64 {
	if cfg == nil {
		return def.defaultWeight
	}
	w, ok := cfg[def.key]
	if !ok {
		return def.defaultWeight
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return def.defaultWeight
	}
	return w
}

func clamp(v, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Round2 rounds to two decimal places, the precision every stored point
// total carries. Non-finite input rounds to zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
