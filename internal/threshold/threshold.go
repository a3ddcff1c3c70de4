// Package threshold converts per-word typing times into a personalized,
// length-scaled hesitation threshold.
package threshold

import (
	"math"
	"sort"
	"time"
)

const (
	DefaultBaseTime       = 0.7
	DefaultSecondsPerChar = 0.4
	SafetyMultiplier      = 1.3

	MinSecondsPerChar = 0.1
	MaxSecondsPerChar = 2.0
	MinBaseTime       = 0.4
	MaxBaseTime       = 1.0

	// MinSamples is the number of valid samples needed to calibrate.
	MinSamples = 3
	// Percentile selects the representative per-char time.
	Percentile = 0.75
	// Alpha is the smoothing factor for ongoing adjustment.
	Alpha = 0.05
)

// Params define the hesitation time function.
type Params struct {
	BaseTime         float64
	SecondsPerChar   float64
	SafetyMultiplier float64
	SampleCount      int
	LastUpdated      time.Time
}

// Sample is the time taken to type a word of the given length.
type Sample struct {
	Length  int
	Seconds float64
}

// Defaults returns the parameters used before any calibration.
func Defaults() Params {
	return Params{
		BaseTime:         DefaultBaseTime,
		SecondsPerChar:   DefaultSecondsPerChar,
		SafetyMultiplier: SafetyMultiplier,
	}
}

// Threshold returns the hesitation threshold in seconds for a word length.
func (p Params) Threshold(length int) float64 {
	if length < 0 {
		length = 0
	}
	mult := p.SafetyMultiplier
	if mult <= 0 {
		mult = SafetyMultiplier
	}
	return (p.BaseTime + float64(length)*p.SecondsPerChar) * mult
}

// ThresholdDuration is Threshold as a time.Duration.
func (p Params) ThresholdDuration(length int) time.Duration {
	return time.Duration(p.Threshold(length) * float64(time.Second))
}

// Calibrate derives initial parameters from placement timings. With fewer than
// MinSamples valid samples the defaults are returned.
func Calibrate(samples []Sample, now time.Time) Params {
	perChar := perCharTimes(samples)
	if len(perChar) < MinSamples {
		return Defaults()
	}
	spc := clamp(percentile(perChar, Percentile), MinSecondsPerChar, MaxSecondsPerChar)
	return Params{
		BaseTime:         baseTimeFor(spc),
		SecondsPerChar:   spc,
		SafetyMultiplier: SafetyMultiplier,
		SampleCount:      len(perChar),
		LastUpdated:      now,
	}
}

// Adjust blends a session's timings into existing parameters with
// exponential smoothing. With fewer than MinSamples valid samples the input
// is returned unchanged.
func Adjust(p Params, samples []Sample, now time.Time) Params {
	perChar := perCharTimes(samples)
	if len(perChar) < MinSamples {
		return p
	}
	sample := clamp(percentile(perChar, Percentile), MinSecondsPerChar, MaxSecondsPerChar)
	spc := p.SecondsPerChar*(1-Alpha) + sample*Alpha
	base := p.BaseTime*(1-Alpha) + baseTimeFor(spc)*Alpha

	return Params{
		BaseTime:         clamp(base, MinBaseTime, MaxBaseTime),
		SecondsPerChar:   clamp(spc, MinSecondsPerChar, MaxSecondsPerChar),
		SafetyMultiplier: SafetyMultiplier,
		SampleCount:      p.SampleCount + len(perChar),
		LastUpdated:      now,
	}
}

// Clamp forces stored parameters back within their bounds.
func (p Params) Clamp() Params {
	p.BaseTime = clamp(p.BaseTime, MinBaseTime, MaxBaseTime)
	p.SecondsPerChar = clamp(p.SecondsPerChar, MinSecondsPerChar, MaxSecondsPerChar)
	p.SafetyMultiplier = SafetyMultiplier
	return p
}

func baseTimeFor(secondsPerChar float64) float64 {
	return clamp(0.5*secondsPerChar, MinBaseTime, MaxBaseTime)
}

func perCharTimes(samples []Sample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Length <= 0 {
			continue
		}
		v := s.Seconds / float64(s.Length)
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// percentile uses the nearest-rank method.
func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
