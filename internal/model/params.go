package model

import (
	"fmt"
	"math"
)

// Field identifies one of the five sampling parameters.
type Field int

const (
	FieldTemperature Field = iota
	FieldMaxTokens
	FieldTopP
	FieldFrequencyPenalty
	FieldPresencePenalty
)

// Fields lists all sampling fields in display order.
var Fields = []Field{FieldTemperature, FieldMaxTokens, FieldTopP, FieldFrequencyPenalty, FieldPresencePenalty}

// Range is the slider range and step of a field.
type Range struct {
	Min, Max, Step float64
}

var ranges = map[Field]Range{
	FieldTemperature:      {Min: 0, Max: 2, Step: 0.1},
	FieldMaxTokens:        {Min: 50, Max: 2000, Step: 50},
	FieldTopP:             {Min: 0, Max: 1, Step: 0.05},
	FieldFrequencyPenalty: {Min: -2, Max: 2, Step: 0.1},
	FieldPresencePenalty:  {Min: -2, Max: 2, Step: 0.1},
}

// RangeOf returns the range of f.
func RangeOf(f Field) Range {
	return ranges[f]
}

// Label returns the display name of f.
func (f Field) Label() string {
	switch f {
	case FieldTemperature:
		return "Temperature"
	case FieldMaxTokens:
		return "Max Tokens"
	case FieldTopP:
		return "Top P"
	case FieldFrequencyPenalty:
		return "Frequency Penalty"
	case FieldPresencePenalty:
		return "Presence Penalty"
	}
	return "unknown"
}

// SamplingParams is the sampling configuration of one response variant.
// Fields are independent; there is no cross-field invariant.
type SamplingParams struct {
	Temperature      float64 `yaml:"temperature" json:"temperature"`
	MaxTokens        int     `yaml:"max_tokens" json:"max_tokens"`
	TopP             float64 `yaml:"top_p" json:"top_p"`
	FrequencyPenalty float64 `yaml:"frequency_penalty" json:"frequency_penalty"`
	PresencePenalty  float64 `yaml:"presence_penalty" json:"presence_penalty"`
}

// DefaultParamsA returns the variant A defaults.
func DefaultParamsA() SamplingParams {
	return SamplingParams{Temperature: 0.7, MaxTokens: 500, TopP: 1.0}
}

// DefaultParamsB returns the variant B defaults. B samples hotter than A.
func DefaultParamsB() SamplingParams {
	return SamplingParams{Temperature: 0.9, MaxTokens: 500, TopP: 1.0}
}

// Get returns the value of f as a float.
func (p SamplingParams) Get(f Field) float64 {
	switch f {
	case FieldTemperature:
		return p.Temperature
	case FieldMaxTokens:
		return float64(p.MaxTokens)
	case FieldTopP:
		return p.TopP
	case FieldFrequencyPenalty:
		return p.FrequencyPenalty
	case FieldPresencePenalty:
		return p.PresencePenalty
	}
	return 0
}

// Set stores v into f after clamping to the field range and snapping to its step.
func (p *SamplingParams) Set(f Field, v float64) {
	v = RangeOf(f).Snap(v)
	switch f {
	case FieldTemperature:
		p.Temperature = v
	case FieldMaxTokens:
		p.MaxTokens = int(math.Round(v))
	case FieldTopP:
		p.TopP = v
	case FieldFrequencyPenalty:
		p.FrequencyPenalty = v
	case FieldPresencePenalty:
		p.PresencePenalty = v
	}
}

// Step moves f by n steps (negative n moves down).
func (p *SamplingParams) Step(f Field, n int) {
	p.Set(f, p.Get(f)+float64(n)*RangeOf(f).Step)
}

// Format renders the value of f the way the sliders label it.
func (p SamplingParams) Format(f Field) string {
	if f == FieldMaxTokens {
		return fmt.Sprintf("%d", p.MaxTokens)
	}
	return fmt.Sprintf("%.2f", p.Get(f))
}

// Normalize clamps and snaps every field. Used for values read from config.
func (p SamplingParams) Normalize() SamplingParams {
	for _, f := range Fields {
		p.Set(f, p.Get(f))
	}
	return p
}

// Snap clamps v into [Min, Max] and rounds it to the nearest step.
func (r Range) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Step > 0 {
		steps := math.Round((v - r.Min) / r.Step)
		v = r.Min + steps*r.Step
		// trim float noise such as 0.30000000000000004
		v = math.Round(v*1e6) / 1e6
		if v > r.Max {
			v = r.Max
		}
	}
	return v
}

// Fraction returns where v sits within the range, in [0, 1].
func (r Range) Fraction(v float64) float64 {
	if r.Max <= r.Min {
		return 0
	}
	f := (v - r.Min) / (r.Max - r.Min)
	return math.Max(0, math.Min(1, f))
}
