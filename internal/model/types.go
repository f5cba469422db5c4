package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultModelName is sent when no model is configured.
const DefaultModelName = "gpt-3.5-turbo"

// PromptID is the opaque identifier the backend assigns to a prompt session.
// Backends emit it either as a JSON string (Mongo ObjectId) or as a number.
type PromptID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *PromptID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PromptID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("prompt id: expected string or number, got %s", data)
	}
	*id = PromptID(n.String())
	return nil
}

func (id PromptID) String() string {
	return string(id)
}

// Preference is the user's choice among the two responses.
type Preference string

const (
	PreferenceA   Preference = "A"
	PreferenceB   Preference = "B"
	PreferenceTie Preference = "TIE"
)

// ErrInvalidPreference is returned for choices outside {A, B, TIE}.
var ErrInvalidPreference = errors.New("preference must be one of A, B, TIE")

// ParsePreference normalizes user input ("a", "tie", ...) into a Preference.
func ParsePreference(s string) (Preference, error) {
	p := Preference(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
	}
	return p, nil
}

// Valid reports whether p is one of the accepted choices.
func (p Preference) Valid() bool {
	switch p {
	case PreferenceA, PreferenceB, PreferenceTie:
		return true
	}
	return false
}

// GenerateRequest is the flat payload for POST /prompts/generate/.
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	ModelName string `json:"model_name"`

	TemperatureA      float64 `json:"temperature_a"`
	MaxTokensA        int     `json:"max_tokens_a"`
	TopPA             float64 `json:"top_p_a"`
	FrequencyPenaltyA float64 `json:"frequency_penalty_a"`
	PresencePenaltyA  float64 `json:"presence_penalty_a"`

	TemperatureB      float64 `json:"temperature_b"`
	MaxTokensB        int     `json:"max_tokens_b"`
	TopPB             float64 `json:"top_p_b"`
	FrequencyPenaltyB float64 `json:"frequency_penalty_b"`
	PresencePenaltyB  float64 `json:"presence_penalty_b"`
}

// NewGenerateRequest flattens the two variant configurations into the
// request shape the backend expects. An empty model name falls back to
// DefaultModelName.
func NewGenerateRequest(prompt, modelName string, a, b SamplingParams) GenerateRequest {
	if modelName == "" {
		modelName = DefaultModelName
	}
	return GenerateRequest{
		Prompt:            prompt,
		ModelName:         modelName,
		TemperatureA:      a.Temperature,
		MaxTokensA:        a.MaxTokens,
		TopPA:             a.TopP,
		FrequencyPenaltyA: a.FrequencyPenalty,
		PresencePenaltyA:  a.PresencePenalty,
		TemperatureB:      b.Temperature,
		MaxTokensB:        b.MaxTokens,
		TopPB:             b.TopP,
		FrequencyPenaltyB: b.FrequencyPenalty,
		PresencePenaltyB:  b.PresencePenalty,
	}
}

// GenerateResponse is returned by POST /prompts/generate/.
type GenerateResponse struct {
	ID        PromptID `json:"id"`
	ResponseA string   `json:"response_a"`
	ResponseB string   `json:"response_b"`

	// Echo fields; optional. Timestamps stay as sent since backends differ
	// in format (naive or zoned, any precision).
	Prompt       string  `json:"prompt,omitempty"`
	ModelName    string  `json:"model_name,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	TemperatureA float64 `json:"temperature_a,omitempty"`
	TemperatureB float64 `json:"temperature_b,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// PreferenceRequest is the payload for POST /prompts/{id}/record-preference/.
type PreferenceRequest struct {
	Preference Preference `json:"preference"`
}

// PreferenceAck is the backend's acknowledgement of a recorded preference.
type PreferenceAck struct {
	ID                   PromptID   `json:"id"`
	Preference           Preference `json:"preference"`
	PreferenceRecordedAt string     `json:"preference_recorded_at,omitempty"`
}

// Stats is the aggregate snapshot returned by GET /prompts/stats/.
type Stats struct {
	TotalPrompts  int `json:"total_prompts"`
	TrainingPairs int `json:"training_pairs"`
	PreferenceA   int `json:"preference_a"`
	PreferenceB   int `json:"preference_b"`

	WithPreference    int `json:"with_preference,omitempty"`
	WithoutPreference int `json:"without_preference,omitempty"`
	Ties              int `json:"ties,omitempty"`
}

// Prompt is one stored session as listed by GET /prompts/.
type Prompt struct {
	ID         PromptID    `json:"_id"`
	PromptText string      `json:"prompt_text"`
	ResponseA  string      `json:"response_a"`
	ResponseB  string      `json:"response_b"`
	ModelName  string      `json:"model_name"`
	Preference *Preference `json:"preference"`

	TemperatureA      float64 `json:"temperature_a"`
	MaxTokensA        int     `json:"max_tokens_a"`
	TopPA             float64 `json:"top_p_a"`
	FrequencyPenaltyA float64 `json:"frequency_penalty_a"`
	PresencePenaltyA  float64 `json:"presence_penalty_a"`

	TemperatureB      float64 `json:"temperature_b"`
	MaxTokensB        int     `json:"max_tokens_b"`
	TopPB             float64 `json:"top_p_b"`
	FrequencyPenaltyB float64 `json:"frequency_penalty_b"`
	PresencePenaltyB  float64 `json:"presence_penalty_b"`

	PreferenceRecordedAt string `json:"preference_recorded_at,omitempty"`
	CreatedAt            string `json:"created_at,omitempty"`
}

// ExportPayload is the export endpoint's body, kept byte-for-byte.
type ExportPayload = json.RawMessage
