package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPromptID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PromptID
	}{
		{name: "number", input: `{"id": 42}`, want: "42"},
		{name: "object id string", input: `{"id": "699e6ef5568cc2f65a8fa04f"}`, want: "699e6ef5568cc2f65a8fa04f"},
		{name: "null", input: `{"id": null}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp GenerateResponse
			if err := json.Unmarshal([]byte(tt.input), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.ID != tt.want {
				t.Errorf("ID = %q, want %q", resp.ID, tt.want)
			}
		})
	}
}

func TestPromptID_RejectsObjects(t *testing.T) {
	var resp GenerateResponse
	if err := json.Unmarshal([]byte(`{"id": {"oid": "x"}}`), &resp); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestParsePreference(t *testing.T) {
	tests := []struct {
		input   string
		want    Preference
		wantErr bool
	}{
		{input: "A", want: PreferenceA},
		{input: "b", want: PreferenceB},
		{input: " tie ", want: PreferenceTie},
		{input: "C", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePreference(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPreference) {
					t.Fatalf("expected ErrInvalidPreference, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewGenerateRequest_FlatFieldNames(t *testing.T) {
	req := NewGenerateRequest("Explain recursion", "", DefaultParamsA(), DefaultParamsB())

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, key := range []string{
		`"prompt":"Explain recursion"`,
		`"model_name":"gpt-3.5-turbo"`,
		`"temperature_a":0.7`,
		`"temperature_b":0.9`,
		`"max_tokens_a":500`,
		`"max_tokens_b":500`,
		`"top_p_a":1`,
		`"frequency_penalty_b":0`,
		`"presence_penalty_a":0`,
	} {
		if !strings.Contains(s, key) {
			t.Errorf("request JSON missing %s\ngot: %s", key, s)
		}
	}
}

func TestNewGenerateRequest_KeepsModelName(t *testing.T) {
	req := NewGenerateRequest("hi", "gpt-4o-mini", DefaultParamsA(), DefaultParamsB())
	if req.ModelName != "gpt-4o-mini" {
		t.Errorf("ModelName = %q", req.ModelName)
	}
}

func TestStats_DecodesBackendShape(t *testing.T) {
	body := `{"total_prompts": 10, "with_preference": 7, "without_preference": 3,
		"preference_a": 4, "preference_b": 2, "ties": 1, "training_pairs": 6}`
	var s Stats
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.TotalPrompts != 10 || s.TrainingPairs != 6 || s.PreferenceA != 4 || s.PreferenceB != 2 || s.Ties != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}
