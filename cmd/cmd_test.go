package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timvw/prompt-selector/internal/model"
)

type backendStub struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (b *backendStub) paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// execute runs the CLI against a stub backend and returns stdout.
func execute(t *testing.T, responses map[string]string, args ...string) (string, *backendStub, error) {
	t.Helper()
	stub := &backendStub{bodies: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path
		stub.mu.Lock()
		stub.requests = append(stub.requests, key)
		stub.bodies[key] = string(body)
		stub.mu.Unlock()
		resp, ok := responses[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("PROMPT_SELECTOR_BASE_URL", srv.URL+"/api")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	// Flag values outlive a single Execute.
	flagBaseURL, flagModel, flagVerbose = "", "", false
	flagExportOut, flagPending = "", false

	var out bytes.Buffer
	stdout = &out
	t.Cleanup(func() { stdout = os.Stdout })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), stub, err
}

func TestStatsCommand(t *testing.T) {
	out, stub, err := execute(t, map[string]string{
		"GET /api/prompts/stats/": `{"total_prompts": 4, "training_pairs": 3, "preference_a": 2, "preference_b": 1}`,
	}, "stats")
	require.NoError(t, err)

	var s model.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 4, s.TotalPrompts)
	assert.Equal(t, 3, s.TrainingPairs)
	assert.Equal(t, []string{"GET /api/prompts/stats/"}, stub.paths())
}

func TestGenerateCommand(t *testing.T) {
	out, stub, err := execute(t, map[string]string{
		"POST /api/prompts/generate/": `{"id": 42, "response_a": "one", "response_b": "two"}`,
	}, "generate", "--temperature-b", "1.5", "Explain", "recursion")
	require.NoError(t, err)
	assert.Contains(t, out, `"response_a": "one"`)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(stub.bodies["POST /api/prompts/generate/"]), &sent))
	assert.Equal(t, "Explain recursion", sent["prompt"])
	assert.Equal(t, 0.7, sent["temperature_a"])
	assert.Equal(t, 1.5, sent["temperature_b"])
}

func TestPreferCommand(t *testing.T) {
	out, stub, err := execute(t, map[string]string{
		"POST /api/prompts/42/record-preference/": `{"id": "42", "preference": "TIE"}`,
	}, "prefer", "42", "tie")
	require.NoError(t, err)
	assert.Contains(t, out, `"TIE"`)
	assert.JSONEq(t, `{"preference": "TIE"}`, stub.bodies["POST /api/prompts/42/record-preference/"])
}

func TestPreferCommand_InvalidChoiceMakesNoRequest(t *testing.T) {
	_, stub, err := execute(t, nil, "prefer", "42", "C")
	require.ErrorIs(t, err, model.ErrInvalidPreference)
	assert.Empty(t, stub.paths())
}

func TestExportCommand(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "exports")
	out, _, err := execute(t, map[string]string{
		"GET /api/prompts/export-training-data/": `{"count":1,"data":[{"prompt":"p","chosen":"a","rejected":"b","metadata":{}}]}`,
	}, "export", "--dir", outDir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, outDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "training-data-"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"data":[{"prompt":"p","chosen":"a","rejected":"b","metadata":{}}]}`, string(data))
}

func TestExportCommand_BackendError(t *testing.T) {
	_, _, err := execute(t, nil, "export", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporting data")
}

func TestPromptsCommand_Pending(t *testing.T) {
	out, _, err := execute(t, map[string]string{
		"GET /api/prompts/": `[{"_id": "1", "prompt_text": "a", "preference": "A"}, {"_id": "2", "prompt_text": "b"}]`,
	}, "prompts", "--pending")
	require.NoError(t, err)

	var prompts []model.Prompt
	require.NoError(t, json.Unmarshal([]byte(out), &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, model.PromptID("2"), prompts[0].ID)
}

func TestPending(t *testing.T) {
	a := model.PreferenceA
	tests := []struct {
		name string
		in   []model.Prompt
		want int
	}{
		{"empty", nil, 0},
		{"all judged", []model.Prompt{{ID: "1", Preference: &a}}, 0},
		{"mixed", []model.Prompt{{ID: "1", Preference: &a}, {ID: "2"}, {ID: "3"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, pending(tt.in), tt.want)
		})
	}
}
