package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Operation  string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Operation, e.StatusCode, msg)
}

// Message extracts the backend's error text from {"error": ...} or
// {"detail": ...} bodies. Field validation errors are flattened.
func (e *HTTPError) Message() string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return strings.TrimSpace(truncate(string(e.Body), 200))
	}
	for _, key := range []string{"error", "detail"} {
		if raw, ok := body[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return s
			}
		}
	}
	var parts []string
	for field, raw := range body {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			parts = append(parts, field+": "+strings.Join(msgs, " "))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
