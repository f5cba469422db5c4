package cmd

import (
	"encoding/json"
	"io"
	"os"
)

var stdout io.Writer = os.Stdout

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
