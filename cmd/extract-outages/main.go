// Command extract-outages reads announcement text from stdin and prints
// the extracted outage records as JSON. Useful for checking what the
// extractor makes of a specific message.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"outage-reminder/internal/classify"
	"outage-reminder/internal/config"
	"outage-reminder/internal/extract"
)

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading stdin: %v\n", err)
		os.Exit(1)
	}
	text := string(data)

	cfg := config.Load()
	extractor := extract.New(cfg.Location())

	if !classify.IsOutage(text) {
		fmt.Fprintln(os.Stderr, "warning: text does not classify as an outage announcement")
	}

	records := extractor.Extract(text, time.Now())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		fmt.Fprintf(os.Stderr, "encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
