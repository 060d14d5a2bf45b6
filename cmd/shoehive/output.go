package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

// printMessage writes one inbound message. Verbose output is the full JSON;
// otherwise the type and the sorted top-level keys are printed.
func printMessage(w io.Writer, msg shoehive.Message, verbose bool) {
	ts := time.Now().Format("15:04:05.000")
	typ := msg.Type()
	if typ == "" {
		typ = "(untyped)"
	}

	if verbose {
		data, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "[%s] %s <unprintable: %v>\n", ts, typ, err)
			return
		}
		fmt.Fprintf(w, "[%s] %s\n%s\n", ts, typ, data)
		return
	}

	keys := slices.Sorted(maps.Keys(msg))
	keys = slices.DeleteFunc(keys, func(k string) bool { return k == "type" })
	fmt.Fprintf(w, "[%s] %s {%s}\n", ts, typ, strings.Join(keys, ", "))
}

// parseData decodes the --data flag into a command payload.
func parseData(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	return data, nil
}
