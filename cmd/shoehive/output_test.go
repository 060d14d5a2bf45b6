package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

func TestParseData(t *testing.T) {
	data, err := parseData(`{"tableId":"t1","seatIndex":2}`)
	if err != nil {
		t.Fatalf("parseData failed: %v", err)
	}
	if data["tableId"] != "t1" || data["seatIndex"] != 2.0 {
		t.Errorf("data = %v", data)
	}

	if data, err := parseData("  "); err != nil || data != nil {
		t.Errorf("parseData(blank) = %v, %v", data, err)
	}
	if _, err := parseData(`[1,2]`); err == nil {
		t.Error("expected error for non-object JSON")
	}
}

func TestPrintMessage(t *testing.T) {
	msg := shoehive.Message{"type": "table:state", "seats": []any{}, "id": "t1"}

	var buf bytes.Buffer
	printMessage(&buf, msg, false)
	if got := buf.String(); !strings.Contains(got, "table:state {id, seats}") {
		t.Errorf("summary = %q", got)
	}

	buf.Reset()
	printMessage(&buf, msg, true)
	if got := buf.String(); !strings.Contains(got, `"id": "t1"`) {
		t.Errorf("verbose = %q", got)
	}

	buf.Reset()
	printMessage(&buf, shoehive.Message{"note": "x"}, false)
	if got := buf.String(); !strings.Contains(got, "(untyped) {note}") {
		t.Errorf("untyped = %q", got)
	}
}
