package setup

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONReporter(t *testing.T) {
	buf := new(bytes.Buffer)
	jr := NewJSONReporter(buf)

	jr.SetTriggersEnabled(false)
	jr.SetOperation("op-1")
	jr.ReportStatus("Downloading..")
	jr.ReportProgress(42)
	jr.ReportCompletion(true, "AirPlay has been installed successfully!")

	type line struct {
		Type      string          `json:"type"`
		Operation string          `json:"operation"`
		Payload   json.RawMessage `json:"payload"`
	}

	var lines []line
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var l line
		err := json.Unmarshal(scanner.Bytes(), &l)
		if err != nil {
			t.Fatalf("Line %q is not JSON: %v", scanner.Text(), err)
		}
		lines = append(lines, l)
	}

	expectedTypes := []string{"triggers", "status", "progress", "completion"}
	if len(lines) != len(expectedTypes) {
		t.Fatalf("Expected %d lines, got %d", len(expectedTypes), len(lines))
	}
	for i, typ := range expectedTypes {
		if lines[i].Type != typ {
			t.Errorf("Line %d: expected type %s, got %s", i, typ, lines[i].Type)
		}
	}

	if lines[0].Operation != "" {
		t.Errorf("Expected no operation before SetOperation, got %s", lines[0].Operation)
	}
	if lines[2].Operation != "op-1" {
		t.Errorf("Expected operation op-1, got %s", lines[2].Operation)
	}

	var progress Progress
	err := json.Unmarshal(lines[2].Payload, &progress)
	if err != nil || progress.Percent != 42 {
		t.Errorf("Unexpected progress payload %s (%v)", string(lines[2].Payload), err)
	}

	var done Completion
	err = json.Unmarshal(lines[3].Payload, &done)
	if err != nil || !done.Success {
		t.Errorf("Unexpected completion payload %s (%v)", string(lines[3].Payload), err)
	}
}
