package setup

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
)

type Payload interface {
	GetType() string
}

type message struct {
	Type      string  `json:"type"`
	Operation string  `json:"operation,omitempty"`
	Payload   Payload `json:"payload"`
}

// JSONReporter writes one JSON object per line for every report, so that
// another program can drive the installer.
type JSONReporter struct {
	mu        sync.Mutex
	w         io.Writer
	operation string
}

var _ Reporter = (*JSONReporter)(nil)
var _ OperationTagger = (*JSONReporter)(nil)

func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

func (jr *JSONReporter) Emit(p Payload) {
	jr.mu.Lock()
	defer jr.mu.Unlock()

	m := &message{
		Type:      p.GetType(),
		Operation: jr.operation,
		Payload:   p,
	}

	bs, err := json.Marshal(m)
	if err != nil {
		log.Printf("Could not send JSON object: %+v", err)
		return
	}

	fmt.Fprintf(jr.w, "%s\n", string(bs))
}

func (jr *JSONReporter) SetOperation(id string) {
	jr.mu.Lock()
	defer jr.mu.Unlock()
	jr.operation = id
}

func (jr *JSONReporter) ReportStatus(text string) {
	jr.Emit(Status{Text: text})
}

func (jr *JSONReporter) ReportProgress(percent int) {
	jr.Emit(Progress{Percent: percent})
}

func (jr *JSONReporter) ReportCompletion(success bool, msg string) {
	jr.Emit(Completion{Success: success, Message: msg})
}

func (jr *JSONReporter) SetTriggersEnabled(enabled bool) {
	jr.Emit(Triggers{Enabled: enabled})
}

//-------------------------------

type Status struct {
	Text string `json:"text"`
}

func (p Status) GetType() string { return "status" }

//-------------------------------

type Progress struct {
	Percent int `json:"percent"`
}

func (p Progress) GetType() string { return "progress" }

//-------------------------------

type Completion struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (p Completion) GetType() string { return "completion" }

//-------------------------------

type Triggers struct {
	Enabled bool `json:"enabled"`
}

func (p Triggers) GetType() string { return "triggers" }
