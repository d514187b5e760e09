package harness

import (
	"encoding/json"
	"strings"
)

// MessageType represents the type of JSON message emitted by airplay-setup
type MessageType string

const (
	TypeStatus     MessageType = "status"
	TypeProgress   MessageType = "progress"
	TypeCompletion MessageType = "completion"
	TypeTriggers   MessageType = "triggers"
)

// Message represents a parsed JSON message from airplay-setup stdout
type Message struct {
	Type      MessageType     `json:"type"`
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

// StatusPayload contains the status line
type StatusPayload struct {
	Text string `json:"text"`
}

// ProgressPayload contains overall progress
type ProgressPayload struct {
	Percent int `json:"percent"`
}

// CompletionPayload ends an operation
type CompletionPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ParseMessage parses a single line of JSON output
func ParseMessage(line string) (Message, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "{") {
		return Message{}, false
	}

	var msg Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return Message{}, false
	}

	return msg, true
}

// GetStatusPayload extracts the payload for status messages
func (m Message) GetStatusPayload() (*StatusPayload, bool) {
	if m.Type != TypeStatus {
		return nil, false
	}
	var p StatusPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// GetProgressPayload extracts the payload for progress messages
func (m Message) GetProgressPayload() (*ProgressPayload, bool) {
	if m.Type != TypeProgress {
		return nil, false
	}
	var p ProgressPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// GetCompletionPayload extracts the payload for completion messages
func (m Message) GetCompletionPayload() (*CompletionPayload, bool) {
	if m.Type != TypeCompletion {
		return nil, false
	}
	var p CompletionPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// HasMessageType checks if the result contains a message of the given type
func (r *Result) HasMessageType(t MessageType) bool {
	for _, msg := range r.Messages {
		if msg.Type == t {
			return true
		}
	}
	return false
}

// GetLastMessageOfType returns the last message of the given type
func (r *Result) GetLastMessageOfType(t MessageType) *Message {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Type == t {
			msg := r.Messages[i]
			return &msg
		}
	}
	return nil
}

// GetAllMessagesOfType returns all messages of the given type
func (r *Result) GetAllMessagesOfType(t MessageType) []Message {
	var result []Message
	for _, msg := range r.Messages {
		if msg.Type == t {
			result = append(result, msg)
		}
	}
	return result
}

// Completion returns the payload of the last completion message
func (r *Result) Completion() (*CompletionPayload, bool) {
	msg := r.GetLastMessageOfType(TypeCompletion)
	if msg == nil {
		return nil, false
	}
	return msg.GetCompletionPayload()
}
