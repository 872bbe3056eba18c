package domain

import "encoding/json"

// Envelope is the response wrapper every LAMF service endpoint returns.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Summary json.RawMessage `json:"summary,omitempty"`
	Message string          `json:"message,omitempty"`
}
