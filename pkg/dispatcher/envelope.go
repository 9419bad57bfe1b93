// Package dispatcher routes incoming COMMS messages to colony operations.
package dispatcher

import (
	"encoding/json"

	"github.com/trailworks/scent-colony/pkg/colony"
)

// ColonyRequest is the JSON envelope for incoming COMMS colony requests.
type ColonyRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// ColonyResponse is the JSON envelope for COMMS colony responses.
type ColonyResponse struct {
	ID     string       `json:"id"`
	Ok     bool         `json:"ok"`
	Result interface{}  `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// SendParams holds parameters for the send method.
type SendParams struct {
	Envelope colony.Envelope `json:"envelope"`
	From     string          `json:"from,omitempty"`
}

// FadeParams holds parameters for the fade method. A zero rate uses the
// colony default.
type FadeParams struct {
	Rate float64 `json:"rate,omitempty"`
}

// HighwaysParams holds parameters for the highways method. A zero k uses
// the colony default.
type HighwaysParams struct {
	K int `json:"k,omitempty"`
}
