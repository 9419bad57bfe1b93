package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/trailworks/scent-colony/pkg/colony"
)

const logPrefix = "dispatcher:dispatch"

// Dispatcher routes COMMS requests to colony operations.
type Dispatcher struct {
	colony *colony.Colony
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(c *colony.Colony) *Dispatcher {
	return &Dispatcher{colony: c}
}

// Dispatch routes a request to the appropriate colony operation and returns
// a response. Routing misses inside the colony are not wire errors: a send
// whose receiver does not exist still answers Ok. A handler fault answers
// HANDLER_FAULT, keeping the two failure classes distinct on the wire.
func (d *Dispatcher) Dispatch(ctx context.Context, req *ColonyRequest) *ColonyResponse {
	slog.Debug(fmt.Sprintf("%s - method=%s id=%s", logPrefix, req.Method, req.ID))

	switch req.Method {
	case "send":
		return d.handleSend(ctx, req)
	case "fade":
		return d.handleFade(req)
	case "highways":
		return d.handleHighways(req)
	case "stats":
		return d.handleStats(req)
	default:
		return errorResponse(req.ID, "METHOD_NOT_FOUND", fmt.Sprintf("Unknown method: %s", req.Method), false)
	}
}

func (d *Dispatcher) handleSend(ctx context.Context, req *ColonyRequest) *ColonyResponse {
	var params SendParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, "INVALID_ARGUMENT", "Failed to parse send params", false)
	}
	if params.Envelope.Receiver == "" {
		return errorResponse(req.ID, "INVALID_ARGUMENT", "Envelope receiver is required", false)
	}

	from := params.From
	if from == "" {
		from = colony.EntrySource
	}

	if err := d.colony.SendFrom(ctx, &params.Envelope, from); err != nil {
		return errorResponse(req.ID, "HANDLER_FAULT", err.Error(), false)
	}
	return &ColonyResponse{ID: req.ID, Ok: true}
}

func (d *Dispatcher) handleFade(req *ColonyRequest) *ColonyResponse {
	var params FadeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, "INVALID_ARGUMENT", "Failed to parse fade params", false)
		}
	}
	if params.Rate < 0 || params.Rate >= 1 {
		return errorResponse(req.ID, "INVALID_ARGUMENT", "Fade rate must be in [0, 1)", false)
	}

	d.colony.Fade(params.Rate)
	return &ColonyResponse{ID: req.ID, Ok: true, Result: d.colony.Stats()}
}

func (d *Dispatcher) handleHighways(req *ColonyRequest) *ColonyResponse {
	var params HighwaysParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, "INVALID_ARGUMENT", "Failed to parse highways params", false)
		}
	}
	if params.K < 0 {
		return errorResponse(req.ID, "INVALID_ARGUMENT", "k must not be negative", false)
	}

	return &ColonyResponse{ID: req.ID, Ok: true, Result: d.colony.Highways(params.K)}
}

func (d *Dispatcher) handleStats(req *ColonyRequest) *ColonyResponse {
	return &ColonyResponse{ID: req.ID, Ok: true, Result: d.colony.Stats()}
}

// --- helpers ---

func errorResponse(id, code, message string, retryable bool) *ColonyResponse {
	return &ColonyResponse{
		ID: id,
		Ok: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}
