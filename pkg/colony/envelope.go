// Package colony implements the signal routing and reinforcement core: units,
// envelopes, the scent ledger, and the highway query.
package colony

import "context"

// EntrySource is the pseudo-source recorded for envelopes that enter the
// colony from outside (no originating unit). It carries no task suffix in
// edge keys.
const EntrySource = "entry"

// Envelope is the message unit: a destination, an opaque payload, and an
// optional nested callback envelope. An envelope is consumed exactly once;
// chains are sequences of freshly constructed envelopes, never a shared
// mutated object.
type Envelope struct {
	Receiver string    `json:"receiver"`
	Receive  string    `json:"receive,omitempty"`
	Payload  any       `json:"payload,omitempty"`
	Callback *Envelope `json:"callback,omitempty"`
}

// Handler processes an envelope's payload and returns a result for the
// continuation step. Handler errors propagate to the root Send caller.
type Handler func(ctx context.Context, payload any) (any, error)

// Continuation maps a handler's result to the next envelope in a chain.
// Returning nil terminates the chain, which is a normal terminal state.
type Continuation func(result any) *Envelope

// Template builds a declarative Continuation: the payload is re-substituted
// against each result via Substitute, so the template stays reusable across
// deliveries.
func Template(receiver, receive string, payload any) Continuation {
	return func(result any) *Envelope {
		return &Envelope{
			Receiver: receiver,
			Receive:  receive,
			Payload:  Substitute(payload, result),
		}
	}
}
