package colony

import (
	"context"
	"fmt"
	"sync"
)

const unitLogPrefix = "colony:unit"

// outboundFunc is the private dispatch callback a unit receives at spawn
// time. Units never hold references to the colony or to each other.
type outboundFunc func(ctx context.Context, env *Envelope, from string) error

// Unit is a named task/continuation registry. Its maps may be extended at
// any time; registration is an idempotent overwrite keyed by task name.
type Unit struct {
	id       string
	outbound outboundFunc

	mu            sync.RWMutex
	tasks         map[string]Handler
	continuations map[string]Continuation
	fallback      Handler
}

func newUnit(id string, outbound outboundFunc) *Unit {
	return &Unit{
		id:            id,
		outbound:      outbound,
		tasks:         make(map[string]Handler),
		continuations: make(map[string]Continuation),
	}
}

// ID returns the unit's name.
func (u *Unit) ID() string {
	return u.id
}

// On registers (or overwrites) the handler for a task. Chainable.
func (u *Unit) On(task string, h Handler) *Unit {
	u.mu.Lock()
	u.tasks[task] = h
	u.mu.Unlock()
	return u
}

// Then registers (or overwrites) the continuation invoked after the named
// task's handler completes. Chainable.
func (u *Unit) Then(task string, c Continuation) *Unit {
	u.mu.Lock()
	u.continuations[task] = c
	u.mu.Unlock()
	return u
}

// Default registers a fallback handler used when an envelope names a task
// with no exact match. Chainable.
func (u *Unit) Default(h Handler) *Unit {
	u.mu.Lock()
	u.fallback = h
	u.mu.Unlock()
	return u
}

// receive runs the handler for the envelope's task, then hands the next
// envelope (from the registered continuation, or from the envelope's nested
// callback) to the outbound callback. A missing handler is a silent no-op:
// the hop was already reinforced by the router. A handler error is a genuine
// fault and propagates.
func (u *Unit) receive(ctx context.Context, env *Envelope) error {
	u.mu.RLock()
	h, ok := u.tasks[env.Receive]
	if !ok {
		h = u.fallback
	}
	cont := u.continuations[env.Receive]
	u.mu.RUnlock()

	if h == nil {
		return nil
	}

	result, err := h(ctx, env.Payload)
	if err != nil {
		return fmt.Errorf("%s - task %q on unit %q: %w", unitLogPrefix, env.Receive, u.id, err)
	}

	var next *Envelope
	switch {
	case cont != nil:
		next = cont(result)
	case env.Callback != nil:
		cb := env.Callback
		next = &Envelope{
			Receiver: cb.Receiver,
			Receive:  cb.Receive,
			Payload:  Substitute(cb.Payload, result),
			Callback: cb.Callback,
		}
	}
	if next == nil {
		return nil
	}
	return u.outbound(ctx, next, u.id+":"+env.Receive)
}
