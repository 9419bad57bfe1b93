package trail

import "context"

// Publisher is the interface for publishing scent ledger change events.
type Publisher interface {
	PublishReinforced(ctx context.Context, event *ReinforcedEvent) error
	PublishFaded(ctx context.Context, event *FadedEvent) error
}

// NoOpPublisher is a Publisher that does nothing (for in-process usage
// without events).
type NoOpPublisher struct{}

// PublishReinforced is a no-op.
func (p *NoOpPublisher) PublishReinforced(_ context.Context, _ *ReinforcedEvent) error {
	return nil
}

// PublishFaded is a no-op.
func (p *NoOpPublisher) PublishFaded(_ context.Context, _ *FadedEvent) error {
	return nil
}

// CallbackPublisher is a Publisher that calls callback functions (for testing).
type CallbackPublisher struct {
	onReinforced func(ctx context.Context, event *ReinforcedEvent) error
	onFaded      func(ctx context.Context, event *FadedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher. Either callback may
// be nil.
func NewCallbackPublisher(
	onReinforced func(ctx context.Context, event *ReinforcedEvent) error,
	onFaded func(ctx context.Context, event *FadedEvent) error,
) *CallbackPublisher {
	return &CallbackPublisher{onReinforced: onReinforced, onFaded: onFaded}
}

// PublishReinforced calls the reinforced callback.
func (p *CallbackPublisher) PublishReinforced(ctx context.Context, event *ReinforcedEvent) error {
	if p.onReinforced == nil {
		return nil
	}
	return p.onReinforced(ctx, event)
}

// PublishFaded calls the faded callback.
func (p *CallbackPublisher) PublishFaded(ctx context.Context, event *FadedEvent) error {
	if p.onFaded == nil {
		return nil
	}
	return p.onFaded(ctx, event)
}
