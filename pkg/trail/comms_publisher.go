package trail

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/trailworks/scent-colony/pkg/commsutil"
)

const commsPublisherLogPrefix = "trail:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// GlobalTrailSubject overrides the global trail event subject (e.g. from COLONY_TRAIL_SUBJECT).
	GlobalTrailSubject string
}

// CommsPublisher publishes scent ledger events to COMMS subjects.
type CommsPublisher struct {
	nc                 *comms.Conn
	globalTrailSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	globalSubject := commsutil.SubjectTrail
	if opts != nil && opts.GlobalTrailSubject != "" {
		globalSubject = opts.GlobalTrailSubject
	}
	return &CommsPublisher{nc: nc, globalTrailSubject: globalSubject}
}

// PublishReinforced publishes a ReinforcedEvent to both the granular
// per-edge and global trail subjects.
func (p *CommsPublisher) PublishReinforced(_ context.Context, event *ReinforcedEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	granularSubject := commsutil.BuildTrailSubject(event.Source, event.Target)
	if err := p.nc.Publish(granularSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, granularSubject, err))
		return err
	}

	if err := p.nc.Publish(p.globalTrailSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.globalTrailSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published reinforced event for %s", commsPublisherLogPrefix, event.Edge))
	return nil
}

// PublishFaded publishes a FadedEvent to the global trail subject.
func (p *CommsPublisher) PublishFaded(_ context.Context, event *FadedEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	if err := p.nc.Publish(p.globalTrailSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.globalTrailSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published faded event (rate=%.2f, pruned=%d)", commsPublisherLogPrefix, event.Rate, len(event.Pruned)))
	return nil
}
