package colony

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trailworks/scent-colony/pkg/trail"
)

const logPrefix = "colony:colony"

const (
	defaultReinforce = 1.0
	defaultEpsilon   = 0.01
	defaultFadeRate  = 0.1
	defaultTopK      = 10
)

// Config holds colony tuning parameters.
type Config struct {
	// Reinforce is the weight added to an edge on each successful delivery.
	Reinforce float64
	// Epsilon is the weight below which a faded edge is pruned.
	Epsilon float64
	// DefaultFadeRate is used by Fade when the caller passes a rate <= 0.
	DefaultFadeRate float64
	// DefaultTopK is used by Highways when the caller passes k <= 0.
	DefaultTopK int
}

// DefaultConfig returns the default colony configuration.
func DefaultConfig() Config {
	return Config{
		Reinforce:       defaultReinforce,
		Epsilon:         defaultEpsilon,
		DefaultFadeRate: defaultFadeRate,
		DefaultTopK:     defaultTopK,
	}
}

// Colony owns the set of live units and the scent ledger. Units never touch
// the ledger directly; it changes only as a side effect of dispatch and Fade.
// Multiple independent colonies can coexist in one process.
type Colony struct {
	mu        sync.Mutex
	units     map[string]*Unit
	scent     map[string]float64
	config    Config
	publisher trail.Publisher
}

// NewColonyParams holds parameters for NewColony.
type NewColonyParams struct {
	Publisher trail.Publisher
	Config    Config
}

// NewColony creates a new Colony instance. Zero config fields take defaults;
// a nil publisher defaults to the no-op publisher.
func NewColony(params NewColonyParams) *Colony {
	cfg := params.Config
	if cfg.Reinforce == 0 {
		cfg.Reinforce = defaultReinforce
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = defaultEpsilon
	}
	if cfg.DefaultFadeRate == 0 {
		cfg.DefaultFadeRate = defaultFadeRate
	}
	if cfg.DefaultTopK == 0 {
		cfg.DefaultTopK = defaultTopK
	}

	pub := params.Publisher
	if pub == nil {
		pub = &trail.NoOpPublisher{}
	}

	return &Colony{
		units:     make(map[string]*Unit),
		scent:     make(map[string]float64),
		config:    cfg,
		publisher: pub,
	}
}

// Spawn constructs a unit with a private outbound callback into this colony,
// registers it, and returns it for task/continuation registration. Spawning
// an id again replaces the previous unit.
func (c *Colony) Spawn(id string) *Unit {
	u := newUnit(id, c.SendFrom)
	c.mu.Lock()
	c.units[id] = u
	c.mu.Unlock()
	return u
}

// Send dispatches an envelope that enters the colony from outside, recording
// the hop against the "entry" pseudo-source.
func (c *Colony) Send(ctx context.Context, env *Envelope) error {
	return c.SendFrom(ctx, env, EntrySource)
}

// SendFrom resolves the envelope's receiver, reinforces the traversed edge,
// and invokes the unit. An unregistered receiver is dropped silently: no
// weight change, no error. That is intentional (best-effort propagation),
// not an accident — routing misses are expected and quiet, while handler
// faults are genuine errors and propagate to the caller.
//
// Reinforcement happens before the handler runs, so a delivery that cascades
// into further sends still records its first hop even if a downstream hop
// later fails.
func (c *Colony) SendFrom(ctx context.Context, env *Envelope, from string) error {
	if env == nil || env.Receiver == "" {
		return nil
	}
	if from == "" {
		from = EntrySource
	}

	c.mu.Lock()
	u, ok := c.units[env.Receiver]
	if !ok {
		c.mu.Unlock()
		slog.Debug(fmt.Sprintf("%s - dropped envelope for unknown receiver %q", logPrefix, env.Receiver))
		return nil
	}
	key := edgeKey(from, env.Receiver, env.Receive)
	c.scent[key] += c.config.Reinforce
	strength := c.scent[key]
	c.mu.Unlock()

	c.publishReinforced(ctx, key, from, env.Receiver, strength)

	return u.receive(ctx, env)
}

// Fade multiplies every edge weight by (1 - rate) and prunes edges whose
// weight falls below epsilon. A rate <= 0 uses the configured default. This
// is the only mechanism by which edges disappear.
func (c *Colony) Fade(rate float64) {
	if rate <= 0 {
		rate = c.config.DefaultFadeRate
	}

	var pruned []string
	c.mu.Lock()
	for key, w := range c.scent {
		w *= 1 - rate
		if w < c.config.Epsilon {
			delete(c.scent, key)
			pruned = append(pruned, key)
		} else {
			c.scent[key] = w
		}
	}
	remaining := len(c.scent)
	c.mu.Unlock()

	ev := &trail.FadedEvent{
		Rate:      rate,
		Pruned:    pruned,
		Remaining: remaining,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.publisher.PublishFaded(context.Background(), ev); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish faded event: %v", logPrefix, err))
	}
}

// Stats reports current colony size.
type Stats struct {
	Units         int     `json:"units"`
	Edges         int     `json:"edges"`
	TotalStrength float64 `json:"totalStrength"`
}

// Stats returns a snapshot of unit and ledger counts.
func (c *Colony) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Units: len(c.units), Edges: len(c.scent)}
	for _, w := range c.scent {
		s.TotalStrength += w
	}
	return s
}

// publishReinforced emits a trail event for a recorded hop. Publish failures
// are logged, never propagated into routing: the reinforcement is already on
// the ledger.
func (c *Colony) publishReinforced(ctx context.Context, edge, source, target string, strength float64) {
	ev := &trail.ReinforcedEvent{
		Edge:      edge,
		Source:    source,
		Target:    target,
		Strength:  strength,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.publisher.PublishReinforced(ctx, ev); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish reinforced event: %v", logPrefix, err))
	}
}

// edgeKey builds the ledger key for a hop. The source is either "entry" or
// "unitId:task"; the target is qualified with the envelope's task when one
// is named. Consumers split on the literal arrow separator.
func edgeKey(from, receiver, task string) string {
	target := receiver
	if task != "" {
		target = receiver + ":" + task
	}
	return from + " → " + target
}
