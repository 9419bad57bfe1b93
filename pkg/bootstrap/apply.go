package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trailworks/scent-colony/pkg/colony"
)

const applyLogPrefix = "bootstrap:apply"

// Apply spawns every unit declared in the topology and registers its tasks,
// default handler, and continuations. Continuations that name a receiver
// outside the topology are registered anyway and logged: sends to them will
// be silent routing misses, which is legal colony behavior.
func Apply(c *colony.Colony, topo *Topology) error {
	if topo == nil {
		return fmt.Errorf("%s - topology is nil", applyLogPrefix)
	}

	for id, spec := range topo.Units {
		u := c.Spawn(id)

		for task, ts := range spec.Tasks {
			h, err := buildHandler(id, task, ts)
			if err != nil {
				return err
			}
			u.On(task, h)
		}

		if spec.Default != nil {
			h, err := buildHandler(id, "", *spec.Default)
			if err != nil {
				return err
			}
			u.Default(h)
		}

		for task, cs := range spec.Continuations {
			if cs.Receiver == "" {
				return fmt.Errorf("%s - unit %q continuation for task %q has no receiver", applyLogPrefix, id, task)
			}
			if _, ok := topo.Units[cs.Receiver]; !ok {
				slog.Warn(fmt.Sprintf("%s - unit %q continuation for task %q targets %q, which is not in the topology", applyLogPrefix, id, task, cs.Receiver))
			}
			u.Then(task, colony.Template(cs.Receiver, cs.Receive, cs.Payload))
		}
	}

	slog.Info(fmt.Sprintf("%s - Applied topology %q: %d units", applyLogPrefix, topo.Name, len(topo.Units)))
	return nil
}

// buildHandler constructs a built-in handler for a task spec. The task name
// is empty for default handlers.
func buildHandler(unitID, task string, spec TaskSpec) (colony.Handler, error) {
	switch spec.Kind {
	case "echo":
		return func(_ context.Context, payload any) (any, error) {
			return payload, nil
		}, nil
	case "static":
		value := spec.Value
		return func(_ context.Context, _ any) (any, error) {
			return value, nil
		}, nil
	case "stamp":
		return func(_ context.Context, payload any) (any, error) {
			return map[string]any{
				"unit":       unitID,
				"task":       task,
				"payload":    payload,
				"observedAt": time.Now().UTC().Format(time.RFC3339),
			}, nil
		}, nil
	default:
		return nil, fmt.Errorf("%s - unit %q task %q: unknown kind %q", applyLogPrefix, unitID, task, spec.Kind)
	}
}
