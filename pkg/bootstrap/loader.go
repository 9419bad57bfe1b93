package bootstrap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

const logPrefix = "bootstrap:loader"

// LoadTopology loads topology config from file paths or environment.
// It tries paths in order: first any paths passed in, then COLONY_TOPOLOGY_FILE
// env, then defaults. So an explicit path (e.g. from "topology check my.json")
// is tried before the env var.
func LoadTopology(paths ...string) (*Topology, error) {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("COLONY_TOPOLOGY_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/topology.json", "topology.json")
	paths = all

	for _, p := range paths {
		if p == "" {
			continue
		}

		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var topo Topology
		if err := json.Unmarshal(data, &topo); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse topology file %s: %v", logPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded topology from %s", logPrefix, p))
		return &topo, nil
	}

	slog.Info(fmt.Sprintf("%s - Using default topology", logPrefix))
	return GetDefaultTopology(), nil
}

// GetDefaultTopology returns the embedded fallback topology: a scout that
// observes and forwards its count to an analyst for evaluation.
func GetDefaultTopology() *Topology {
	return &Topology{
		Name:        "scent-colony-default",
		Version:     "1.0.0",
		Description: "Default two-unit demo topology",
		Units: map[string]UnitSpec{
			"scout": {
				Tasks: map[string]TaskSpec{
					"observe": {Kind: "static", Value: map[string]any{"seen": float64(3)}},
				},
				Continuations: map[string]ContinuationSpec{
					"observe": {
						Receiver: "analyst",
						Receive:  "evaluate",
						Payload:  map[string]any{"count": "$result.seen"},
					},
				},
			},
			"analyst": {
				Tasks: map[string]TaskSpec{
					"evaluate": {Kind: "static", Value: map[string]any{"verdict": "ok"}},
				},
			},
		},
	}
}
