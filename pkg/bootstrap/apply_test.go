package bootstrap

import (
	"context"
	"testing"

	"github.com/trailworks/scent-colony/pkg/colony"
)

const applyTestPrefix = "bootstrap:apply_test"

func TestApply_DefaultTopologyEndToEnd(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	if err := Apply(c, GetDefaultTopology()); err != nil {
		t.Fatalf("%s - Apply failed: %v", applyTestPrefix, err)
	}

	err := c.Send(context.Background(), &colony.Envelope{Receiver: "scout", Receive: "observe"})
	if err != nil {
		t.Fatalf("%s - Send failed: %v", applyTestPrefix, err)
	}

	highways := c.Highways(0)
	if len(highways) != 2 {
		t.Fatalf("%s - got %d edges, want 2 (%v)", applyTestPrefix, len(highways), highways)
	}
	want := map[string]bool{
		"entry → scout:observe":            true,
		"scout:observe → analyst:evaluate": true,
	}
	for _, h := range highways {
		if !want[h.Edge] {
			t.Errorf("%s - unexpected edge %q", applyTestPrefix, h.Edge)
		}
		if h.Strength != 1 {
			t.Errorf("%s - edge %q strength = %v, want 1", applyTestPrefix, h.Edge, h.Strength)
		}
	}
}

func TestApply_EchoKind(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	topo := &Topology{
		Name: "echo-test",
		Units: map[string]UnitSpec{
			"mirror": {
				Tasks: map[string]TaskSpec{"reflect": {Kind: "echo"}},
				Continuations: map[string]ContinuationSpec{
					"reflect": {Receiver: "sink", Receive: "take", Payload: "$result"},
				},
			},
			"sink": {Tasks: map[string]TaskSpec{"take": {Kind: "echo"}}},
		},
	}
	if err := Apply(c, topo); err != nil {
		t.Fatalf("%s - Apply failed: %v", applyTestPrefix, err)
	}

	err := c.Send(context.Background(), &colony.Envelope{
		Receiver: "mirror",
		Receive:  "reflect",
		Payload:  map[string]any{"k": "v"},
	})
	if err != nil {
		t.Fatalf("%s - Send failed: %v", applyTestPrefix, err)
	}
	if got := len(c.Highways(0)); got != 2 {
		t.Errorf("%s - got %d edges, want 2 (echo payload forwarded)", applyTestPrefix, got)
	}
}

func TestApply_StampKind(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	topo := &Topology{
		Name: "stamp-test",
		Units: map[string]UnitSpec{
			"gate": {
				Tasks: map[string]TaskSpec{"pass": {Kind: "stamp"}},
				Continuations: map[string]ContinuationSpec{
					"pass": {Receiver: "audit", Receive: "log", Payload: map[string]any{"who": "$result.unit"}},
				},
			},
			"audit": {Tasks: map[string]TaskSpec{"log": {Kind: "echo"}}},
		},
	}
	if err := Apply(c, topo); err != nil {
		t.Fatalf("%s - Apply failed: %v", applyTestPrefix, err)
	}

	if err := c.Send(context.Background(), &colony.Envelope{Receiver: "gate", Receive: "pass"}); err != nil {
		t.Fatalf("%s - Send failed: %v", applyTestPrefix, err)
	}
	if got := len(c.Highways(0)); got != 2 {
		t.Errorf("%s - got %d edges, want 2 (stamp result carried unit id)", applyTestPrefix, got)
	}
}

func TestApply_DefaultHandler(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	topo := &Topology{
		Name: "default-test",
		Units: map[string]UnitSpec{
			"catchall": {Default: &TaskSpec{Kind: "echo"}},
		},
	}
	if err := Apply(c, topo); err != nil {
		t.Fatalf("%s - Apply failed: %v", applyTestPrefix, err)
	}

	if err := c.Send(context.Background(), &colony.Envelope{Receiver: "catchall", Receive: "anything"}); err != nil {
		t.Fatalf("%s - Send failed: %v", applyTestPrefix, err)
	}
	if got := len(c.Highways(0)); got != 1 {
		t.Errorf("%s - got %d edges, want 1", applyTestPrefix, got)
	}
}

func TestApply_UnknownKind(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	topo := &Topology{
		Name: "bad-kind",
		Units: map[string]UnitSpec{
			"broken": {Tasks: map[string]TaskSpec{"go": {Kind: "teleport"}}},
		},
	}

	if err := Apply(c, topo); err == nil {
		t.Fatal(applyTestPrefix + " - expected error for unknown kind")
	}
}

func TestApply_ContinuationWithoutReceiver(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	topo := &Topology{
		Name: "bad-continuation",
		Units: map[string]UnitSpec{
			"lost": {
				Tasks:         map[string]TaskSpec{"go": {Kind: "echo"}},
				Continuations: map[string]ContinuationSpec{"go": {Receive: "nowhere"}},
			},
		},
	}

	if err := Apply(c, topo); err == nil {
		t.Fatal(applyTestPrefix + " - expected error for continuation without receiver")
	}
}

func TestApply_NilTopology(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	if err := Apply(c, nil); err == nil {
		t.Fatal(applyTestPrefix + " - expected error for nil topology")
	}
}

func TestApply_ContinuationToUnknownUnitIsAllowed(t *testing.T) {
	c := colony.NewColony(colony.NewColonyParams{})
	topo := &Topology{
		Name: "dangling",
		Units: map[string]UnitSpec{
			"talker": {
				Tasks:         map[string]TaskSpec{"say": {Kind: "echo"}},
				Continuations: map[string]ContinuationSpec{"say": {Receiver: "ghost", Receive: "listen"}},
			},
		},
	}
	if err := Apply(c, topo); err != nil {
		t.Fatalf("%s - Apply failed: %v", applyTestPrefix, err)
	}

	// The dangling continuation is a silent routing miss at send time.
	if err := c.Send(context.Background(), &colony.Envelope{Receiver: "talker", Receive: "say"}); err != nil {
		t.Fatalf("%s - Send failed: %v", applyTestPrefix, err)
	}
	if got := len(c.Highways(0)); got != 1 {
		t.Errorf("%s - got %d edges, want 1 (ghost hop dropped)", applyTestPrefix, got)
	}
}
