package trail

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"
)

const integrationTestPrefix = "trail:comms_publisher_integration_test"

// startTestServer starts an in-process NATS server for testing.
func startTestServer(t *testing.T, port int) (*comms.Conn, func()) {
	t.Helper()

	opts := &commsserver.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := commsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("%s - failed to create server: %v", integrationTestPrefix, err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal(integrationTestPrefix + " - server failed to start")
	}

	nc, err := comms.Connect(ns.ClientURL(), comms.Timeout(5*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("%s - failed to connect: %v", integrationTestPrefix, err)
	}

	cleanup := func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return nc, cleanup
}

func TestCommsPublisher_PublishReinforced_GranularSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14310)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)

	received := make(chan *ReinforcedEvent, 1)
	sub, err := nc.Subscribe("colony.trail.scout.analyst", func(msg *comms.Msg) {
		var event ReinforcedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Errorf("%s - failed to unmarshal: %v", integrationTestPrefix, err)
			return
		}
		received <- &event
	})
	if err != nil {
		t.Fatalf("%s - failed to subscribe: %v", integrationTestPrefix, err)
	}
	defer sub.Unsubscribe()

	event := &ReinforcedEvent{
		Edge:      "scout:observe → analyst:evaluate",
		Source:    "scout:observe",
		Target:    "analyst",
		Strength:  4,
		Timestamp: "2025-01-01T00:00:00Z",
	}

	if err := publisher.PublishReinforced(context.Background(), event); err != nil {
		t.Fatalf("%s - PublishReinforced failed: %v", integrationTestPrefix, err)
	}
	nc.Flush()

	select {
	case got := <-received:
		if got.Edge != event.Edge {
			t.Errorf("%s - Edge = %q, want %q", integrationTestPrefix, got.Edge, event.Edge)
		}
		if got.Strength != 4 {
			t.Errorf("%s - Strength = %v, want 4", integrationTestPrefix, got.Strength)
		}
	case <-time.After(5 * time.Second):
		t.Fatal(integrationTestPrefix + " - timed out waiting for granular event")
	}
}

func TestCommsPublisher_PublishReinforced_GlobalSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14311)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)

	received := make(chan *ReinforcedEvent, 1)
	sub, err := nc.Subscribe("colony.trail", func(msg *comms.Msg) {
		var event ReinforcedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Errorf("%s - failed to unmarshal: %v", integrationTestPrefix, err)
			return
		}
		received <- &event
	})
	if err != nil {
		t.Fatalf("%s - failed to subscribe: %v", integrationTestPrefix, err)
	}
	defer sub.Unsubscribe()

	event := &ReinforcedEvent{
		Edge:     "entry → scout:observe",
		Source:   "entry",
		Target:   "scout",
		Strength: 1,
	}

	if err := publisher.PublishReinforced(context.Background(), event); err != nil {
		t.Fatalf("%s - PublishReinforced failed: %v", integrationTestPrefix, err)
	}
	nc.Flush()

	select {
	case got := <-received:
		if got.Source != "entry" || got.Target != "scout" {
			t.Errorf("%s - Source/Target = %q/%q, want entry/scout", integrationTestPrefix, got.Source, got.Target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal(integrationTestPrefix + " - timed out waiting for global event")
	}
}

func TestCommsPublisher_PublishFaded_CustomGlobalSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14312)
	defer cleanup()

	publisher := NewCommsPublisher(nc, &CommsPublisherOpts{GlobalTrailSubject: "custom.trail"})

	received := make(chan *FadedEvent, 1)
	sub, err := nc.Subscribe("custom.trail", func(msg *comms.Msg) {
		var event FadedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Errorf("%s - failed to unmarshal: %v", integrationTestPrefix, err)
			return
		}
		received <- &event
	})
	if err != nil {
		t.Fatalf("%s - failed to subscribe: %v", integrationTestPrefix, err)
	}
	defer sub.Unsubscribe()

	event := &FadedEvent{
		Rate:      0.1,
		Pruned:    []string{"a → b"},
		Remaining: 2,
	}

	if err := publisher.PublishFaded(context.Background(), event); err != nil {
		t.Fatalf("%s - PublishFaded failed: %v", integrationTestPrefix, err)
	}
	nc.Flush()

	select {
	case got := <-received:
		if got.Rate != 0.1 {
			t.Errorf("%s - Rate = %v, want 0.1", integrationTestPrefix, got.Rate)
		}
		if len(got.Pruned) != 1 || got.Pruned[0] != "a → b" {
			t.Errorf("%s - Pruned = %v, want [a → b]", integrationTestPrefix, got.Pruned)
		}
	case <-time.After(5 * time.Second):
		t.Fatal(integrationTestPrefix + " - timed out waiting for faded event")
	}
}
