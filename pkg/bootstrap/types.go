// Package bootstrap provides topology configuration loading: the declarative
// description of the units a colony daemon spawns at startup.
package bootstrap

// TaskSpec declares a built-in handler for one task. Kind is one of "echo"
// (returns the payload), "static" (returns Value), or "stamp" (wraps the
// payload with unit, task, and an observation timestamp).
type TaskSpec struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
}

// ContinuationSpec declares the envelope built after a task's handler
// completes. Payload may use the "$result" marker convention.
type ContinuationSpec struct {
	Receiver string `json:"receiver"`
	Receive  string `json:"receive,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

// UnitSpec declares one unit: its tasks, an optional default handler, and
// per-task continuations.
type UnitSpec struct {
	Tasks         map[string]TaskSpec         `json:"tasks,omitempty"`
	Default       *TaskSpec                   `json:"default,omitempty"`
	Continuations map[string]ContinuationSpec `json:"continuations,omitempty"`
}

// Topology is the root topology configuration.
type Topology struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Description string              `json:"description,omitempty"`
	Units       map[string]UnitSpec `json:"units"`
}
