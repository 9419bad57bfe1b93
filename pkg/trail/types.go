// Package trail defines event types and publisher interfaces for scent
// ledger change events.
package trail

// ReinforcedEvent is emitted each time a delivery reinforces an edge.
type ReinforcedEvent struct {
	Edge      string  `json:"edge"`
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Strength  float64 `json:"strength"`
	Timestamp string  `json:"timestamp"`
}

// FadedEvent is emitted after each decay pass over the ledger.
type FadedEvent struct {
	Rate      float64  `json:"rate"`
	Pruned    []string `json:"pruned,omitempty"`
	Remaining int      `json:"remaining"`
	Timestamp string   `json:"timestamp"`
}
