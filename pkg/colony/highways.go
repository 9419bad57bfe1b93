package colony

import "sort"

// Highway is one edge of the learned topology together with its current
// strength. Edge is the externally visible key ("src[:task] → dst[:task]").
type Highway struct {
	Edge     string  `json:"edge"`
	Strength float64 `json:"strength"`
}

// Highways returns the top-k edges by weight, descending, ties broken by
// edge-key lexical order for determinism. Each call recomputes from current
// ledger state; the result is a detached snapshot, never a cached view.
// A k <= 0 uses the configured default.
func (c *Colony) Highways(k int) []Highway {
	if k <= 0 {
		k = c.config.DefaultTopK
	}

	c.mu.Lock()
	out := make([]Highway, 0, len(c.scent))
	for key, w := range c.scent {
		out = append(out, Highway{Edge: key, Strength: w})
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		return out[i].Edge < out[j].Edge
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}
