package server

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
)

// newMux builds the HTTP surface: a small status home page plus JSON views
// of the ledger for external consumers.
func (s *Server) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/highways", s.handleHighways)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleHighways serves the top-k edges as JSON. ?k= overrides the default.
func (s *Server) handleHighways(w http.ResponseWriter, r *http.Request) {
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, `{"error":"k must be a non-negative integer"}`, http.StatusBadRequest)
			return
		}
		k = parsed
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.col.Highways(k))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.col.Stats())
}

// homePageTemplate is the HTML for the colony home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Scent Colony</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2 { color: #0066cc; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
  </style>
</head>
<body>
  <h1>Scent Colony</h1>
  <p class="meta">Colony statistics and the current highways.</p>

  <section>
    <h2>Statistics</h2>
    <p>Units: <span class="stat">{{.Stats.Units}}</span></p>
    <p>Edges: <span class="stat">{{.Stats.Edges}}</span></p>
    <p>Total strength: <span class="stat">{{printf "%.2f" .Stats.TotalStrength}}</span></p>
  </section>

  <section>
    <h2>Highways</h2>
    {{if not .Highways}}
    <p>No edges yet. Send a signal to start a trail.</p>
    {{else}}
    <table>
      <tr><th>Edge</th><th>Strength</th></tr>
      {{range .Highways}}
      <tr><td>{{.Edge}}</td><td>{{printf "%.3f" .Strength}}</td></tr>
      {{end}}
    </table>
    {{end}}
  </section>
</body>
</html>`

func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	type homeData struct {
		Stats    any
		Highways any
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data := homeData{
			Stats:    s.col.Stats(),
			Highways: s.col.Highways(0),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error("server:http - home template: " + err.Error())
		}
	}
}
