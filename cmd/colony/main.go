// Package main is the entrypoint for the scent-colony daemon (binary name "colony").
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trailworks/scent-colony/internal/server"
	"github.com/trailworks/scent-colony/pkg/bootstrap"
	"github.com/trailworks/scent-colony/pkg/colony"
)

const usage = `Usage: colony [command]
       colony serve                  Start the colony daemon (NATS, HTTP, fade ticker).
       colony topology check [file]  Load and validate a topology file, print a summary.

Commands:
  serve                 (default) Start the scent-colony daemon.
  topology check [file] Validate a topology file (default: COLONY_TOPOLOGY_FILE, config/topology.json, topology.json).

Environment: COMMS_URL, COLONY_TOPOLOGY_FILE, COLONY_FADE_RATE, COLONY_FADE_INTERVAL,
COLONY_HTTP_ADDR (default :8080), LOG_LEVEL. See README.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "topology":
		if len(args) < 2 || args[1] != "check" {
			log.Fatalf("colony topology: require subcommand check")
		}
		file := ""
		if len(args) > 2 {
			file = args[2]
		}
		if err := runTopologyCheck(file); err != nil {
			log.Fatalf("colony topology check: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("colony: %v", err)
	}
}

func runTopologyCheck(file string) error {
	topo, err := bootstrap.LoadTopology(file)
	if err != nil {
		return err
	}

	// Apply against a throwaway colony so task kinds get validated too.
	if err := bootstrap.Apply(colony.NewColony(colony.NewColonyParams{}), topo); err != nil {
		return err
	}

	tasks := 0
	continuations := 0
	for _, spec := range topo.Units {
		tasks += len(spec.Tasks)
		if spec.Default != nil {
			tasks++
		}
		continuations += len(spec.Continuations)
	}

	fmt.Printf("topology %q (version %s): %d units, %d tasks, %d continuations\n",
		topo.Name, topo.Version, len(topo.Units), tasks, continuations)
	return nil
}
