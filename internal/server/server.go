// Package server orchestrates all components: NATS client, topology, colony,
// dispatcher, fade ticker, HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/trailworks/scent-colony/internal/config"
	"github.com/trailworks/scent-colony/pkg/bootstrap"
	"github.com/trailworks/scent-colony/pkg/colony"
	"github.com/trailworks/scent-colony/pkg/commsutil"
	"github.com/trailworks/scent-colony/pkg/dispatcher"
	"github.com/trailworks/scent-colony/pkg/trail"
)

const logPrefix = "server:server"

// Server is the scent-colony daemon orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	col        *colony.Colony
	httpServer *http.Server
}

// Run starts the daemon, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})))
	slog.Info(fmt.Sprintf("%s - Starting scent-colony", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: Load topology
	topo, err := bootstrap.LoadTopology(cfg.TopologyFile)
	if err != nil {
		return fmt.Errorf("%s - failed to load topology: %w", logPrefix, err)
	}

	// Step 2: Connect to NATS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, cfg.COMMSURL))

	// Step 3: Create colony with trail publisher
	publisherOpts := &trail.CommsPublisherOpts{}
	if cfg.TrailSubject != "" {
		publisherOpts.GlobalTrailSubject = cfg.TrailSubject
	}
	col := colony.NewColony(colony.NewColonyParams{
		Publisher: trail.NewCommsPublisher(nc, publisherOpts),
		Config: colony.Config{
			Reinforce:       cfg.Reinforce,
			Epsilon:         cfg.Epsilon,
			DefaultFadeRate: cfg.FadeRate,
			DefaultTopK:     cfg.TopK,
		},
	})
	if err := bootstrap.Apply(col, topo); err != nil {
		nc.Close()
		return fmt.Errorf("%s - failed to apply topology: %w", logPrefix, err)
	}

	s := &Server{cfg: cfg, nc: nc, col: col}

	// Step 4: Subscribe to the API and signal subjects
	disp := dispatcher.NewDispatcher(col)
	apiSub, err := s.subscribeAPI(ctx, disp)
	if err != nil {
		nc.Close()
		return err
	}
	signalSub, err := s.subscribeSignal(ctx)
	if err != nil {
		apiSub.Unsubscribe()
		nc.Close()
		return err
	}

	// Step 5: Fade ticker
	go s.runFadeTicker(ctx)

	// Step 6: HTTP endpoint
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = fmt.Sprintf(":%d", cfg.HTTPPort)
	}
	s.httpServer = &http.Server{Addr: httpAddr, Handler: s.newMux()}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Colony is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	cancel()
	apiSub.Unsubscribe()
	signalSub.Unsubscribe()
	s.httpServer.Shutdown(context.Background())
	nc.Drain()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// subscribeAPI serves the request/reply operations (send, fade, highways,
// stats) on the API subject.
func (s *Server) subscribeAPI(ctx context.Context, disp *dispatcher.Dispatcher) (*comms.Subscription, error) {
	subject := s.cfg.APISubject
	if subject == "" {
		subject = commsutil.SubjectAPI
	}

	requestTimeout := s.cfg.RequestTimeout
	sub, err := s.nc.Subscribe(subject, func(msg *comms.Msg) {
		var req dispatcher.ColonyRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request: %v", logPrefix, err))
			resp := &dispatcher.ColonyResponse{
				Ok: false,
				Error: &dispatcher.ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: "Failed to decode request",
				},
			}
			data, _ := json.Marshal(resp)
			msg.Respond(data)
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		resp := disp.Dispatch(reqCtx, &req)

		data, err := json.Marshal(resp)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - failed to encode response: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, subject))
	return sub, nil
}

// subscribeSignal feeds fire-and-forget envelopes into the colony from the
// signal subject. There is no caller to propagate a handler fault to here,
// so faults are logged.
func (s *Server) subscribeSignal(ctx context.Context) (*comms.Subscription, error) {
	subject := s.cfg.SignalSubject
	if subject == "" {
		subject = commsutil.SubjectSignal
	}

	requestTimeout := s.cfg.RequestTimeout
	sub, err := s.nc.Subscribe(subject, func(msg *comms.Msg) {
		var env colony.Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			slog.Warn(fmt.Sprintf("%s - failed to decode signal envelope: %v", logPrefix, err))
			return
		}

		sendCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		if err := s.col.Send(sendCtx, &env); err != nil {
			slog.Error(fmt.Sprintf("%s - handler fault on signal for %q: %v", logPrefix, env.Receiver, err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, subject))
	return sub, nil
}

// runFadeTicker decays the ledger on a fixed period until the context ends.
func (s *Server) runFadeTicker(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FadeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.col.Fade(s.cfg.FadeRate)
			slog.Debug(fmt.Sprintf("%s - Faded ledger (rate=%.2f)", logPrefix, s.cfg.FadeRate))
		}
	}
}

// parseLogLevel maps a config string onto a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
