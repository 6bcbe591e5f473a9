// Package inspect serves a read-only HTTP view of a running text field
// bridge: live instances, Prometheus metrics and a WebSocket event feed.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-drift/textfield/pkg/platform"
	"github.com/go-drift/textfield/pkg/textfield"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures an Inspector.
type Options struct {
	// SnapshotTimeout bounds waits on the UI sequence. Defaults to 2s.
	SnapshotTimeout time.Duration
	// HostSession reports the connected host session, if any.
	HostSession func() (string, bool)
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// EventBuffer is the per-client event queue length. Defaults to 64.
	EventBuffer int
}

// Inspector exposes a plugin over HTTP.
type Inspector struct {
	plugin   *textfield.Plugin
	opts     Options
	started  time.Time
	upgrader websocket.Upgrader
}

// New creates an inspector for plugin.
func New(plugin *textfield.Plugin, opts Options) *Inspector {
	if opts.SnapshotTimeout <= 0 {
		opts.SnapshotTimeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}
	return &Inspector{
		plugin:  plugin,
		opts:    opts,
		started: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Routes returns the inspector's router.
func (i *Inspector) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", i.handleHealth)
	r.Route("/instances", func(r chi.Router) {
		r.Get("/", i.handleListInstances)
		r.Get("/{id}", i.handleGetInstance)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/events", i.handleEvents)
	return r
}

type healthResponse struct {
	Status      string `json:"status"`
	Attached    bool   `json:"attached"`
	Instances   int    `json:"instances"`
	Protocol    string `json:"protocol"`
	HostSession string `json:"hostSession,omitempty"`
	Uptime      string `json:"uptime"`
}

func (i *Inspector) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Attached:  i.plugin.Attached(),
		Instances: i.plugin.Registry().Len(),
		Protocol:  i.plugin.Options().ProtocolVersion,
		Uptime:    time.Since(i.started).Truncate(time.Second).String(),
	}
	if i.opts.HostSession != nil {
		if id, ok := i.opts.HostSession(); ok {
			resp.HostSession = id
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (i *Inspector) handleListInstances(w http.ResponseWriter, r *http.Request) {
	states := make([]textfield.State, 0)
	err := i.onUI(r.Context(), func() {
		for _, id := range i.plugin.Registry().IDs() {
			a, ok := i.plugin.Registry().Lookup(id)
			if !ok {
				continue
			}
			if s, err := a.Snapshot(); err == nil {
				states = append(states, s)
			}
		}
	})
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	respondJSON(w, http.StatusOK, states)
}

func (i *Inspector) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("instance id must be an integer"))
		return
	}

	var (
		state    textfield.State
		snapErr  error
		notFound bool
	)
	err = i.onUI(r.Context(), func() {
		a, ok := i.plugin.Registry().Lookup(id)
		if !ok {
			notFound = true
			return
		}
		state, snapErr = a.Snapshot()
	})
	switch {
	case err != nil:
		respondError(w, http.StatusServiceUnavailable, err)
	case notFound:
		respondError(w, http.StatusNotFound, textfield.ErrInvalidInstance)
	case snapErr != nil:
		respondError(w, http.StatusGone, snapErr)
	default:
		respondJSON(w, http.StatusOK, state)
	}
}

// handleEvents streams every emitted event as JSON until the client leaves.
func (i *Inspector) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.opts.Logger.Warn("event stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan textfield.Event, i.opts.EventBuffer)
	sub := i.plugin.Events().Subscribe(func(ev textfield.Event) {
		select {
		case events <- ev:
		default:
			EventsDropped.Inc()
		}
	})
	defer sub.Cancel()
	StreamClients.Inc()
	defer StreamClients.Dec()

	// Reads only detect the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// onUI runs fn on the UI sequence, bounded by the snapshot timeout.
func (i *Inspector) onUI(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, i.opts.SnapshotTimeout)
	defer cancel()
	return platform.Invoke(ctx, fn)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{Error: err.Error(), Status: status})
}
