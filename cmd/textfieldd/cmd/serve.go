package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/go-drift/textfield/cmd/textfieldd/internal/config"
	"github.com/go-drift/textfield/cmd/textfieldd/internal/telemetry"
	drifterrors "github.com/go-drift/textfield/pkg/errors"
	"github.com/go-drift/textfield/pkg/hostlink"
	"github.com/go-drift/textfield/pkg/inspect"
	"github.com/go-drift/textfield/pkg/platform"
	"github.com/go-drift/textfield/pkg/softwidget"
	"github.com/go-drift/textfield/pkg/textfield"
)

const shutdownTimeout = 5 * time.Second

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Serve text fields to a host",
		Long: `Start the bridge and serve it over HTTP.

The host connects to /host over WebSocket and speaks the platform channel
protocol. The same listener serves /health, /instances, /metrics and an
/events stream for inspection.

Flags:
  --addr ADDR    Listen address (overrides server.addr)
  --dev          Use development logging
  --trace        Write command spans to stderr
  --watch        Reload textfield.yaml on change (log level applies live)`,
		Usage: "textfieldd serve [--addr ADDR] [--dev] [--trace] [--watch]",
		Run:   runServe,
	})
}

type serveFlags struct {
	addr  string
	dev   bool
	trace bool
	watch bool
}

func parseServeFlags(args []string) (serveFlags, error) {
	var f serveFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--addr":
			if i+1 >= len(args) {
				return f, fmt.Errorf("--addr requires an address")
			}
			f.addr = args[i+1]
			i++
		case strings.HasPrefix(arg, "--addr="):
			f.addr = strings.TrimPrefix(arg, "--addr=")
		case arg == "--dev":
			f.dev = true
		case arg == "--trace":
			f.trace = true
		case arg == "--watch":
			f.watch = true
		default:
			return f, fmt.Errorf("unknown flag %q", arg)
		}
	}
	return f, nil
}

func runServe(args []string) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if flags.dev {
		cfg.LogDevelopment = true
	}
	if flags.trace {
		cfg.Trace = true
	}

	level := zap.NewAtomicLevelAt(cfg.LogLevel)
	log, err := newLogger(cfg, level)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	textfield.SetLogger(log.Named("textfield"))
	hostlink.SetLogger(log.Named("hostlink"))
	drifterrors.SetHandler(drifterrors.NewLogHandler(log.Named("errors"), cfg.LogVerbose))
	defer drifterrors.SetHandler(nil)

	if cfg.Trace {
		tp, err := telemetry.NewTracerProvider("textfieldd", Version, os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// All widget and registry access runs on the looper. It outlives ctx so
	// the plugin can be detached on it during shutdown.
	looper := platform.NewLooper()
	platform.RegisterDispatch(looper.Post)
	defer platform.RegisterDispatch(nil)
	looperCtx, stopLooper := context.WithCancel(context.Background())
	looperDone := make(chan struct{})
	go func() {
		defer close(looperDone)
		_ = looper.Run(looperCtx)
	}()
	defer func() {
		stopLooper()
		<-looperDone
	}()

	toolkit := softwidget.NewToolkit()
	plugin := textfield.NewPlugin(toolkit.Factory(), textfield.Options{
		Channel:         cfg.Channel,
		ViewType:        cfg.ViewType,
		PlatformVersion: cfg.PlatformVersion,
		ProtocolVersion: cfg.ProtocolVersion,
		DefaultHint:     cfg.DefaultHint,
	})
	opts := plugin.Options()
	if !config.Compatible(textfield.DefaultProtocolVersion, opts.ProtocolVersion) {
		log.Warn("configured protocol version differs in major version from the built-in one",
			zap.String("configured", opts.ProtocolVersion),
			zap.String("builtin", textfield.DefaultProtocolVersion))
	}

	var attachErr error
	if err := platform.Invoke(ctx, func() { attachErr = plugin.Attach() }); err != nil {
		return err
	}
	if attachErr != nil {
		drifterrors.Report(&drifterrors.BridgeError{
			Op:      "textfieldd.attach",
			Kind:    drifterrors.KindInit,
			Channel: opts.Channel,
			Err:     attachErr,
		})
		return fmt.Errorf("failed to attach plugin: %w", attachErr)
	}

	link := hostlink.NewServer(hostlink.Options{
		CallTimeout: cfg.CallTimeout,
		SendQueue:   cfg.SendQueue,
		CallRate:    rate.Limit(cfg.CallRate),
		CallBurst:   cfg.CallBurst,
	})
	platform.SetHostBridge(link)
	defer platform.SetHostBridge(nil)

	insp := inspect.New(plugin, inspect.Options{
		HostSession: link.SessionID,
		Logger:      log.Named("inspect"),
	})

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/host", link)
	router.Mount("/", insp.Routes())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("serving",
			zap.String("addr", cfg.Addr),
			zap.String("channel", opts.Channel),
			zap.String("viewType", opts.ViewType),
			zap.String("protocol", opts.ProtocolVersion))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", cfg.Addr, err)
		}
		return nil
	})

	if flags.watch {
		watcher, err := config.NewWatcher(configDir,
			func(next *config.Resolved) { applyReload(log, level, cfg, next) },
			func(err error) { log.Warn("config reload failed", zap.Error(err)) },
		)
		if err != nil {
			return err
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		link.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown incomplete", zap.Error(err))
		}
		if err := platform.Invoke(shutdownCtx, plugin.Detach); err != nil {
			log.Warn("detach did not complete", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

// applyReload applies the settings that can change without a restart and
// warns about the rest.
func applyReload(log *zap.Logger, level zap.AtomicLevel, current, next *config.Resolved) {
	if next.LogLevel != level.Level() {
		log.Info("log level changed",
			zap.Stringer("from", level.Level()),
			zap.Stringer("to", next.LogLevel))
		level.SetLevel(next.LogLevel)
	}
	if next.Addr != current.Addr || next.Channel != current.Channel ||
		next.ViewType != current.ViewType || next.ProtocolVersion != current.ProtocolVersion {
		log.Warn("listener and protocol settings change on restart only")
	}
}

func newLogger(cfg *config.Resolved, level zap.AtomicLevel) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
