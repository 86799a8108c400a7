package logutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/lmittmann/tint"
	sloggraylog "github.com/samber/slog-graylog/v2"
	slogmulti "github.com/samber/slog-multi"

	"github.com/geep/geep-go-sdk/pkg/instutil"
	"github.com/geep/geep-go-sdk/pkg/settings"
)

var (
	initialised    atomic.Bool
	initMu         sync.Mutex
	tracerShutdown func(context.Context) error
)

// Initialised reports whether Init already ran. Mostly useful for tests and
// debugging; services should not branch on it.
func Initialised() bool {
	return initialised.Load()
}

// Init performs the process-wide logging and tracing setup. The process
// entry point must call it exactly once before anything logs; repeated
// calls after a successful one are no-ops and reuse the existing
// configuration. A failed call leaves the process uninitialised, so a
// corrected retry still works.
//
// In the local environment logging goes to a colourised console and remote
// export is skipped, unless OverrideLocalExport is set. Everywhere else
// logs are emitted as JSON on stdout, fanned out to Graylog when a GELF
// address is configured, and the tracer is wired to the configured OTLP
// endpoint.
func Init(serviceName string, s settings.Settings) error {
	if serviceName == "" {
		return fmt.Errorf("a service name is required to initialise logging")
	}

	level, err := parseLevel(s.LogLevel)
	if err != nil {
		return err
	}

	initMu.Lock()
	defer initMu.Unlock()

	if initialised.Load() {
		return nil
	}

	err = initialise(serviceName, s, level)
	if err != nil {
		return err
	}

	initialised.Store(true)
	return nil
}

func initialise(serviceName string, s settings.Settings, level slog.Level) error {
	if s.IsLocal() && !s.OverrideLocalExport {
		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:   level,
			NoColor: !s.LogUseColors,
		})
		slog.SetDefault(slog.New(handler))
		return nil
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	}

	if s.GelfAddress != "" {
		writer, err := gelf.NewWriter(s.GelfAddress)
		if err != nil {
			return fmt.Errorf("connect to graylog at %q: %w", s.GelfAddress, err)
		}

		handlers = append(handlers, sloggraylog.Option{
			Level:  level,
			Writer: writer,
		}.NewGraylogHandler())
	}

	logger := slog.New(slogmulti.Fanout(handlers...)).
		With("service", serviceName)
	slog.SetDefault(logger)

	if s.TracingURL != "" {
		shutdown, err := instutil.InitTracer(context.Background(), serviceName, s.TracingURL)
		if err != nil {
			// The tracer is not worth failing startup over.
			slog.Error("failed to initialise tracer", "error", err)
		} else {
			tracerShutdown = shutdown
		}
	}

	if s.EnableMetrics {
		instutil.InitMetrics(serviceName)
	}

	return nil
}

// Shutdown flushes pending spans. It is safe to call even when Init never
// ran or tracing is disabled.
func Shutdown(ctx context.Context) error {
	if tracerShutdown == nil {
		return nil
	}
	return tracerShutdown(ctx)
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("invalid log level: %q", name)
}
