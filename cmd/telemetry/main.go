// Command telemetry samples synthetic host readings into a bounded buffer and periodically
// flushes them to stdout in batches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/teenjuna/buffered"
	"github.com/teenjuna/buffered/packager"
	"github.com/teenjuna/buffered/packager/json"
	"github.com/teenjuna/buffered/packager/msgp"
	"github.com/teenjuna/buffered/packager/msgpack"
	"github.com/teenjuna/buffered/packager/separator"
	"github.com/teenjuna/buffered/packager/yaml"
	"github.com/teenjuna/buffered/retry"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "telemetry: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	interval := flag.Duration("interval", time.Second, "Flush interval")
	every := flag.Duration("every", 100*time.Millisecond, "Sampling interval")
	samples := flag.Int("samples", 0, "Stop sampling after this many samples (0 means never)")
	batch := flag.Int("batch", 32, "Maximum number of samples per message")
	capacity := flag.Int("capacity", buffered.DefaultCapacity, "Buffer capacity")
	format := flag.String("format", "json", "Message format (json, yaml, separator, msgpack, msgp)")
	perRecord := flag.Bool("per-record", false, "Pack every sample as its own terminated record")
	retryName := flag.String("retry", "exponential", "Retry policy (fixed, linear, exponential, immediate)")
	failRate := flag.Float64("fail-rate", 0, "Probability of a simulated delivery failure")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	if *interval <= 0 || *every <= 0 {
		return fmt.Errorf("-interval and -every must be positive")
	}
	if *batch < 1 {
		return fmt.Errorf("-batch can't be < 1")
	}
	if *capacity < 1 {
		return fmt.Errorf("-capacity can't be < 1")
	}
	if *failRate < 0 || *failRate >= 1 {
		return fmt.Errorf("-fail-rate must be in [0, 1)")
	}

	logger := initLogger(*logLevel)
	slog.SetDefault(logger)

	p, err := packagerFor(*format)
	if err != nil {
		return err
	}

	policy, err := policyFor(*retryName, *interval)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]any]) {
		c.Capacity(*capacity)
		c.Packager(p)
		c.Logger(logger)
		c.Prometheus(buffered.Prometheus(prometheus.DefaultRegisterer, func(c *buffered.PrometheusConfig) {
			c.Subsystem = "telemetry"
		}))
	})

	pl := newPipeline(
		buffer,
		*batch,
		policy,
		flakySink(os.Stdout, *failRate),
		logger,
	)
	pl.perRecord = *perRecord

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pl.produce(ctx, *every, *samples, sample)
	})
	g.Go(func() error {
		// Everything else stops once the buffer is drained.
		defer cancel()
		return pl.run(ctx, *interval)
	})
	if *metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, *metricsAddr)
		})
	}

	return g.Wait()
}

func packagerFor(format string) (packager.Packager, error) {
	switch format {
	case "json":
		return json.New(), nil
	case "yaml":
		return yaml.New().WithTerminator("---\n"), nil
	case "separator":
		return separator.New("|", ":"), nil
	case "msgpack":
		return msgpack.New(), nil
	case "msgp":
		return msgp.New(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// policyFor returns a policy making 5 attempts per batch. A batch that exhausts them waits
// cooldown before it's delivered again.
func policyFor(name string, cooldown time.Duration) (retry.Policy, error) {
	const attempts = 5
	switch name {
	case "fixed":
		return retry.NewFixed(attempts, 200*time.Millisecond).WithCooldown(cooldown), nil
	case "linear":
		return retry.NewLinear(attempts, 50*time.Millisecond, time.Second).WithCooldown(cooldown), nil
	case "exponential":
		return retry.NewExponential(attempts, 50*time.Millisecond, time.Second).WithCooldown(cooldown), nil
	case "immediate":
		return retry.NewImmediate(attempts).WithCooldown(cooldown), nil
	default:
		return nil, fmt.Errorf("unknown retry policy %q", name)
	}
}

func sample(now time.Time) []any {
	metrics := [...]string{"cpu", "memory", "disk"}
	return []any{
		metrics[rand.IntN(len(metrics))],
		float64(rand.IntN(1000)) / 1000,
		float64(now.UnixMilli()) / 1000,
	}
}

// flakySink writes messages to w, failing at random with the given probability.
func flakySink(w io.Writer, failRate float64) func(context.Context, []byte) error {
	return func(_ context.Context, data []byte) error {
		if rand.Float64() < failRate {
			return errors.New("simulated delivery failure")
		}
		_, err := w.Write(data)
		return err
	}
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func initLogger(level string) *slog.Logger {
	ll := &slog.LevelVar{}
	switch level {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		ll.Set(slog.LevelInfo)
	}
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}
