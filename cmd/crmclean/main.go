package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/crmclean/config"
	"github.com/vortex-fintech/crmclean/foundation/errx"
	"github.com/vortex-fintech/crmclean/foundation/idutil"
	"github.com/vortex-fintech/crmclean/foundation/logger"
	"github.com/vortex-fintech/crmclean/foundation/timeutil"
	"github.com/vortex-fintech/crmclean/metrics"
	"github.com/vortex-fintech/crmclean/pipeline"
	"github.com/vortex-fintech/crmclean/verify"
)

const usage = `usage: crmclean <command> [flags]

commands:
  clean     normalize, validate and deduplicate a contact CSV
  suppress  drop rows whose email appears in a master list

run "crmclean <command> -h" for the command's flags
`

func main() { os.Exit(run(os.Args[1:])) }

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	switch args[0] {
	case "clean":
		return runClean(args[1:])
	case "suppress":
		return runSuppress(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func runClean(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	var cfg config.Config
	fs.StringVar(&cfg.Input, "input", "", "input CSV path")
	fs.StringVar(&cfg.Output, "output", "", "output CSV path")
	fs.StringVar(&cfg.EmailColumn, "email-column", "", "header of the email column (default: detect)")
	fs.StringVar(&cfg.NameColumn, "name-column", "", `header of the first-name column (default: "first name" when present)`)
	fs.BoolVar(&cfg.DropInvalid, "drop-invalid", false, "drop rows with invalid emails instead of tagging them")
	fs.StringVar(&cfg.ReportPath, "report", "", "write a text run report to this path")
	fs.StringVar(&cfg.VerifyKey, "verify-key", "", "api key for the deliverability check (off when empty)")
	fs.StringVar(&cfg.VerifyURL, "verify-url", verify.DefaultBaseURL, "deliverability endpoint")
	fs.DurationVar(&cfg.VerifyPace, "verify-pace", time.Second, "minimum spacing between verification requests")
	fs.StringVar(&cfg.MetricsListen, "metrics-listen", "", "serve prometheus metrics on this address during the run")
	fs.StringVar(&cfg.Env, "env", "production", "logger environment (development|debug|production)")
	_ = fs.Parse(args)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	log := logger.Init("crmclean", cfg.Env)
	defer log.SafeSync()

	runID, err := idutil.NewRunID()
	if err != nil {
		log.Errorw("run id", "error", err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var verifier pipeline.Verifier
	if cfg.VerifyEnabled() {
		v, err := verify.New(verify.Config{
			BaseURL: cfg.VerifyURL,
			APIKey:  cfg.VerifyKey,
			Pace:    cfg.VerifyPace,
		}, timeutil.DefaultClock())
		if err != nil {
			cerr := errx.Config(err, "verifier")
			log.Errorw("clean failed", "error", cerr.Error())
			return exitCode(cerr)
		}
		verifier = v
	}

	err = withMetricsServer(ctx, cfg.MetricsListen, m, log, func(ctx context.Context) error {
		_, err := pipeline.Clean(ctx, pipeline.Options{
			Input:       cfg.Input,
			Output:      cfg.Output,
			EmailColumn: cfg.EmailColumn,
			NameColumn:  cfg.NameColumn,
			DropInvalid: cfg.DropInvalid,
			ReportPath:  cfg.ReportPath,
			Verifier:    verifier,
			Log:         log,
			Metrics:     m,
			Clock:       timeutil.DefaultClock(),
			RunID:       runID,
		})
		return err
	})
	if err != nil {
		log.Errorw("clean failed", "error", err.Error())
		return exitCode(err)
	}
	return 0
}

func runSuppress(args []string) int {
	fs := flag.NewFlagSet("suppress", flag.ExitOnError)
	var cfg config.Config
	fs.StringVar(&cfg.Master, "master", "", "master list CSV path")
	fs.StringVar(&cfg.Input, "input", "", "input CSV path")
	fs.StringVar(&cfg.Output, "output", "", "output CSV path")
	fs.StringVar(&cfg.KeyColumn, "key-column", "", "header of the key column in the input (default: detect)")
	fs.StringVar(&cfg.MasterKeyColumn, "master-key-column", "", "header of the key column in the master list (default: detect)")
	fs.StringVar(&cfg.Env, "env", "production", "logger environment (development|debug|production)")
	_ = fs.Parse(args)

	if err := cfg.ValidateSuppress(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	log := logger.Init("crmclean", cfg.Env)
	defer log.SafeSync()

	runID, err := idutil.NewRunID()
	if err != nil {
		log.Errorw("run id", "error", err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pipeline.Suppress(ctx, pipeline.SuppressOptions{
		Master:          cfg.Master,
		Input:           cfg.Input,
		Output:          cfg.Output,
		KeyColumn:       cfg.KeyColumn,
		MasterKeyColumn: cfg.MasterKeyColumn,
		Log:             log,
		Metrics:         metrics.New(),
		RunID:           runID,
	})
	if err != nil {
		log.Errorw("suppress failed", "error", err.Error())
		return exitCode(err)
	}
	return 0
}

// withMetricsServer runs fn, optionally serving /metrics for the duration of
// the run. Long paced verification runs are worth watching from outside.
func withMetricsServer(ctx context.Context, addr string, m *metrics.Metrics, log logger.LoggerInterface, fn func(context.Context) error) error {
	if addr == "" {
		return fn(ctx)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer close(done)
		return fn(ctx)
	})
	g.Go(func() error {
		select {
		case <-done:
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("metrics server shutdown", "error", err.Error())
		}
		return nil
	})
	return g.Wait()
}

// exitCode maps the error taxonomy to process exit codes: 2 for input/config
// problems, 3 for output problems, 1 for anything unexpected.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errx.IsInput(err), errx.IsConfig(err):
		return 2
	case errx.IsOutput(err):
		return 3
	default:
		return 1
	}
}
