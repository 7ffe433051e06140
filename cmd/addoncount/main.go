package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhegg/addon-download-count-fetcher/internal/api"
	"github.com/jhegg/addon-download-count-fetcher/internal/config"
	"github.com/jhegg/addon-download-count-fetcher/internal/fetcher"
	"github.com/jhegg/addon-download-count-fetcher/internal/pipeline"
	"github.com/jhegg/addon-download-count-fetcher/internal/scheduler"
	"github.com/jhegg/addon-download-count-fetcher/pkg/extractor"
	"github.com/jhegg/addon-download-count-fetcher/pkg/logger"
	"github.com/jhegg/addon-download-count-fetcher/pkg/sink"
)

const addonFileExample = `[
  {
    "name": "GoldCounter",
    "curseforge": "http://wow.curseforge.com/addons/goldcounter/",
    "wowinterface": "http://www.wowinterface.com/downloads/author-318870.html"
  }
]`

type stringList []string

func (l *stringList) String() string {
	return fmt.Sprint([]string(*l))
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run wires the collection from command-line args and returns the exit code.
// Usage and configuration errors return before any page is fetched.
func run(args []string, stderr io.Writer) int {
	cfg := config.Load()

	var (
		flagFile   string
		flagOutput string
		flagStores stringList
		flagEvery  time.Duration
		flagListen string
	)
	fs := flag.NewFlagSet("addoncount", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flagFile, "f", "", "Path to JSON or YAML file with addon details (required)")
	fs.StringVar(&flagOutput, "o", "", "Append totals to this CSV file")
	fs.Var(&flagStores, "store", "Store totals in mongodb://, mysql://, sqlite://, redis:// or nats:// target (repeatable)")
	fs.DurationVar(&flagEvery, "every", 0, "Repeat the collection at this interval until interrupted")
	fs.StringVar(&flagListen, "listen", cfg.HTTPListen, "Serve /health, /api/totals and /metrics on this address (with -every)")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger.Init(logger.IsDev())
	log := logger.Log

	if flagFile == "" {
		fmt.Fprintln(stderr, "Error: The file argument was not provided.")
		fs.Usage()
		return 1
	}

	registry := extractor.NewDefaultRegistry()

	addons, err := config.LoadAddons(flagFile, registry.Sources())
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	dispatcher := sink.NewDispatcher(sink.NewConsoleSink(logger.Component("console")))
	if flagOutput != "" {
		dispatcher.Add(sink.NewCSVSink(flagOutput))
	}
	for _, target := range flagStores {
		s, err := sink.NewStoreSink(target, sink.StoreOptions{Timeout: cfg.StoreTimeout, MongoDB: cfg.MongoDB})
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		dispatcher.Add(s)
	}

	totals := sink.NewMemorySink()
	dispatcher.Add(totals)

	f := fetcher.New(
		fetcher.WithTimeout(cfg.FetchTimeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithRateLimit(cfg.FetchRateLimit),
	)
	p := pipeline.New(f, registry, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flagEvery <= 0 {
		p.Run(ctx, addons)
		return 0
	}

	sched, err := scheduler.New(flagEvery, func(ctx context.Context) {
		p.Run(ctx, addons)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create scheduler")
		return 1
	}
	if err := sched.Start(ctx); err != nil {
		log.Error().Err(err).Msg("failed to start scheduler")
		return 1
	}
	defer sched.Stop()

	var app *fiber.App
	if flagListen != "" {
		app = fiber.New(fiber.Config{DisableStartupMessage: true})
		api.SetupRoutes(app, api.NewHandler(totals))
		go func() {
			log.Info().Str("addr", flagListen).Msg("HTTP API server starting")
			if err := app.Listen(flagListen); err != nil {
				log.Error().Err(err).Msg("HTTP server error")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")
	cancel()

	if app != nil {
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}
	}
	return 0
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s -f <addons.json> [-o totals.csv] [-store url]... [-every 1h [-listen :8080]]\n\n", fs.Name())
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Example:")
	fmt.Fprintln(out, "    $ addoncount -f addon.json")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "    addon.json contents:")
	fmt.Fprintln(out, addonFileExample)
	fmt.Fprintln(out)
}
