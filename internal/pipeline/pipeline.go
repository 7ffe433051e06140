package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhegg/addon-download-count-fetcher/internal/aggregator"
	"github.com/jhegg/addon-download-count-fetcher/internal/fetcher"
	"github.com/jhegg/addon-download-count-fetcher/internal/metrics"
	"github.com/jhegg/addon-download-count-fetcher/pkg/extractor"
	"github.com/jhegg/addon-download-count-fetcher/pkg/logger"
	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
	"github.com/jhegg/addon-download-count-fetcher/pkg/sink"
)

// PageFetcher returns the markup at url.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Pipeline struct {
	fetcher    PageFetcher
	registry   *extractor.Registry
	dispatcher *sink.Dispatcher
	now        func() time.Time
}

type Option func(*Pipeline)

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(f PageFetcher, registry *extractor.Registry, dispatcher *sink.Dispatcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    f,
		registry:   registry,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report summarises one run.
type Report struct {
	RunID      string
	Completed  []models.CompletedTotal
	Incomplete []string
	Failures   []error
	SinkErrors []*sink.SinkError
}

// Run fetches every source of every addon concurrently and dispatches each
// addon's total once all of its sources have reported. Fetch and extraction
// failures only stop the affected addon from completing; they are collected
// in the report rather than returned.
func (p *Pipeline) Run(ctx context.Context, addons []models.AddonSpec) *Report {
	report := &Report{RunID: uuid.NewString()}
	log := logger.Log.With().Str("run", report.RunID).Logger()

	agg := aggregator.New(addons, aggregator.WithClock(p.now))

	partials := make(chan models.PartialResult)
	failures := make(chan error)

	var wg sync.WaitGroup
	for _, addon := range addons {
		for _, src := range addon.SourceIDs() {
			wg.Add(1)
			go func(name string, src models.SourceID, url string) {
				defer wg.Done()
				r, err := p.fetchCount(ctx, log, name, src, url)
				if err != nil {
					failures <- err
					return
				}
				partials <- r
			}(addon.Name, src, addon.Sources[src])
		}
	}

	go func() {
		wg.Wait()
		close(partials)
		close(failures)
	}()

	log.Info().Int("addons", len(addons)).Msg("run started")

	// Single consumer: Record calls never interleave.
	for partials != nil || failures != nil {
		select {
		case r, ok := <-partials:
			if !ok {
				partials = nil
				continue
			}
			p.record(ctx, log, agg, r, report)
		case err, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			report.Failures = append(report.Failures, err)
		}
	}

	report.Incomplete = agg.Pending()
	for _, name := range report.Incomplete {
		log.Warn().Str("addon", name).Msg("addon total incomplete, not reported")
	}

	log.Info().
		Int("completed", len(report.Completed)).
		Int("incomplete", len(report.Incomplete)).
		Int("failures", len(report.Failures)).
		Msg("run finished")

	return report
}

func (p *Pipeline) fetchCount(ctx context.Context, log zerolog.Logger, name string, src models.SourceID, url string) (models.PartialResult, error) {
	markup, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.FetchTotal.WithLabelValues(string(src), metrics.OutcomeError).Inc()
		ev := log.Error().Err(err).Str("addon", name).Str("source", string(src)).Str("url", url)
		var fetchErr *fetcher.FetchError
		if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
			ev = ev.Int("status", fetchErr.StatusCode)
		}
		ev.Msg("fetch failed")
		return models.PartialResult{}, err
	}
	metrics.FetchTotal.WithLabelValues(string(src), metrics.OutcomeOK).Inc()

	count, err := p.registry.Extract(src, name, markup)
	if err != nil {
		metrics.ExtractFailures.WithLabelValues(string(src)).Inc()
		log.Error().Err(err).Str("addon", name).Str("source", string(src)).Str("url", url).Msg("extract failed")
		return models.PartialResult{}, err
	}

	log.Debug().Str("addon", name).Str("source", string(src)).Int64("count", count).Msg("source reported")
	return models.PartialResult{AddonName: name, Source: src, Count: count}, nil
}

func (p *Pipeline) record(ctx context.Context, log zerolog.Logger, agg *aggregator.Aggregator, r models.PartialResult, report *Report) {
	total, err := agg.Record(r)
	if err != nil {
		log.Error().Err(err).Str("addon", r.AddonName).Str("source", string(r.Source)).Msg("record failed")
		report.Failures = append(report.Failures, err)
		return
	}
	if total == nil {
		return
	}

	metrics.TotalsEmitted.Inc()
	metrics.LastTotal.WithLabelValues(total.AddonName).Set(float64(total.Count))
	report.Completed = append(report.Completed, *total)

	sinkErrs := p.dispatcher.Dispatch(ctx, *total)
	for _, e := range sinkErrs {
		metrics.SinkErrors.WithLabelValues(e.Sink).Inc()
	}
	report.SinkErrors = append(report.SinkErrors, sinkErrs...)
}
