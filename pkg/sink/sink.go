package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhegg/addon-download-count-fetcher/pkg/logger"
	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

// Sink accepts completed totals. Implementations only ever append.
type Sink interface {
	Name() string
	Write(ctx context.Context, total models.CompletedTotal) error
}

type SinkError struct {
	Sink  string
	Addon string
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: write %q: %v", e.Sink, e.Addon, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Dispatcher hands every completed total to all of its sinks.
type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Add(s Sink) {
	d.sinks = append(d.sinks, s)
}

func (d *Dispatcher) Sinks() []Sink {
	return d.sinks
}

// Dispatch writes total to every sink concurrently and waits for all of them.
// A failing sink is logged and reported in the result; the others are unaffected.
func (d *Dispatcher) Dispatch(ctx context.Context, total models.CompletedTotal) []*SinkError {
	log := logger.Log

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []*SinkError
	)

	for _, s := range d.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = append(errs, &SinkError{Sink: s.Name(), Addon: total.AddonName, Err: fmt.Errorf("panic: %v", r)})
					mu.Unlock()
				}
			}()

			if err := s.Write(ctx, total); err != nil {
				mu.Lock()
				errs = append(errs, &SinkError{Sink: s.Name(), Addon: total.AddonName, Err: err})
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	for _, e := range errs {
		log.Error().Err(e.Err).Str("sink", e.Sink).Str("addon", e.Addon).Msg("sink write failed")
	}

	return errs
}
