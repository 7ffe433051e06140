package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

var (
	ErrUnknownAddon  = errors.New("addon not configured")
	ErrUnknownSource = errors.New("source not configured for addon")
)

type State int

const (
	StateEmpty State = iota
	StatePartial
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateComplete:
		return "complete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type addonState struct {
	expected map[models.SourceID]struct{}
	counts   map[models.SourceID]int64
	sealed   bool
}

func (s *addonState) state() State {
	switch {
	case s.sealed:
		return StateComplete
	case len(s.counts) == 0:
		return StateEmpty
	}
	return StatePartial
}

// Aggregator collects per-source counts for one run and emits each addon's
// total once, when every source configured for it has reported.
type Aggregator struct {
	mu     sync.Mutex
	now    func() time.Time
	addons map[string]*addonState
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// New builds an aggregator for specs. When a name appears more than once the
// first entry defines the expected sources.
func New(specs []models.AddonSpec, opts ...Option) *Aggregator {
	a := &Aggregator{
		now:    time.Now,
		addons: make(map[string]*addonState, len(specs)),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, spec := range specs {
		if _, ok := a.addons[spec.Name]; ok {
			continue
		}
		expected := make(map[models.SourceID]struct{}, len(spec.Sources))
		for id := range spec.Sources {
			expected[id] = struct{}{}
		}
		a.addons[spec.Name] = &addonState{
			expected: expected,
			counts:   make(map[models.SourceID]int64, len(expected)),
		}
	}

	return a
}

// Record stores r and returns the addon's total if r completed it.
// It returns nil while sources are outstanding and after the total was emitted.
func (a *Aggregator) Record(r models.PartialResult) (*models.CompletedTotal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.addons[r.AddonName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAddon, r.AddonName)
	}
	if _, ok := st.expected[r.Source]; !ok {
		return nil, fmt.Errorf("%w: %q/%s", ErrUnknownSource, r.AddonName, r.Source)
	}
	if st.sealed {
		return nil, nil
	}

	st.counts[r.Source] = r.Count
	if len(st.counts) < len(st.expected) {
		return nil, nil
	}

	var sum int64
	for _, c := range st.counts {
		sum += c
	}
	st.sealed = true

	return &models.CompletedTotal{
		Timestamp: a.now(),
		AddonName: r.AddonName,
		Count:     sum,
	}, nil
}

func (a *Aggregator) State(addon string) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.addons[addon]
	if !ok {
		return StateEmpty
	}
	return st.state()
}

// Pending lists addons whose total was never emitted, sorted by name.
func (a *Aggregator) Pending() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var names []string
	for name, st := range a.addons {
		if !st.sealed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
