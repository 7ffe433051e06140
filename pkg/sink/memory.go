package sink

import (
	"context"
	"sort"
	"sync"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

// MemorySink keeps the latest total per addon for the status API.
type MemorySink struct {
	mu     sync.RWMutex
	latest map[string]models.CompletedTotal
}

func NewMemorySink() *MemorySink {
	return &MemorySink{latest: make(map[string]models.CompletedTotal)}
}

func (s *MemorySink) Name() string {
	return "memory"
}

func (s *MemorySink) Write(ctx context.Context, total models.CompletedTotal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.latest[total.AddonName]; ok && prev.Timestamp.After(total.Timestamp) {
		return nil
	}
	s.latest[total.AddonName] = total
	return nil
}

func (s *MemorySink) Latest() []models.CompletedTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CompletedTotal, 0, len(s.latest))
	for _, t := range s.latest {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddonName < out[j].AddonName })
	return out
}
