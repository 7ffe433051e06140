package sink

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

// CSVSink appends "timestamp,name,count" records to a file, creating it if needed.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string {
	return "csv"
}

func (s *CSVSink) Write(ctx context.Context, total models.CompletedTotal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	bw := bufio.NewWriter(f)
	w := csv.NewWriter(bw)
	werr := w.Write([]string{
		total.Timestamp.Format(time.RFC3339),
		total.AddonName,
		strconv.FormatInt(total.Count, 10),
	})
	if werr == nil {
		w.Flush()
		werr = w.Error()
	}
	if werr == nil {
		werr = bw.Flush()
	}

	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append %s: %w", s.path, werr)
	}
	return nil
}
