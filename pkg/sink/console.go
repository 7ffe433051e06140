package sink

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

type ConsoleSink struct {
	log zerolog.Logger
}

func NewConsoleSink(log zerolog.Logger) *ConsoleSink {
	return &ConsoleSink{log: log}
}

func (s *ConsoleSink) Name() string {
	return "console"
}

func (s *ConsoleSink) Write(ctx context.Context, total models.CompletedTotal) error {
	s.log.Info().
		Str("at", total.Timestamp.Format(time.RFC3339)).
		Str("addon", total.AddonName).
		Int64("count", total.Count).
		Msg("addon total")
	return nil
}
