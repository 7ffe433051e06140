package sink

import (
	"context"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
	"github.com/jhegg/addon-download-count-fetcher/pkg/nats"
)

// NATSSink publishes totals to the ADDON_TOTALS JetStream stream.
type NATSSink struct {
	url string
}

func NewNATSSink(url string) *NATSSink {
	return &NATSSink{url: url}
}

func (s *NATSSink) Name() string {
	return "nats"
}

func (s *NATSSink) Write(ctx context.Context, total models.CompletedTotal) error {
	client, err := nats.New(ctx, s.url)
	if err != nil {
		return err
	}
	defer client.Close()

	return nats.NewPublisher(client).PublishTotal(ctx, total)
}
