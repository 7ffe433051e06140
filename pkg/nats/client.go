package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jhegg/addon-download-count-fetcher/pkg/logger"
)

const (
	StreamAddonTotals = "ADDON_TOTALS"

	SubjectAddonTotals      = "addon.totals.>"
	SubjectAddonTotalPrefix = "addon.totals."
)

type Client struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func New(ctx context.Context, url string) (*Client, error) {
	log := logger.Log

	opts := []nats.Option{
		nats.Name("addon-download-count-fetcher"),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Error().Err(err).Msg("nats disconnected")
			}
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	client := &Client{nc: nc, js: js}

	if err := client.ensureStreams(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure streams: %w", err)
	}

	log.Debug().Str("url", url).Msg("nats connected")
	return client, nil
}

func (c *Client) ensureStreams(ctx context.Context) error {
	cfg := jetstream.StreamConfig{
		Name:        StreamAddonTotals,
		Subjects:    []string{SubjectAddonTotals},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Discard:     jetstream.DiscardOld,
		Duplicates:  2 * time.Minute,
		Description: "Completed addon download totals",
	}

	if _, err := c.js.CreateOrUpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("create stream %s: %w", cfg.Name, err)
	}
	logger.Log.Debug().Str("stream", cfg.Name).Msg("stream ensured")
	return nil
}

func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

func (c *Client) Close() {
	c.nc.Close()
}
