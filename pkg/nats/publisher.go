package nats

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

var subjectUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type Publisher struct {
	js jetstream.JetStream
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{js: client.JetStream()}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data any, opts ...jetstream.PublishOpt) error {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	_, err = p.js.Publish(ctx, subject, payload, opts...)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	return nil
}

// PublishTotal sends total on the addon's subject with a fresh message id.
func (p *Publisher) PublishTotal(ctx context.Context, total models.CompletedTotal) error {
	return p.Publish(ctx, TotalSubject(total.AddonName), total, jetstream.WithMsgID(uuid.NewString()))
}

// TotalSubject maps an addon name to a single subject token under addon.totals.
func TotalSubject(addon string) string {
	token := subjectUnsafe.ReplaceAllString(addon, "_")
	if token == "" {
		token = "_"
	}
	return SubjectAddonTotalPrefix + token
}
