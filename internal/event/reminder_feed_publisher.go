package event

import (
	"context"
	"fmt"
	"time"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type ReminderSource interface {
	PendingForReminder(ctx context.Context, scope models.TenantScope) ([]models.InvoiceReminder, error)
}

// ReminderFeedPublisher pushes the reminder eligibility snapshot to the dispatcher's queue.
type ReminderFeedPublisher struct {
	queue  *queuePublisher
	source ReminderSource
	scope  models.TenantScope
	log    zerolog.Logger
}

func NewReminderFeedPublisher(ch Publisher, source ReminderSource) *ReminderFeedPublisher {
	return &ReminderFeedPublisher{
		queue:  newQueuePublisher(ch),
		source: source,
		scope:  models.PlatformScope(uuid.Nil, "reminder-feed"),
		log:    logger.WithComponent("reminder_feed"),
	}
}

// PublishFeed reads the current view and publishes it as one message.
func (p *ReminderFeedPublisher) PublishFeed(ctx context.Context) error {
	rows, err := p.source.PendingForReminder(ctx, p.scope)
	if err != nil {
		return fmt.Errorf("failed to load reminder view: %w", err)
	}
	evt := ReminderFeedEvent{GeneratedAt: time.Now().UTC(), Count: len(rows), Invoices: rows}
	if err := p.queue.publishJSON(ctx, ReminderFeedQueue, evt); err != nil {
		return err
	}
	p.log.Info().Int("invoices", len(rows)).Msg("reminder feed published")
	return nil
}

// Schedule registers PublishFeed on a cron spec and starts the scheduler.
// Stop the returned cron on shutdown.
func (p *ReminderFeedPublisher) Schedule(spec string, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.PublishFeed(ctx); err != nil {
			p.log.Error().Err(err).Msg("scheduled reminder feed failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder feed schedule %q: %w", spec, err)
	}
	c.Start()
	p.log.Info().Str("schedule", spec).Msg("reminder feed scheduled")
	return c, nil
}
