package event

import (
	"context"
	"encoding/json"
	"fmt"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/services"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ExtractionResultHandler stores what the extractor read from a file.
type ExtractionResultHandler interface {
	StoreExtracted(ctx context.Context, scope models.TenantScope, invoiceID uuid.UUID, data models.ExtractedInvoiceData) (*models.Invoice, error)
}

// ExtractionConsumer applies extraction results published by the extractor.
type ExtractionConsumer struct {
	ch      Consumer
	handler ExtractionResultHandler
	scope   models.TenantScope
	log     zerolog.Logger
}

func NewExtractionConsumer(ch Consumer, handler ExtractionResultHandler) *ExtractionConsumer {
	return &ExtractionConsumer{
		ch:      ch,
		handler: handler,
		scope:   models.PlatformScope(uuid.Nil, "extraction-consumer"),
		log:     logger.WithComponent("extraction_consumer"),
	}
}

// Start begins consuming extraction results
func (c *ExtractionConsumer) Start(ctx context.Context) error {
	_, err := c.ch.QueueDeclare(
		ExtractionResultsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", ExtractionResultsQueue, err)
	}

	msgs, err := c.ch.Consume(
		ExtractionResultsQueue,
		"",    // consumer tag (auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", ExtractionResultsQueue, err)
	}

	c.log.Info().Str("queue", ExtractionResultsQueue).Msg("extraction consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.log.Info().Msg("extraction consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.log.Warn().Msg("extraction consumer channel closed")
					return
				}
				c.processMessage(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *ExtractionConsumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	var evt ExtractionResultEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.InvoiceID == uuid.Nil {
		c.log.Error().Err(err).Msg("malformed extraction result, dropping")
		msg.Nack(false, false)
		return
	}

	_, err := c.handler.StoreExtracted(ctx, c.scope, evt.InvoiceID, evt.Data)
	switch {
	case err == nil:
		c.log.Info().Str("invoice_id", evt.InvoiceID.String()).Msg("extraction result applied")
		msg.Ack(false)
	case services.IsPermanent(err):
		// Redelivery cannot help: the invoice is gone or already confirmed.
		c.log.Warn().Err(err).Str("invoice_id", evt.InvoiceID.String()).Msg("extraction result discarded")
		msg.Ack(false)
	default:
		c.log.Error().Err(err).Str("invoice_id", evt.InvoiceID.String()).Msg("failed to apply extraction result, requeueing")
		msg.Nack(false, true)
	}
}
