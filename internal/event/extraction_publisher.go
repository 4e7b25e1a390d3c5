package event

import (
	"context"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"

	"github.com/rs/zerolog"
)

// ExtractionPublisher hands extraction requests to the extractor over RabbitMQ.
type ExtractionPublisher struct {
	queue *queuePublisher
	log   zerolog.Logger
}

func NewExtractionPublisher(ch Publisher) *ExtractionPublisher {
	return &ExtractionPublisher{
		queue: newQueuePublisher(ch),
		log:   logger.WithComponent("extraction_publisher"),
	}
}

func (p *ExtractionPublisher) Dispatch(ctx context.Context, req models.ExtractionRequest) error {
	if err := p.queue.publishJSON(ctx, ExtractionRequestsQueue, req); err != nil {
		return err
	}
	p.log.Debug().
		Str("queue", ExtractionRequestsQueue).
		Str("invoice_id", req.InvoiceID.String()).
		Msg("extraction request published")
	return nil
}
