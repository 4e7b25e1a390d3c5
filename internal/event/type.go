package event

import (
	"context"
	"time"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExtractionRequestsQueue carries files waiting for extraction.
	ExtractionRequestsQueue string = "invoice_extraction_requests"
	// ExtractionResultsQueue carries the extractor's structured output back.
	ExtractionResultsQueue string = "invoice_extraction_results"
	// ReminderFeedQueue carries the periodic reminder eligibility snapshot.
	ReminderFeedQueue string = "invoice_reminder_feed"
)

// ExtractionResultEvent is what the extractor publishes once it has read a file.
type ExtractionResultEvent struct {
	InvoiceID uuid.UUID                   `json:"invoiceId"`
	Data      models.ExtractedInvoiceData `json:"data"`
}

type ReminderFeedEvent struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Count       int                      `json:"count"`
	Invoices    []models.InvoiceReminder `json:"invoices"`
}

// Publisher is the slice of *amqp.Channel the publishers need.
type Publisher interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Consumer is the slice of *amqp.Channel the consumers need.
type Consumer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}
