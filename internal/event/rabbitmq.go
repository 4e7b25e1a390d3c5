package event

import (
	"fmt"
	"strconv"
	"time"

	"invoice-service/internal/config"
	"invoice-service/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// dialAMQP is replaced in tests.
var dialAMQP = amqp.Dial

// RabbitMQConnection is the broker connection and the one channel every
// publisher and consumer of this service shares.
type RabbitMQConnection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// brokerURL builds the AMQP URL, escaping credentials.
func brokerURL(cfg config.RabbitMQConfig) (string, error) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		return "", fmt.Errorf("invalid RabbitMQ port %q: %w", cfg.Port, err)
	}
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     port,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    "/",
	}
	return uri.String(), nil
}

// ConnectRabbitMQ dials the broker once and opens the shared channel.
func ConnectRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQConnection, error) {
	url, err := brokerURL(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := dialAMQP(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	log := logger.WithComponent("rabbitmq")
	log.Info().Str("host", cfg.Host).Str("port", cfg.Port).Msg("connected to RabbitMQ")

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			log.Error().Int("code", amqpErr.Code).Str("reason", amqpErr.Reason).Msg("RabbitMQ connection lost")
		}
	}()

	return &RabbitMQConnection{Connection: conn, Channel: ch}, nil
}

// ConnectWithRetry keeps dialing until the broker answers or attempts run out.
func ConnectWithRetry(cfg config.RabbitMQConfig, attempts int, wait time.Duration) (*RabbitMQConnection, error) {
	log := logger.WithComponent("rabbitmq")
	var lastErr error
	for i := 1; i <= attempts; i++ {
		conn, err := ConnectRabbitMQ(cfg)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i).Dur("next_retry", wait).Msg("broker connection failed")
		if i < attempts {
			time.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("broker unavailable after %d attempts: %w", attempts, lastErr)
}

func (r *RabbitMQConnection) Close() error {
	log := logger.WithComponent("rabbitmq")
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close RabbitMQ channel")
		}
	}
	if r.Connection != nil {
		if err := r.Connection.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close RabbitMQ connection")
			return err
		}
	}
	log.Info().Msg("RabbitMQ connection closed")
	return nil
}
