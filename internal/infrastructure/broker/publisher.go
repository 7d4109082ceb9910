package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"main/internal/config"
	domain "main/internal/domain/entity/portfolio"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher fans executed trades out to a RabbitMQ exchange so downstream
// consumers (notifications, analytics) see the ledger as it grows.
type Publisher struct {
	cfg    config.RabbitMQConfig
	logger *logrus.Entry

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the trades exchange.
func NewPublisher(cfg config.RabbitMQConfig, logger *logrus.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if cfg.TradesExchange == "" {
		return nil, errors.New("trades exchange name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.TradesExchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.TradesExchange, err)
	}

	return &Publisher{
		cfg:     cfg,
		logger:  logger.WithField("component", "trade_publisher"),
		conn:    conn,
		channel: ch,
	}, nil
}

// PublishTrade sends the trade as a persistent JSON message.
func (p *Publisher) PublishTrade(ctx context.Context, trade *domain.Trade) error {
	if trade == nil {
		return errors.New("trade is nil")
	}
	body, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("marshal trade: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(ctx, p.cfg.TradesExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Errorf("close rabbitmq channel: %v", err)
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Errorf("close rabbitmq connection: %v", err)
		}
		p.conn = nil
	}
}
