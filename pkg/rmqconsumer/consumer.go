package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"user-registry-api/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

const (
	actionCreated = "user.created"
)

var routingKeys = []string{
	"user.created",
	"user.updated",
	"user.deleted",
	"user.activated",
	"user.deactivated",
}

// WelcomeSender greets freshly created users.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, to, fullName string) error
}

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	mailer     WelcomeSender
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

type event struct {
	Action  string `json:"event_action"`
	UserID  string `json:"user_id"`
	Payload struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	} `json:"user_payload"`
}

// New builds a consumer; mailer may be nil, then created events are only logged.
func New(cfg config.MQ, logger *zap.Logger, mailer WelcomeSender) *Consumer {
	return &Consumer{
		cfg:    cfg,
		log:    logger,
		mailer: mailer,
	}
}

func (c *Consumer) Connect(_ context.Context, dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range routingKeys {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(ctx, msg); err != nil {
				// alert
				c.log.Error("mq read message error", zap.Error(err))
			}
		case <-ctx.Done():
			c.chConsume.Close()
			return
		}
	}
}

func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	var e event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode %s event: %w", msg.RoutingKey, err)
	}

	c.log.Info("user event",
		zap.String("action", msg.RoutingKey),
		zap.String("user_id", e.UserID),
		zap.String("message_id", msg.MessageId),
	)

	if msg.RoutingKey != actionCreated || c.mailer == nil {
		return nil
	}
	if e.Payload.Email == "" {
		return fmt.Errorf("created event for %s has no email", e.UserID)
	}

	return c.mailer.SendWelcome(ctx, e.Payload.Email, e.Payload.FullName)
}

func (c *Consumer) GetConn() *amqp091.Connection { return c.conn }
