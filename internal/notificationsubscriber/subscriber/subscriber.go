package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sochow/pkg/logger"
	"sochow/pkg/models"
	"sochow/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationSubscriber consumes the notifications fanout and relays each
// message to its audience: the customer's chat or the staff channel. In this
// build the relay is the console; the delivery gateway polls it.
type NotificationSubscriber struct {
	rabbitMQ *rabbitmq.RabbitMQ
	logger   *logger.Logger
}

func NewNotificationSubscriber(rmq *rabbitmq.RabbitMQ, log *logger.Logger) *NotificationSubscriber {
	return &NotificationSubscriber{
		rabbitMQ: rmq,
		logger:   log,
	}
}

// Start declares a private queue bound to the fanout exchange and consumes
// until ctx is cancelled. Every subscriber instance sees every notification.
func (s *NotificationSubscriber) Start(ctx context.Context) error {
	queue, err := s.rabbitMQ.Channel.QueueDeclare(
		"",    // name, server generated
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	err = s.rabbitMQ.Channel.QueueBind(
		queue.Name,
		"", // routing key ignored by fanout
		rabbitmq.NotificationsExchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := s.rabbitMQ.Channel.Consume(
		queue.Name,
		"notification-sub", // consumer
		false,              // auto-ack
		true,               // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	s.logger.Info("startup", "consuming_started",
		"Started consuming notifications from "+rabbitmq.NotificationsExchange)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			s.processMessage(msg)
		}
	}
}

func (s *NotificationSubscriber) processMessage(msg amqp.Delivery) {
	requestID := fmt.Sprintf("notif-%d", time.Now().UnixNano())

	var notification models.Notification
	if err := json.Unmarshal(msg.Body, &notification); err != nil {
		s.logger.Error(requestID, "message_parsing_failed", "Failed to parse notification", err)
		msg.Nack(false, false) // don't requeue
		return
	}

	s.display(notification)

	s.logger.Debug(requestID, "notification_received",
		fmt.Sprintf("%s notification for order %s", notification.Audience, notification.OrderNumber))

	msg.Ack(false)
}

func (s *NotificationSubscriber) display(n models.Notification) {
	switch n.Audience {
	case models.AudienceCustomer:
		fmt.Printf("=== CUSTOMER %s ===\n", n.ChatID)
	case models.AudienceStaff:
		fmt.Println("=== STAFF CHANNEL ===")
	default:
		s.logger.Warn("", "unknown_audience",
			fmt.Sprintf("Dropping notification with audience %q", n.Audience))
		return
	}

	if n.OrderNumber != "" {
		fmt.Printf("Order: %s\n", n.OrderNumber)
	}
	fmt.Println(n.Text)
	if n.ImageRef != "" {
		fmt.Printf("Image: %s\n", n.ImageRef)
	}
	fmt.Printf("Sent: %s\n", n.SentAt.Format(time.RFC3339))
	fmt.Println("=====================")
}
