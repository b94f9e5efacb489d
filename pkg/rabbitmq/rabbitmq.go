package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"sochow/internal/config"
	"sochow/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationsExchange is the fanout every status-change message goes
// through. Subscribers bind their own exclusive queues to it.
const NotificationsExchange = "notifications_fanout"

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Logger  *logger.Logger
}

func ConnectRabbitMQ(cfg *config.RabbitMQ, log *logger.Logger) (*RabbitMQ, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		NotificationsExchange, // name
		"fanout",              // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("startup", "rabbitmq_connected", "Connected to RabbitMQ")
	return &RabbitMQ{
		Conn:    conn,
		Channel: channel,
		Logger:  log,
	}, nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

func (r *RabbitMQ) PublishMessage(exchange, routingKey string, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.Channel.PublishWithContext(ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         message,
			Timestamp:    time.Now(),
		})
}
