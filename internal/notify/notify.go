package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"sochow/pkg/logger"
	"sochow/pkg/models"
	"sochow/pkg/rabbitmq"
)

// Notifier publishes status-change messages for customers and staff.
// Delivery is best effort: publish failures are logged and swallowed, a
// failed send never rolls back the state transition that triggered it.
type Notifier struct {
	rabbitMQ *rabbitmq.RabbitMQ
	logger   *logger.Logger
}

func NewNotifier(rabbitMQ *rabbitmq.RabbitMQ, log *logger.Logger) *Notifier {
	return &Notifier{
		rabbitMQ: rabbitMQ,
		logger:   log,
	}
}

func (n *Notifier) SendToUser(chatID, orderNumber, text, imageRef string) {
	n.publish(models.Notification{
		Audience:    models.AudienceCustomer,
		ChatID:      chatID,
		OrderNumber: orderNumber,
		Text:        text,
		ImageRef:    imageRef,
		SentAt:      time.Now().UTC(),
	})
}

func (n *Notifier) SendToStaff(orderNumber, text, imageRef string) {
	n.publish(models.Notification{
		Audience:    models.AudienceStaff,
		OrderNumber: orderNumber,
		Text:        text,
		ImageRef:    imageRef,
		SentAt:      time.Now().UTC(),
	})
}

func (n *Notifier) publish(msg models.Notification) {
	body, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("", "notification_marshal_failed", "Failed to marshal notification", err)
		return
	}

	if err := n.rabbitMQ.PublishMessage(rabbitmq.NotificationsExchange, "", body); err != nil {
		n.logger.Error("", "notification_publish_failed",
			fmt.Sprintf("Failed to publish %s notification for order %s", msg.Audience, msg.OrderNumber), err)
		return
	}

	n.logger.Debug("", "notification_published",
		fmt.Sprintf("Published %s notification for order %s", msg.Audience, msg.OrderNumber))
}
