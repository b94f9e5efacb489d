package service

import (
	"context"
	"fmt"
	"time"

	"sochow/internal/adminservice/db"
	"sochow/pkg/models"
)

// receiptURLExpiry bounds how long a dashboard receipt link stays valid.
const receiptURLExpiry = 15 * time.Minute

// OrderRow is an order as listed on the dashboard, with the receipt image
// reference replaced by a fetchable URL when a presigner is configured.
type OrderRow struct {
	db.OrderDetail
	ReceiptURL string `json:"receipt_url,omitempty"`
}

func (s *AdminService) ListOrders(ctx context.Context, paymentStatus string, limit int) ([]OrderRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	details, err := s.store.ListOrders(ctx, paymentStatus, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]OrderRow, 0, len(details))
	for _, detail := range details {
		rows = append(rows, s.orderRow(ctx, detail))
	}
	return rows, nil
}

func (s *AdminService) GetOrder(ctx context.Context, orderID int64) (OrderRow, error) {
	detail, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return OrderRow{}, err
	}
	return s.orderRow(ctx, detail), nil
}

func (s *AdminService) orderRow(ctx context.Context, detail db.OrderDetail) OrderRow {
	row := OrderRow{OrderDetail: detail}
	if detail.Receipt == nil || s.presigner == nil {
		return row
	}
	url, err := s.presigner.PresignURL(ctx, detail.Receipt.ImageRef, receiptURLExpiry)
	if err != nil {
		s.mylog.Warn("", "receipt_presign_failed",
			fmt.Sprintf("Failed to presign receipt for order %s", detail.Number))
		return row
	}
	row.ReceiptURL = url
	return row
}

// VerifyPayment applies the admin's payment decision and tells the customer.
// Repeating a decision re-applies the same state and re-sends the
// notification; the audit log records every attempt.
func (s *AdminService) VerifyPayment(ctx context.Context, orderID int64, adminID string, approve bool, notes *string) (models.Order, error) {
	order, err := s.store.VerifyPayment(ctx, orderID, adminID, approve, notes)
	if err != nil {
		return models.Order{}, err
	}

	var text string
	if approve {
		s.mylog.Info("", "payment_verified",
			fmt.Sprintf("Payment for order %s verified by %s", order.Number, adminID))
		text = fmt.Sprintf("Payment of %s confirmed for order %s. Your food is being prepared.",
			models.FormatNaira(order.TotalNaira), order.Number)
	} else {
		s.mylog.Info("", "payment_denied",
			fmt.Sprintf("Payment for order %s denied by %s", order.Number, adminID))
		text = fmt.Sprintf("We could not confirm your payment for order %s. Please check your transfer or contact support.",
			order.Number)
	}
	if user := s.customerFor(ctx, order); user != "" {
		s.notifier.SendToUser(user, order.Number, text, "")
	}
	return order, nil
}

// SetStatus moves the order to a new fulfillment status and tells the
// customer. A stored rider contact rides along in the message whatever the
// target status.
func (s *AdminService) SetStatus(ctx context.Context, orderID int64, status string, riderContact *string, adminID string) (models.Order, error) {
	if !validStatus(status) {
		return models.Order{}, fmt.Errorf("unknown order status %q", status)
	}

	order, err := s.store.SetOrderStatus(ctx, orderID, status, riderContact, adminID)
	if err != nil {
		return models.Order{}, err
	}

	s.mylog.Info("", "order_status_changed",
		fmt.Sprintf("Order %s moved to %s by %s", order.Number, status, adminID))

	text := fmt.Sprintf("Order %s update: %s.", order.Number, statusLine(status))
	if order.RiderContact != nil {
		text += fmt.Sprintf(" Rider contact: %s.", *order.RiderContact)
	}
	if user := s.customerFor(ctx, order); user != "" {
		s.notifier.SendToUser(user, order.Number, text, "")
	}
	return order, nil
}

// Cancel cancels the order from any state and tells the customer.
func (s *AdminService) Cancel(ctx context.Context, orderID int64, adminID string, notes *string) (models.Order, error) {
	order, err := s.store.CancelOrder(ctx, orderID, adminID, notes)
	if err != nil {
		return models.Order{}, err
	}

	s.mylog.Info("", "order_cancelled",
		fmt.Sprintf("Order %s cancelled by %s", order.Number, adminID))

	if user := s.customerFor(ctx, order); user != "" {
		s.notifier.SendToUser(user, order.Number,
			fmt.Sprintf("Order %s has been cancelled. Please contact support if this is unexpected.", order.Number), "")
	}
	return order, nil
}

// QueryOrder relays a free-text question about an order to the staff
// channel.
func (s *AdminService) QueryOrder(ctx context.Context, orderID int64, message string) error {
	if message == "" {
		return fmt.Errorf("message is required")
	}

	detail, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	s.notifier.SendToStaff(detail.Number,
		fmt.Sprintf("Query about %s:\n\n%s", detail.Number, message), "")
	return nil
}

func (s *AdminService) Audit(ctx context.Context, orderID int64) ([]models.AdminAction, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.AuditLog(ctx, orderID)
}

// customerFor looks up the chat id of the order's customer. A lookup failure
// only costs the notification.
func (s *AdminService) customerFor(ctx context.Context, order models.Order) string {
	detail, err := s.store.GetOrder(ctx, order.ID)
	if err != nil {
		s.mylog.Warn("", "customer_lookup_failed",
			fmt.Sprintf("Cannot notify customer of order %s", order.Number))
		return ""
	}
	return detail.CustomerChatID
}

func validStatus(status string) bool {
	switch status {
	case models.StatusProcessing, models.StatusPrepared, models.StatusOutForDelivery,
		models.StatusDelivered, models.StatusCancelled:
		return true
	}
	return false
}

func statusLine(status string) string {
	switch status {
	case models.StatusProcessing:
		return "your order is being processed"
	case models.StatusPrepared:
		return "your order has been prepared"
	case models.StatusOutForDelivery:
		return "your order is out for delivery"
	case models.StatusDelivered:
		return "your order has been delivered"
	case models.StatusCancelled:
		return "your order has been cancelled"
	}
	return status
}
