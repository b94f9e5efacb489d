package service

import (
	"context"
	"fmt"

	"sochow/pkg/models"
)

// AttachReceipt links an uploaded proof-of-payment image to the user's most
// recent pending order and alerts the staff channel. Payment status is not
// touched here; verification is a separate staff action.
func (s *OrderingService) AttachReceipt(ctx context.Context, chatID, name, imageRef string) (models.Receipt, models.Order, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return models.Receipt{}, models.Order{}, err
	}

	order, err := s.store.LatestPendingOrder(ctx, user.ID)
	if err != nil {
		return models.Receipt{}, models.Order{}, err
	}

	receipt, err := s.store.SaveReceipt(ctx, order.ID, user.ID, imageRef)
	if err != nil {
		return models.Receipt{}, models.Order{}, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.mylog.Info("", "receipt_attached",
		fmt.Sprintf("Receipt attached to order %s", order.Number))
	s.notifier.SendToStaff(order.Number,
		fmt.Sprintf("Payment receipt for %s\nAmount: %s", order.Number, models.FormatNaira(order.TotalNaira)),
		imageRef)

	return receipt, order, nil
}
