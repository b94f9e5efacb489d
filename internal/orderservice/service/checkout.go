package service

import (
	"context"
	"fmt"

	"sochow/internal/config"
	"sochow/pkg/models"
)

const (
	promptAddress = "Please enter your delivery address:"
	promptPhone   = "Please enter your contact number:"
)

// CheckoutReply tells the gateway what to show next. Consumed is false when
// the user has no checkout in progress and the message belongs to some
// other flow.
type CheckoutReply struct {
	Consumed bool          `json:"consumed"`
	Prompt   string        `json:"prompt,omitempty"`
	Order    *OrderSummary `json:"order,omitempty"`
}

// OrderSummary is returned once the order is materialized, including the
// bank transfer details the customer pays to.
type OrderSummary struct {
	Number          string            `json:"order_number"`
	Lines           []models.CartLine `json:"items"`
	TotalNaira      int64             `json:"total_naira"`
	DeliveryAddress string            `json:"delivery_address"`
	ContactNumber   string            `json:"contact_number"`
	Payment         config.Payment    `json:"payment"`
}

// BeginCheckout starts the conversation for the user's active cart. An
// empty cart is rejected before any state is recorded. Re-entering checkout
// resets the conversation to the address step.
func (s *OrderingService) BeginCheckout(ctx context.Context, chatID, name string) (CheckoutReply, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return CheckoutReply{}, err
	}

	cart, err := s.store.GetOrCreateActiveCart(ctx, user.ID)
	if err != nil {
		return CheckoutReply{}, err
	}

	lines, err := s.store.CartLines(ctx, cart.ID)
	if err != nil {
		return CheckoutReply{}, err
	}
	if len(lines) == 0 {
		return CheckoutReply{}, models.ErrEmptyCart
	}

	s.sessions.Put(user.ID, checkoutSession{Step: stepAwaitingAddress, CartID: cart.ID})
	s.mylog.Debug("", "checkout_started", fmt.Sprintf("Checkout started for user %d, cart %d", user.ID, cart.ID))
	return CheckoutReply{Consumed: true, Prompt: promptAddress}, nil
}

// HandleMessage feeds one text message into the user's checkout
// conversation. The address step stores the text and advances; the phone
// step stores the text and materializes the order, after which the session
// is removed. If materialization fails the session stays on the phone step
// so the user can retry, and the cart remains active.
func (s *OrderingService) HandleMessage(ctx context.Context, chatID, name, text string) (CheckoutReply, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return CheckoutReply{}, err
	}

	sess, ok := s.sessions.Get(user.ID)
	if !ok {
		return CheckoutReply{Consumed: false}, nil
	}

	switch sess.Step {
	case stepAwaitingAddress:
		sess.Address = text
		sess.Step = stepAwaitingPhone
		s.sessions.Put(user.ID, sess)
		return CheckoutReply{Consumed: true, Prompt: promptPhone}, nil

	case stepAwaitingPhone:
		order, lines, err := s.store.CreateOrder(ctx, user.ID, sess.CartID, sess.Address, text)
		if err != nil {
			return CheckoutReply{}, fmt.Errorf("failed to create order: %w", err)
		}
		s.sessions.Delete(user.ID)

		s.mylog.Info("", "order_created",
			fmt.Sprintf("Order %s created, total %s", order.Number, models.FormatNaira(order.TotalNaira)))
		s.notifier.SendToStaff(order.Number,
			fmt.Sprintf("New order %s for %s, deliver to %s", order.Number, models.FormatNaira(order.TotalNaira), order.DeliveryAddress), "")

		return CheckoutReply{
			Consumed: true,
			Order: &OrderSummary{
				Number:          order.Number,
				Lines:           lines,
				TotalNaira:      order.TotalNaira,
				DeliveryAddress: order.DeliveryAddress,
				ContactNumber:   order.ContactNumber,
				Payment:         s.payment,
			},
		}, nil
	}

	return CheckoutReply{Consumed: false}, nil
}
