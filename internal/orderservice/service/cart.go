package service

import (
	"context"
	"fmt"

	"sochow/pkg/models"
)

// CartView is the cart as shown to the customer: live lines plus the
// recomputed total.
type CartView struct {
	CartID     int64             `json:"cart_id"`
	Lines      []models.CartLine `json:"items"`
	TotalNaira int64             `json:"total_naira"`
}

// AddItem puts one unit of the menu item into the user's active cart,
// creating the cart if needed. Re-adding an existing line increments its
// quantity without re-pricing it.
func (s *OrderingService) AddItem(ctx context.Context, chatID, name string, menuItemID int64) (CartView, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return CartView{}, err
	}

	item, err := s.store.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return CartView{}, err
	}
	if !item.Available {
		return CartView{}, fmt.Errorf("%q: %w", item.Name, models.ErrItemUnavailable)
	}

	cart, err := s.store.GetOrCreateActiveCart(ctx, user.ID)
	if err != nil {
		return CartView{}, err
	}

	if err := s.store.UpsertCartItem(ctx, cart.ID, item.ID, item.PriceNaira); err != nil {
		return CartView{}, fmt.Errorf("failed to add item to cart: %w", err)
	}

	s.mylog.Debug("", "cart_item_added", fmt.Sprintf("Added %q to cart %d", item.Name, cart.ID))
	return s.cartView(ctx, cart.ID)
}

// ChangeQuantity applies delta to a cart line. Quantities of zero or below
// delete the line rather than storing a zero.
func (s *OrderingService) ChangeQuantity(ctx context.Context, chatID, name string, cartItemID int64, delta int) (CartView, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return CartView{}, err
	}

	removed, err := s.store.AdjustCartItemQty(ctx, cartItemID, delta)
	if err != nil {
		return CartView{}, err
	}
	if removed {
		s.mylog.Debug("", "cart_item_removed", fmt.Sprintf("Removed cart item %d", cartItemID))
	}

	cart, err := s.store.GetOrCreateActiveCart(ctx, user.ID)
	if err != nil {
		return CartView{}, err
	}
	return s.cartView(ctx, cart.ID)
}

// ClearCart removes every line from the user's active cart. Clearing an
// empty cart is a no-op.
func (s *OrderingService) ClearCart(ctx context.Context, chatID, name string) error {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return err
	}

	cart, err := s.store.GetOrCreateActiveCart(ctx, user.ID)
	if err != nil {
		return err
	}
	return s.store.ClearCart(ctx, cart.ID)
}

func (s *OrderingService) ViewCart(ctx context.Context, chatID, name string) (CartView, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return CartView{}, err
	}

	cart, err := s.store.GetOrCreateActiveCart(ctx, user.ID)
	if err != nil {
		return CartView{}, err
	}
	return s.cartView(ctx, cart.ID)
}

func (s *OrderingService) cartView(ctx context.Context, cartID int64) (CartView, error) {
	lines, err := s.store.CartLines(ctx, cartID)
	if err != nil {
		return CartView{}, err
	}
	total, err := s.store.CartTotal(ctx, cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{CartID: cartID, Lines: lines, TotalNaira: total}, nil
}
