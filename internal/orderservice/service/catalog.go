package service

import (
	"context"

	"sochow/pkg/models"
)

// Menu lists the orderable items, served from the cache when warm. Cache
// misses and cache errors fall through to the store.
func (s *OrderingService) Menu(ctx context.Context) ([]models.MenuItem, error) {
	if s.cache != nil {
		if items, ok := s.cache.GetMenu(ctx); ok {
			return items, nil
		}
	}

	items, err := s.store.ListAvailableMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetMenu(ctx, items)
	}
	return items, nil
}

// TrackOrders returns the customer's most recent orders, newest first.
func (s *OrderingService) TrackOrders(ctx context.Context, chatID, name string) ([]models.Order, error) {
	user, err := s.resolveUser(ctx, chatID, name)
	if err != nil {
		return nil, err
	}
	return s.store.RecentOrders(ctx, user.ID, 5)
}
