package service

import (
	"context"
	"fmt"

	"sochow/pkg/models"
)

func (s *AdminService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.ListMenuItems(ctx)
}

func (s *AdminService) AddMenuItem(ctx context.Context, name string, priceNaira int64, description *string) (models.MenuItem, error) {
	if name == "" {
		return models.MenuItem{}, fmt.Errorf("name is required")
	}
	if priceNaira < 0 {
		return models.MenuItem{}, fmt.Errorf("price must not be negative")
	}

	item, err := s.store.CreateMenuItem(ctx, name, priceNaira, description)
	if err != nil {
		return models.MenuItem{}, err
	}

	s.invalidateMenu(ctx)
	s.mylog.Info("", "menu_item_added",
		fmt.Sprintf("Menu item %q added at %s", item.Name, models.FormatNaira(item.PriceNaira)))
	return item, nil
}

func (s *AdminService) EditMenuItem(ctx context.Context, id int64, name *string, priceNaira *int64, available *bool, description *string) (models.MenuItem, error) {
	if priceNaira != nil && *priceNaira < 0 {
		return models.MenuItem{}, fmt.Errorf("price must not be negative")
	}

	item, err := s.store.UpdateMenuItem(ctx, id, name, priceNaira, available, description)
	if err != nil {
		return models.MenuItem{}, err
	}

	s.invalidateMenu(ctx)
	s.mylog.Info("", "menu_item_edited", fmt.Sprintf("Menu item %d updated", id))
	return item, nil
}

func (s *AdminService) RemoveMenuItem(ctx context.Context, id int64) error {
	if err := s.store.RetireMenuItem(ctx, id); err != nil {
		return err
	}

	s.invalidateMenu(ctx)
	s.mylog.Info("", "menu_item_removed", fmt.Sprintf("Menu item %d retired", id))
	return nil
}

// SetMenuImage replaces the menu board image shown to customers.
func (s *AdminService) SetMenuImage(ctx context.Context, imageRef string) error {
	if err := s.store.SetMenuImage(ctx, imageRef); err != nil {
		return err
	}
	s.mylog.Info("", "menu_image_set", "Menu board image replaced")
	return nil
}

// MenuImageURL returns a short-lived URL for the menu board image.
func (s *AdminService) MenuImageURL(ctx context.Context) (string, error) {
	ref, err := s.store.GetMenuImage(ctx)
	if err != nil {
		return "", err
	}
	if s.presigner == nil {
		return ref, nil
	}
	return s.presigner.PresignURL(ctx, ref, receiptURLExpiry)
}
