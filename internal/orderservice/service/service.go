package service

import (
	"context"
	"fmt"

	"sochow/internal/config"
	"sochow/pkg/logger"
	"sochow/pkg/models"
)

// Store is the persistence surface the ordering service needs. Implemented
// by internal/orderservice/db; faked in tests.
type Store interface {
	GetOrCreateUser(ctx context.Context, chatID, name string) (models.User, error)
	GetOrCreateActiveCart(ctx context.Context, userID int64) (models.Cart, error)
	GetMenuItem(ctx context.Context, id int64) (models.MenuItem, error)
	ListAvailableMenuItems(ctx context.Context) ([]models.MenuItem, error)
	UpsertCartItem(ctx context.Context, cartID, menuItemID, unitPrice int64) error
	AdjustCartItemQty(ctx context.Context, cartItemID int64, delta int) (removed bool, err error)
	ClearCart(ctx context.Context, cartID int64) error
	CartLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
	CartTotal(ctx context.Context, cartID int64) (int64, error)
	CreateOrder(ctx context.Context, userID, cartID int64, address, phone string) (models.Order, []models.CartLine, error)
	LatestPendingOrder(ctx context.Context, userID int64) (models.Order, error)
	SaveReceipt(ctx context.Context, orderID, userID int64, imageRef string) (models.Receipt, error)
	RecentOrders(ctx context.Context, userID int64, limit int) ([]models.Order, error)
}

// Notifier is fire-and-forget: implementations log failures and never
// return them to the caller.
type Notifier interface {
	SendToUser(chatID, orderNumber, text, imageRef string)
	SendToStaff(orderNumber, text, imageRef string)
}

// MenuCache caches the available-menu listing. May be nil, in which case
// every read goes to the store.
type MenuCache interface {
	GetMenu(ctx context.Context) ([]models.MenuItem, bool)
	SetMenu(ctx context.Context, items []models.MenuItem)
}

type OrderingService struct {
	store    Store
	notifier Notifier
	cache    MenuCache
	sessions *SessionStore
	payment  config.Payment
	mylog    *logger.Logger
}

func NewOrderingService(store Store, notifier Notifier, cache MenuCache, payment config.Payment, mylog *logger.Logger) *OrderingService {
	return &OrderingService{
		store:    store,
		notifier: notifier,
		cache:    cache,
		sessions: NewSessionStore(),
		payment:  payment,
		mylog:    mylog,
	}
}

func (s *OrderingService) resolveUser(ctx context.Context, chatID, name string) (models.User, error) {
	if chatID == "" {
		return models.User{}, fmt.Errorf("chat_id is required")
	}
	return s.store.GetOrCreateUser(ctx, chatID, name)
}
