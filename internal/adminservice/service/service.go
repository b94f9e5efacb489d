package service

import (
	"context"
	"time"

	"sochow/internal/adminservice/db"
	"sochow/pkg/logger"
	"sochow/pkg/models"
)

// Store is the persistence surface of the management service. Implemented by
// internal/adminservice/db; faked in tests.
type Store interface {
	ListOrders(ctx context.Context, paymentStatus string, limit int) ([]db.OrderDetail, error)
	GetOrder(ctx context.Context, orderID int64) (db.OrderDetail, error)
	VerifyPayment(ctx context.Context, orderID int64, adminID string, approve bool, notes *string) (models.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status string, riderContact *string, adminID string) (models.Order, error)
	CancelOrder(ctx context.Context, orderID int64, adminID string, notes *string) (models.Order, error)
	AuditLog(ctx context.Context, orderID int64) ([]models.AdminAction, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, name string, priceNaira int64, description *string) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, name *string, priceNaira *int64, available *bool, description *string) (models.MenuItem, error)
	RetireMenuItem(ctx context.Context, id int64) error
	SetMenuImage(ctx context.Context, imageRef string) error
	GetMenuImage(ctx context.Context) (string, error)
}

type Notifier interface {
	SendToUser(chatID, orderNumber, text, imageRef string)
	SendToStaff(orderNumber, text, imageRef string)
}

// MenuCache invalidates the customer-facing menu listing after a staff
// mutation. May be nil.
type MenuCache interface {
	InvalidateMenu(ctx context.Context)
}

// Presigner turns stored image references into short-lived URLs for the
// dashboard. May be nil, in which case raw references are returned.
type Presigner interface {
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type AdminService struct {
	store     Store
	notifier  Notifier
	cache     MenuCache
	presigner Presigner
	mylog     *logger.Logger
}

func NewAdminService(store Store, notifier Notifier, cache MenuCache, presigner Presigner, mylog *logger.Logger) *AdminService {
	return &AdminService{
		store:     store,
		notifier:  notifier,
		cache:     cache,
		presigner: presigner,
		mylog:     mylog,
	}
}

func (s *AdminService) invalidateMenu(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateMenu(ctx)
	}
}
