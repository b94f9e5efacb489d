package service

import (
	"context"
	"sort"
	"time"

	"sochow/internal/adminservice/db"
	"sochow/pkg/logger"
	"sochow/pkg/models"
)

type fakeStore struct {
	orders    map[int64]*models.Order
	chatIDs   map[int64]string
	receipts  map[int64]*models.Receipt
	audit     []models.AdminAction
	menu      map[int64]*models.MenuItem
	nextMenu  int64
	menuImage string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[int64]*models.Order),
		chatIDs:  make(map[int64]string),
		receipts: make(map[int64]*models.Receipt),
		menu:     make(map[int64]*models.MenuItem),
	}
}

func (f *fakeStore) addOrder(id int64, chatID string, total int64) *models.Order {
	order := &models.Order{
		ID:            id,
		Number:        models.FormatOrderNumber(time.Now(), int(id)),
		UserID:        id,
		TotalNaira:    total,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.StatusProcessing,
		CreatedAt:     time.Now(),
	}
	f.orders[id] = order
	f.chatIDs[id] = chatID
	return order
}

func (f *fakeStore) detail(order *models.Order) db.OrderDetail {
	d := db.OrderDetail{
		Order:          *order,
		CustomerName:   "Ada",
		CustomerChatID: f.chatIDs[order.UserID],
	}
	if r, ok := f.receipts[order.ID]; ok {
		receipt := *r
		d.Receipt = &receipt
	}
	return d
}

func (f *fakeStore) ListOrders(_ context.Context, paymentStatus string, limit int) ([]db.OrderDetail, error) {
	var details []db.OrderDetail
	for _, order := range f.orders {
		if paymentStatus != "" && order.PaymentStatus != paymentStatus {
			continue
		}
		details = append(details, f.detail(order))
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID > details[j].ID })
	if len(details) > limit {
		details = details[:limit]
	}
	return details, nil
}

func (f *fakeStore) GetOrder(_ context.Context, orderID int64) (db.OrderDetail, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return db.OrderDetail{}, models.ErrNotFound
	}
	return f.detail(order), nil
}

func (f *fakeStore) VerifyPayment(_ context.Context, orderID int64, adminID string, approve bool, notes *string) (models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}

	action := models.ActionDenyPayment
	if approve {
		action = models.ActionVerifyPayment
		order.PaymentStatus = models.PaymentVerified
		order.OrderStatus = models.StatusProcessing
		if receipt, ok := f.receipts[orderID]; ok {
			receipt.AdminVerified = true
		}
	} else {
		order.PaymentStatus = models.PaymentDenied
	}
	f.audit = append(f.audit, models.AdminAction{
		AdminID: adminID, OrderID: orderID, Action: action, Notes: notes,
	})
	return *order, nil
}

func (f *fakeStore) SetOrderStatus(_ context.Context, orderID int64, status string, riderContact *string, adminID string) (models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	order.OrderStatus = status
	if riderContact != nil {
		order.RiderContact = riderContact
	}
	f.audit = append(f.audit, models.AdminAction{
		AdminID: adminID, OrderID: orderID, Action: models.ActionStatusChange,
	})
	return *order, nil
}

func (f *fakeStore) CancelOrder(_ context.Context, orderID int64, adminID string, notes *string) (models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	order.OrderStatus = models.StatusCancelled
	f.audit = append(f.audit, models.AdminAction{
		AdminID: adminID, OrderID: orderID, Action: models.ActionCancel, Notes: notes,
	})
	return *order, nil
}

func (f *fakeStore) AuditLog(_ context.Context, orderID int64) ([]models.AdminAction, error) {
	var actions []models.AdminAction
	for _, a := range f.audit {
		if a.OrderID == orderID {
			actions = append(actions, a)
		}
	}
	return actions, nil
}

func (f *fakeStore) ListMenuItems(_ context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, item := range f.menu {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeStore) CreateMenuItem(_ context.Context, name string, priceNaira int64, description *string) (models.MenuItem, error) {
	f.nextMenu++
	item := &models.MenuItem{
		ID: f.nextMenu, Name: name, PriceNaira: priceNaira,
		Available: true, Description: description,
	}
	f.menu[item.ID] = item
	return *item, nil
}

func (f *fakeStore) UpdateMenuItem(_ context.Context, id int64, name *string, priceNaira *int64, available *bool, description *string) (models.MenuItem, error) {
	item, ok := f.menu[id]
	if !ok {
		return models.MenuItem{}, models.ErrNotFound
	}
	if name != nil {
		item.Name = *name
	}
	if priceNaira != nil {
		item.PriceNaira = *priceNaira
	}
	if available != nil {
		item.Available = *available
	}
	if description != nil {
		item.Description = description
	}
	return *item, nil
}

func (f *fakeStore) RetireMenuItem(_ context.Context, id int64) error {
	item, ok := f.menu[id]
	if !ok {
		return models.ErrNotFound
	}
	item.Available = false
	return nil
}

func (f *fakeStore) SetMenuImage(_ context.Context, imageRef string) error {
	f.menuImage = imageRef
	return nil
}

func (f *fakeStore) GetMenuImage(_ context.Context) (string, error) {
	if f.menuImage == "" {
		return "", models.ErrNotFound
	}
	return f.menuImage, nil
}

type fakeNotifier struct {
	user  []models.Notification
	staff []models.Notification
}

func (f *fakeNotifier) SendToUser(chatID, orderNumber, text, imageRef string) {
	f.user = append(f.user, models.Notification{
		Audience: models.AudienceCustomer, ChatID: chatID,
		OrderNumber: orderNumber, Text: text, ImageRef: imageRef,
	})
}

func (f *fakeNotifier) SendToStaff(orderNumber, text, imageRef string) {
	f.staff = append(f.staff, models.Notification{
		Audience:    models.AudienceStaff,
		OrderNumber: orderNumber, Text: text, ImageRef: imageRef,
	})
}

type fakeCache struct {
	invalidations int
}

func (f *fakeCache) InvalidateMenu(context.Context) {
	f.invalidations++
}

type fakePresigner struct{}

func (fakePresigner) PresignURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func newTestService(store *fakeStore, notifier *fakeNotifier, cache MenuCache, presigner Presigner) *AdminService {
	return NewAdminService(store, notifier, cache, presigner, logger.NewLogger("test"))
}
