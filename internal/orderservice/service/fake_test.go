package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sochow/internal/config"
	"sochow/pkg/logger"
	"sochow/pkg/models"
)

// fakeStore is an in-memory Store with the same semantics the Postgres
// implementation has: frozen line prices, last-writer-wins active carts and
// daily order sequencing.
type fakeStore struct {
	users       map[string]models.User
	nextUserID  int64
	menu        map[int64]models.MenuItem
	carts       map[int64]*models.Cart
	nextCartID  int64
	lines       map[int64]*models.CartLine
	nextLineID  int64
	orders      map[int64]*models.Order
	nextOrderID int64
	receipts    []models.Receipt
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]models.User),
		menu:   make(map[int64]models.MenuItem),
		carts:  make(map[int64]*models.Cart),
		lines:  make(map[int64]*models.CartLine),
		orders: make(map[int64]*models.Order),
	}
}

func (f *fakeStore) addMenuItem(name string, price int64, available bool) models.MenuItem {
	item := models.MenuItem{
		ID:         int64(len(f.menu) + 1),
		Name:       name,
		PriceNaira: price,
		Available:  available,
	}
	f.menu[item.ID] = item
	return item
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, chatID, name string) (models.User, error) {
	if user, ok := f.users[chatID]; ok {
		return user, nil
	}
	f.nextUserID++
	user := models.User{ID: f.nextUserID, ChatID: chatID, Name: name, CreatedAt: time.Now()}
	f.users[chatID] = user
	return user, nil
}

func (f *fakeStore) GetOrCreateActiveCart(_ context.Context, userID int64) (models.Cart, error) {
	var latest *models.Cart
	for _, cart := range f.carts {
		if cart.UserID == userID && cart.Status == models.CartActive {
			if latest == nil || cart.ID > latest.ID {
				latest = cart
			}
		}
	}
	if latest != nil {
		return *latest, nil
	}

	f.nextCartID++
	cart := &models.Cart{ID: f.nextCartID, UserID: userID, Status: models.CartActive}
	f.carts[cart.ID] = cart
	return *cart, nil
}

func (f *fakeStore) GetMenuItem(_ context.Context, id int64) (models.MenuItem, error) {
	item, ok := f.menu[id]
	if !ok {
		return models.MenuItem{}, models.ErrNotFound
	}
	return item, nil
}

func (f *fakeStore) ListAvailableMenuItems(_ context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, item := range f.menu {
		if item.Available {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeStore) UpsertCartItem(_ context.Context, cartID, menuItemID, unitPrice int64) error {
	for _, line := range f.lines {
		if line.CartID == cartID && line.MenuItemID == menuItemID {
			line.Quantity++
			return nil
		}
	}
	f.nextLineID++
	f.lines[f.nextLineID] = &models.CartLine{
		ID:         f.nextLineID,
		CartID:     cartID,
		MenuItemID: menuItemID,
		Name:       f.menu[menuItemID].Name,
		Quantity:   1,
		UnitPrice:  unitPrice,
	}
	return nil
}

func (f *fakeStore) AdjustCartItemQty(_ context.Context, cartItemID int64, delta int) (bool, error) {
	line, ok := f.lines[cartItemID]
	if !ok {
		return false, models.ErrNotFound
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		delete(f.lines, cartItemID)
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) ClearCart(_ context.Context, cartID int64) error {
	for id, line := range f.lines {
		if line.CartID == cartID {
			delete(f.lines, id)
		}
	}
	return nil
}

func (f *fakeStore) CartLines(_ context.Context, cartID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	for _, line := range f.lines {
		if line.CartID == cartID {
			lines = append(lines, *line)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (f *fakeStore) CartTotal(_ context.Context, cartID int64) (int64, error) {
	var total int64
	for _, line := range f.lines {
		if line.CartID == cartID {
			total += line.LineTotal()
		}
	}
	return total, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, userID, cartID int64, address, phone string) (models.Order, []models.CartLine, error) {
	cart, ok := f.carts[cartID]
	if !ok {
		return models.Order{}, nil, models.ErrNotFound
	}
	if cart.Status != models.CartActive {
		return models.Order{}, nil, fmt.Errorf("cart %d is already %s", cartID, cart.Status)
	}

	lines, _ := f.CartLines(ctx, cartID)
	if len(lines) == 0 {
		return models.Order{}, nil, models.ErrEmptyCart
	}
	var total int64
	for _, line := range lines {
		total += line.LineTotal()
	}

	now := time.Now().UTC()
	count := 0
	for _, o := range f.orders {
		if o.CreatedAt.UTC().Format("20060102") == now.Format("20060102") {
			count++
		}
	}

	f.nextOrderID++
	order := &models.Order{
		ID:              f.nextOrderID,
		Number:          models.FormatOrderNumber(now, count+1),
		UserID:          userID,
		CartID:          cartID,
		TotalNaira:      total,
		DeliveryAddress: address,
		ContactNumber:   phone,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.StatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.orders[order.ID] = order
	cart.Status = models.CartCheckedOut
	return *order, lines, nil
}

func (f *fakeStore) LatestPendingOrder(_ context.Context, userID int64) (models.Order, error) {
	var latest *models.Order
	for _, o := range f.orders {
		if o.UserID == userID && o.PaymentStatus == models.PaymentPending {
			if latest == nil || o.ID > latest.ID {
				latest = o
			}
		}
	}
	if latest == nil {
		return models.Order{}, models.ErrNoPendingOrder
	}
	return *latest, nil
}

func (f *fakeStore) SaveReceipt(_ context.Context, orderID, userID int64, imageRef string) (models.Receipt, error) {
	receipt := models.Receipt{
		ID:        int64(len(f.receipts) + 1),
		OrderID:   orderID,
		UserID:    userID,
		ImageRef:  imageRef,
		CreatedAt: time.Now(),
	}
	f.receipts = append(f.receipts, receipt)
	return receipt, nil
}

func (f *fakeStore) RecentOrders(_ context.Context, userID int64, limit int) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
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
	items []models.MenuItem
	warm  bool
	sets  int
}

func (f *fakeCache) GetMenu(context.Context) ([]models.MenuItem, bool) {
	if !f.warm {
		return nil, false
	}
	return f.items, true
}

func (f *fakeCache) SetMenu(_ context.Context, items []models.MenuItem) {
	f.items = items
	f.warm = true
	f.sets++
}

func newTestService(store *fakeStore, notifier *fakeNotifier, cache MenuCache) *OrderingService {
	payment := config.Payment{Bank: "First Bank", Account: "1234567890", Name: "SOCHOW"}
	return NewOrderingService(store, notifier, cache, payment, logger.NewLogger("test"))
}
