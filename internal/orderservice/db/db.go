package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sochow/pkg/logger"
	"sochow/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderingDB struct {
	dbPool *pgxpool.Pool
	logger *logger.Logger
}

func NewOrderingDB(dbPool *pgxpool.Pool, logger *logger.Logger) *OrderingDB {
	return &OrderingDB{
		dbPool: dbPool,
		logger: logger,
	}
}

// GetOrCreateUser resolves the gateway identity to a user row, creating it
// on first contact. The chat id is the immutable identity key.
func (d *OrderingDB) GetOrCreateUser(ctx context.Context, chatID, name string) (models.User, error) {
	_, err := d.dbPool.Exec(ctx, `
        INSERT INTO users (chat_id, name)
        VALUES ($1, $2)
        ON CONFLICT (chat_id) DO NOTHING
    `, chatID, name)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = d.dbPool.QueryRow(ctx, `
        SELECT id, chat_id, name, phone, created_at
        FROM users
        WHERE chat_id = $1
    `, chatID).Scan(&user.ID, &user.ChatID, &user.Name, &user.Phone, &user.CreatedAt)
	return user, err
}

// GetOrCreateActiveCart returns the user's active cart, creating one if
// absent. There is deliberately no uniqueness constraint: a concurrent
// create races last-writer-wins and the newest active cart is picked up.
func (d *OrderingDB) GetOrCreateActiveCart(ctx context.Context, userID int64) (models.Cart, error) {
	var cart models.Cart
	err := d.dbPool.QueryRow(ctx, `
        SELECT id, user_id, status, created_at, updated_at
        FROM carts
        WHERE user_id = $1 AND status = 'active'
        ORDER BY id DESC
        LIMIT 1
    `, userID).Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Cart{}, err
	}

	err = d.dbPool.QueryRow(ctx, `
        INSERT INTO carts (user_id, status)
        VALUES ($1, 'active')
        RETURNING id, user_id, status, created_at, updated_at
    `, userID).Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	return cart, err
}

func (d *OrderingDB) GetMenuItem(ctx context.Context, id int64) (models.MenuItem, error) {
	var item models.MenuItem
	err := d.dbPool.QueryRow(ctx, `
        SELECT id, name, price_naira, available, image_ref, description, created_at
        FROM menu_items
        WHERE id = $1
    `, id).Scan(&item.ID, &item.Name, &item.PriceNaira, &item.Available,
		&item.ImageRef, &item.Description, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.MenuItem{}, models.ErrNotFound
	}
	return item, err
}

func (d *OrderingDB) ListAvailableMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT id, name, price_naira, available, image_ref, description, created_at
        FROM menu_items
        WHERE available = TRUE
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(&item.ID, &item.Name, &item.PriceNaira, &item.Available,
			&item.ImageRef, &item.Description, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertCartItem adds one unit of the menu item to the cart. An existing
// line has its quantity incremented; the stored unit price stays frozen at
// the value recorded when the line was first inserted.
func (d *OrderingDB) UpsertCartItem(ctx context.Context, cartID, menuItemID, unitPrice int64) error {
	_, err := d.dbPool.Exec(ctx, `
        INSERT INTO cart_items (cart_id, menu_item_id, qty, unit_price)
        VALUES ($1, $2, 1, $3)
        ON CONFLICT (cart_id, menu_item_id)
        DO UPDATE SET qty = cart_items.qty + 1
    `, cartID, menuItemID, unitPrice)
	return err
}

// AdjustCartItemQty applies delta to the line quantity inside a
// transaction. A resulting quantity of zero or below deletes the line.
func (d *OrderingDB) AdjustCartItemQty(ctx context.Context, cartItemID int64, delta int) (removed bool, err error) {
	tx, err := d.dbPool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var qty int
	err = tx.QueryRow(ctx, `
        SELECT qty FROM cart_items WHERE id = $1 FOR UPDATE
    `, cartItemID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, models.ErrNotFound
	}
	if err != nil {
		return false, err
	}

	newQty := qty + delta
	if newQty <= 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, cartItemID); err != nil {
			return false, err
		}
		removed = true
	} else {
		if _, err := tx.Exec(ctx, `UPDATE cart_items SET qty = $1 WHERE id = $2`, newQty, cartItemID); err != nil {
			return false, err
		}
	}

	return removed, tx.Commit(ctx)
}

func (d *OrderingDB) ClearCart(ctx context.Context, cartID int64) error {
	_, err := d.dbPool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (d *OrderingDB) CartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT ci.id, ci.cart_id, ci.menu_item_id, mi.name, ci.qty, ci.unit_price
        FROM cart_items ci
        JOIN menu_items mi ON ci.menu_item_id = mi.id
        WHERE ci.cart_id = $1
        ORDER BY ci.id
    `, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		err := rows.Scan(&line.ID, &line.CartID, &line.MenuItemID, &line.Name, &line.Quantity, &line.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// CartTotal returns the live sum of the cart's lines. An empty or unknown
// cart totals zero; this query never fails on absence.
func (d *OrderingDB) CartTotal(ctx context.Context, cartID int64) (int64, error) {
	var total int64
	err := d.dbPool.QueryRow(ctx, `
        SELECT COALESCE(SUM(qty * unit_price), 0) FROM cart_items WHERE cart_id = $1
    `, cartID).Scan(&total)
	return total, err
}

// CreateOrder materializes an order from the cart as one transaction: the
// lines and total are read under a cart row lock, the daily sequence number
// is derived from a count of today's orders, the order row is inserted and
// the cart flipped to checked_out. A failure anywhere leaves the cart
// active and no order behind.
func (d *OrderingDB) CreateOrder(ctx context.Context, userID, cartID int64, address, phone string) (models.Order, []models.CartLine, error) {
	tx, err := d.dbPool.Begin(ctx)
	if err != nil {
		return models.Order{}, nil, err
	}
	defer tx.Rollback(ctx)

	var cartStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&cartStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, nil, models.ErrNotFound
	}
	if err != nil {
		return models.Order{}, nil, err
	}
	if cartStatus != models.CartActive {
		return models.Order{}, nil, fmt.Errorf("cart %d is already %s", cartID, cartStatus)
	}

	rows, err := tx.Query(ctx, `
        SELECT ci.id, ci.cart_id, ci.menu_item_id, mi.name, ci.qty, ci.unit_price
        FROM cart_items ci
        JOIN menu_items mi ON ci.menu_item_id = mi.id
        WHERE ci.cart_id = $1
        ORDER BY ci.id
    `, cartID)
	if err != nil {
		return models.Order{}, nil, err
	}

	var lines []models.CartLine
	var total int64
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.MenuItemID, &line.Name, &line.Quantity, &line.UnitPrice); err != nil {
			rows.Close()
			return models.Order{}, nil, err
		}
		total += line.LineTotal()
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Order{}, nil, err
	}
	if len(lines) == 0 {
		return models.Order{}, nil, models.ErrEmptyCart
	}

	// Daily sequence: count of today's orders + 1, inside the transaction.
	// The day boundary is UTC, the same clock the number is stamped with; a
	// plain ::DATE cast would bucket by the session time zone instead.
	now := time.Now().UTC()
	var orderCount int
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM orders
        WHERE (created_at AT TIME ZONE 'UTC')::date = ($1 AT TIME ZONE 'UTC')::date
    `, now).Scan(&orderCount)
	if err != nil {
		return models.Order{}, nil, fmt.Errorf("failed to count today's orders: %w", err)
	}
	number := models.FormatOrderNumber(now, orderCount+1)

	order := models.Order{
		Number:          number,
		UserID:          userID,
		CartID:          cartID,
		TotalNaira:      total,
		DeliveryAddress: address,
		ContactNumber:   phone,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.StatusProcessing,
	}
	err = tx.QueryRow(ctx, `
        INSERT INTO orders (number, user_id, cart_id, total_naira, delivery_address, contact_number)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `, number, userID, cartID, total, address, phone).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return models.Order{}, nil, fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.Exec(ctx, `
        UPDATE carts SET status = 'checked_out', updated_at = NOW() WHERE id = $1
    `, cartID)
	if err != nil {
		return models.Order{}, nil, fmt.Errorf("failed to check out cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, nil, err
	}
	return order, lines, nil
}

// LatestPendingOrder finds the order a newly uploaded receipt attaches to.
func (d *OrderingDB) LatestPendingOrder(ctx context.Context, userID int64) (models.Order, error) {
	var order models.Order
	err := d.dbPool.QueryRow(ctx, `
        SELECT id, number, user_id, cart_id, total_naira, delivery_address, contact_number,
               payment_status, order_status, rider_contact, created_at, updated_at
        FROM orders
        WHERE user_id = $1 AND payment_status = 'pending'
        ORDER BY created_at DESC
        LIMIT 1
    `, userID).Scan(&order.ID, &order.Number, &order.UserID, &order.CartID, &order.TotalNaira,
		&order.DeliveryAddress, &order.ContactNumber, &order.PaymentStatus, &order.OrderStatus,
		&order.RiderContact, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, models.ErrNoPendingOrder
	}
	return order, err
}

func (d *OrderingDB) SaveReceipt(ctx context.Context, orderID, userID int64, imageRef string) (models.Receipt, error) {
	var receipt models.Receipt
	err := d.dbPool.QueryRow(ctx, `
        INSERT INTO receipts (order_id, user_id, image_ref)
        VALUES ($1, $2, $3)
        RETURNING id, order_id, user_id, image_ref, admin_verified, admin_notes, created_at
    `, orderID, userID, imageRef).Scan(&receipt.ID, &receipt.OrderID, &receipt.UserID,
		&receipt.ImageRef, &receipt.AdminVerified, &receipt.AdminNotes, &receipt.CreatedAt)
	return receipt, err
}

func (d *OrderingDB) RecentOrders(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT id, number, user_id, cart_id, total_naira, delivery_address, contact_number,
               payment_status, order_status, rider_contact, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(&order.ID, &order.Number, &order.UserID, &order.CartID, &order.TotalNaira,
			&order.DeliveryAddress, &order.ContactNumber, &order.PaymentStatus, &order.OrderStatus,
			&order.RiderContact, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
