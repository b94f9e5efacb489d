package db

import (
	"context"
	"errors"
	"fmt"

	"sochow/pkg/logger"
	"sochow/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminDB struct {
	dbPool *pgxpool.Pool
	logger *logger.Logger
}

func NewAdminDB(dbPool *pgxpool.Pool, logger *logger.Logger) *AdminDB {
	return &AdminDB{
		dbPool: dbPool,
		logger: logger,
	}
}

// OrderDetail is an order joined with its customer, its lines and the most
// recent payment receipt, as shown on the management dashboard.
type OrderDetail struct {
	models.Order
	CustomerName   string             `json:"customer_name"`
	CustomerChatID string             `json:"customer_chat_id"`
	Items          []models.OrderItem `json:"items"`
	Receipt        *models.Receipt    `json:"receipt,omitempty"`
}

const orderDetailColumns = `
    o.id, o.number, o.user_id, o.cart_id, o.total_naira, o.delivery_address,
    o.contact_number, o.payment_status, o.order_status, o.rider_contact,
    o.created_at, o.updated_at, u.name, u.chat_id`

func scanOrderDetail(row pgx.Row) (OrderDetail, error) {
	var d OrderDetail
	err := row.Scan(&d.ID, &d.Number, &d.UserID, &d.CartID, &d.TotalNaira,
		&d.DeliveryAddress, &d.ContactNumber, &d.PaymentStatus, &d.OrderStatus,
		&d.RiderContact, &d.CreatedAt, &d.UpdatedAt, &d.CustomerName, &d.CustomerChatID)
	return d, err
}

// ListOrders returns the newest orders first, optionally filtered by payment
// status, each hydrated with its lines and latest receipt.
func (d *AdminDB) ListOrders(ctx context.Context, paymentStatus string, limit int) ([]OrderDetail, error) {
	query := `
        SELECT ` + orderDetailColumns + `
        FROM orders o
        JOIN users u ON o.user_id = u.id`
	args := []any{limit}
	if paymentStatus != "" {
		query += ` WHERE o.payment_status = $2`
		args = append(args, paymentStatus)
	}
	query += `
        ORDER BY o.created_at DESC
        LIMIT $1`

	rows, err := d.dbPool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []OrderDetail
	for rows.Next() {
		detail, err := scanOrderDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range details {
		if err := d.hydrate(ctx, &details[i]); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (d *AdminDB) GetOrder(ctx context.Context, orderID int64) (OrderDetail, error) {
	detail, err := scanOrderDetail(d.dbPool.QueryRow(ctx, `
        SELECT `+orderDetailColumns+`
        FROM orders o
        JOIN users u ON o.user_id = u.id
        WHERE o.id = $1
    `, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return OrderDetail{}, models.ErrNotFound
	}
	if err != nil {
		return OrderDetail{}, err
	}

	if err := d.hydrate(ctx, &detail); err != nil {
		return OrderDetail{}, err
	}
	return detail, nil
}

func (d *AdminDB) hydrate(ctx context.Context, detail *OrderDetail) error {
	rows, err := d.dbPool.Query(ctx, `
        SELECT mi.name, ci.qty, ci.unit_price
        FROM cart_items ci
        JOIN menu_items mi ON ci.menu_item_id = mi.id
        WHERE ci.cart_id = $1
        ORDER BY ci.id
    `, detail.CartID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var receipt models.Receipt
	err = d.dbPool.QueryRow(ctx, `
        SELECT id, order_id, user_id, image_ref, admin_verified, admin_notes, created_at
        FROM receipts
        WHERE order_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `, detail.ID).Scan(&receipt.ID, &receipt.OrderID, &receipt.UserID,
		&receipt.ImageRef, &receipt.AdminVerified, &receipt.AdminNotes, &receipt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	detail.Receipt = &receipt
	return nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var order models.Order
	err := row.Scan(&order.ID, &order.Number, &order.UserID, &order.CartID, &order.TotalNaira,
		&order.DeliveryAddress, &order.ContactNumber, &order.PaymentStatus, &order.OrderStatus,
		&order.RiderContact, &order.CreatedAt, &order.UpdatedAt)
	return order, err
}

func (d *AdminDB) lockOrder(ctx context.Context, tx pgx.Tx, orderID int64) (models.Order, error) {
	order, err := scanOrder(tx.QueryRow(ctx, `
        SELECT id, number, user_id, cart_id, total_naira, delivery_address, contact_number,
               payment_status, order_status, rider_contact, created_at, updated_at
        FROM orders
        WHERE id = $1
        FOR UPDATE
    `, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, models.ErrNotFound
	}
	return order, err
}

func (d *AdminDB) logAction(ctx context.Context, tx pgx.Tx, adminID string, orderID int64, action string, notes *string) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO admin_actions_log (admin_id, order_id, action, notes)
        VALUES ($1, $2, $3, $4)
    `, adminID, orderID, action, notes)
	return err
}

// VerifyPayment records the admin's payment decision. Approval marks the
// payment verified, puts the order back on processing and flags the latest
// receipt; denial marks the payment denied on the order only. Both paths
// write an audit row in the same transaction.
func (d *AdminDB) VerifyPayment(ctx context.Context, orderID int64, adminID string, approve bool, notes *string) (models.Order, error) {
	tx, err := d.dbPool.Begin(ctx)
	if err != nil {
		return models.Order{}, err
	}
	defer tx.Rollback(ctx)

	order, err := d.lockOrder(ctx, tx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	if approve {
		err = tx.QueryRow(ctx, `
            UPDATE orders SET payment_status = 'verified', order_status = 'processing', updated_at = NOW()
            WHERE id = $1
            RETURNING payment_status, order_status, updated_at
        `, orderID).Scan(&order.PaymentStatus, &order.OrderStatus, &order.UpdatedAt)
		if err != nil {
			return models.Order{}, fmt.Errorf("failed to update payment status: %w", err)
		}

		_, err = tx.Exec(ctx, `
            UPDATE receipts SET admin_verified = TRUE, admin_notes = COALESCE($1, admin_notes)
            WHERE id = (
                SELECT id FROM receipts WHERE order_id = $2 ORDER BY created_at DESC LIMIT 1
            )
        `, notes, orderID)
		if err != nil {
			return models.Order{}, fmt.Errorf("failed to flag receipt: %w", err)
		}
	} else {
		err = tx.QueryRow(ctx, `
            UPDATE orders SET payment_status = 'denied', updated_at = NOW()
            WHERE id = $1
            RETURNING payment_status, updated_at
        `, orderID).Scan(&order.PaymentStatus, &order.UpdatedAt)
		if err != nil {
			return models.Order{}, fmt.Errorf("failed to update payment status: %w", err)
		}
	}

	action := models.ActionDenyPayment
	if approve {
		action = models.ActionVerifyPayment
	}
	if err := d.logAction(ctx, tx, adminID, orderID, action, notes); err != nil {
		return models.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// SetOrderStatus moves the order to the given fulfillment status. The rider
// contact, when provided, is stored alongside for the out-for-delivery leg.
func (d *AdminDB) SetOrderStatus(ctx context.Context, orderID int64, status string, riderContact *string, adminID string) (models.Order, error) {
	tx, err := d.dbPool.Begin(ctx)
	if err != nil {
		return models.Order{}, err
	}
	defer tx.Rollback(ctx)

	order, err := d.lockOrder(ctx, tx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	err = tx.QueryRow(ctx, `
        UPDATE orders
        SET order_status = $1, rider_contact = COALESCE($2, rider_contact), updated_at = NOW()
        WHERE id = $3
        RETURNING order_status, rider_contact, updated_at
    `, status, riderContact, orderID).Scan(&order.OrderStatus, &order.RiderContact, &order.UpdatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	note := fmt.Sprintf("status set to %s", status)
	if err := d.logAction(ctx, tx, adminID, orderID, models.ActionStatusChange, &note); err != nil {
		return models.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// CancelOrder cancels unconditionally, whatever the current status.
func (d *AdminDB) CancelOrder(ctx context.Context, orderID int64, adminID string, notes *string) (models.Order, error) {
	tx, err := d.dbPool.Begin(ctx)
	if err != nil {
		return models.Order{}, err
	}
	defer tx.Rollback(ctx)

	order, err := d.lockOrder(ctx, tx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	err = tx.QueryRow(ctx, `
        UPDATE orders SET order_status = 'cancelled', updated_at = NOW()
        WHERE id = $1
        RETURNING order_status, updated_at
    `, orderID).Scan(&order.OrderStatus, &order.UpdatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := d.logAction(ctx, tx, adminID, orderID, models.ActionCancel, notes); err != nil {
		return models.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (d *AdminDB) AuditLog(ctx context.Context, orderID int64) ([]models.AdminAction, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT id, admin_id, order_id, action, notes, created_at
        FROM admin_actions_log
        WHERE order_id = $1
        ORDER BY created_at
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []models.AdminAction
	for rows.Next() {
		var a models.AdminAction
		if err := rows.Scan(&a.ID, &a.AdminID, &a.OrderID, &a.Action, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// ListMenuItems returns the whole menu, unavailable items included.
func (d *AdminDB) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT id, name, price_naira, available, image_ref, description, created_at
        FROM menu_items
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

func (d *AdminDB) CreateMenuItem(ctx context.Context, name string, priceNaira int64, description *string) (models.MenuItem, error) {
	var item models.MenuItem
	err := d.dbPool.QueryRow(ctx, `
        INSERT INTO menu_items (name, price_naira, description)
        VALUES ($1, $2, $3)
        RETURNING id, name, price_naira, available, image_ref, description, created_at
    `, name, priceNaira, description).Scan(&item.ID, &item.Name, &item.PriceNaira,
		&item.Available, &item.ImageRef, &item.Description, &item.CreatedAt)
	return item, err
}

// UpdateMenuItem applies the non-nil fields; nil fields keep their stored
// value.
func (d *AdminDB) UpdateMenuItem(ctx context.Context, id int64, name *string, priceNaira *int64, available *bool, description *string) (models.MenuItem, error) {
	var item models.MenuItem
	err := d.dbPool.QueryRow(ctx, `
        UPDATE menu_items
        SET name = COALESCE($1, name),
            price_naira = COALESCE($2, price_naira),
            available = COALESCE($3, available),
            description = COALESCE($4, description)
        WHERE id = $5
        RETURNING id, name, price_naira, available, image_ref, description, created_at
    `, name, priceNaira, available, description, id).Scan(&item.ID, &item.Name,
		&item.PriceNaira, &item.Available, &item.ImageRef, &item.Description, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.MenuItem{}, models.ErrNotFound
	}
	return item, err
}

// RetireMenuItem hides the item from the menu. Rows are never deleted so
// past cart lines keep their join target.
func (d *AdminDB) RetireMenuItem(ctx context.Context, id int64) error {
	tag, err := d.dbPool.Exec(ctx, `
        UPDATE menu_items SET available = FALSE WHERE id = $1
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetMenuImage stores the reference of the menu board image shown to
// customers. The menu_config table holds a single row.
func (d *AdminDB) SetMenuImage(ctx context.Context, imageRef string) error {
	_, err := d.dbPool.Exec(ctx, `
        INSERT INTO menu_config (id, menu_image_ref)
        VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET menu_image_ref = $1, updated_at = NOW()
    `, imageRef)
	return err
}

func (d *AdminDB) GetMenuImage(ctx context.Context) (string, error) {
	var ref *string
	err := d.dbPool.QueryRow(ctx, `
        SELECT menu_image_ref FROM menu_config WHERE id = 1
    `).Scan(&ref)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && ref == nil) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return *ref, nil
}
