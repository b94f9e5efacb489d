package db

import (
	"context"

	"sochow/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		chat_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price_naira BIGINT NOT NULL CHECK (price_naira >= 0),
		available BOOLEAN NOT NULL DEFAULT TRUE,
		image_ref TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id BIGSERIAL PRIMARY KEY,
		cart_id BIGINT NOT NULL REFERENCES carts(id),
		menu_item_id BIGINT NOT NULL REFERENCES menu_items(id),
		qty INT NOT NULL DEFAULT 1 CHECK (qty >= 1),
		unit_price BIGINT NOT NULL,
		UNIQUE (cart_id, menu_item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		number TEXT UNIQUE NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		cart_id BIGINT NOT NULL REFERENCES carts(id),
		total_naira BIGINT NOT NULL,
		delivery_address TEXT NOT NULL DEFAULT '',
		contact_number TEXT NOT NULL DEFAULT '',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		order_status TEXT NOT NULL DEFAULT 'processing',
		rider_contact TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		image_ref TEXT NOT NULL,
		admin_verified BOOLEAN NOT NULL DEFAULT FALSE,
		admin_notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_actions_log (
		id BIGSERIAL PRIMARY KEY,
		admin_id TEXT NOT NULL DEFAULT '',
		order_id BIGINT NOT NULL REFERENCES orders(id),
		action TEXT NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_config (
		id INT PRIMARY KEY CHECK (id = 1),
		menu_image_ref TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_carts_user_active ON carts (user_id) WHERE status = 'active'`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)`,
}

// seedMenu holds the launch menu; inserted only when menu_items is empty.
var seedMenu = []struct {
	name        string
	priceNaira  int64
	description string
}{
	{"Assorted Pepper Sauce", 15000, "Spicy mixed-protein pepper sauce with onions & herbs"},
	{"Egusi Soup (Family Bowl)", 37000, "Rich melon seed soup with assorted meat & vegetables"},
	{"Okro/Ilasa Soup (Family Bowl)", 35000, "Thick okro-based soup with meats & leafy vegetables"},
	{"Boiled Plantain & Pepper Mix", 9500, "Soft ripe plantain with spicy peppered fish/meat"},
	{"White Rice & Chicken Curry Sauce", 9000, "Steamed rice served with aromatic Nigerian curry chicken sauce"},
	{"Native Palm Oil Jollof (Fisherman Style)", 9000, "Palm-oil infused jollof with smoked fish, ponmo & egg"},
	{"Breakfast Platter", 6000, "Scrambled eggs, sausages, croissant, strawberries & grapes"},
	{"Fresh Fruit Bowl", 6000, "Strawberries, blueberries, mango & apples"},
	{"Beans, Fried Plantain & Peppered Fish", 9000, "Nigerian beans porridge served with spicy fish & plantain"},
	{"White Rice with Fried Plantain & Stew", 9000, "Boiled rice with crispy plantain and rich tomato stew"},
}

// Migrate creates the schema if it does not exist and seeds the menu on an
// empty database. Safe to run from every service at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Debug("startup", "menu_seed_skipped", "Menu already populated")
		return nil
	}

	for _, item := range seedMenu {
		_, err := pool.Exec(ctx, `
			INSERT INTO menu_items (name, price_naira, description, available)
			VALUES ($1, $2, $3, TRUE)
		`, item.name, item.priceNaira, item.description)
		if err != nil {
			return err
		}
	}

	log.Info("startup", "menu_seeded", "Seeded menu items")
	return nil
}
