package database

// Migration bookkeeping
const (
	createMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	selectMigrationsSQL = `SELECT migration_name FROM schema_migrations`

	insertMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// Cart state queries
const (
	GetCartStateSQL = `SELECT value FROM cart_state WHERE key = $1`

	UpsertCartStateSQL = `
		INSERT INTO cart_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`

	DeleteCartStateSQL = `DELETE FROM cart_state WHERE key = $1`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (number, user_id, subtotal, tax, delivery_fee, grand_total,
			payment_method, payment_reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, item_id, name, description, image, category, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	GetOrderByNumberSQL = `
		SELECT id, number, user_id, subtotal, tax, delivery_fee, grand_total,
			   payment_method, payment_reference, status, created_at
		FROM orders WHERE number = $1`

	GetOrderItemsSQL = `
		SELECT item_id, name, description, image, category, quantity, price
		FROM order_items WHERE order_id = $1
		ORDER BY id ASC`

	ListOrdersByUserSQL = `
		SELECT id, number, user_id, subtotal, tax, delivery_fee, grand_total,
			   payment_method, payment_reference, status, created_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	CountOrdersTodaySQL = `
		SELECT COUNT(*) FROM orders WHERE number LIKE $1`
)
