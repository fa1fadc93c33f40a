package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-cart/internal/database"
	"restaurant-cart/internal/models"
)

const (
	uniqueViolation  = "23505"
	maxNumberRetries = 3
)

// PostgresRepository stores orders in the orders and order_items tables
type PostgresRepository struct {
	db *database.DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create numbers the order from today's count and inserts it with its lines
// in one transaction. A concurrent writer taking the same number causes a retry.
func (r *PostgresRepository) Create(ctx context.Context, order *models.PlacedOrder) error {
	var err error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		err = r.create(ctx, order)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to allocate order number: %w", err)
}

func (r *PostgresRepository) create(ctx context.Context, order *models.PlacedOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	var count int
	if err := tx.QueryRow(ctx, database.CountOrdersTodaySQL, dayPrefix(now)+"%").Scan(&count); err != nil {
		return fmt.Errorf("failed to count today's orders: %w", err)
	}
	number := models.GenerateOrderNumber(now, count+1)

	var id int
	var createdAt time.Time
	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		number,
		order.UserID,
		int64(order.Quote.Subtotal),
		int64(order.Quote.Tax),
		int64(order.Quote.DeliveryFee),
		int64(order.Quote.GrandTotal),
		string(order.PaymentMethod),
		order.PaymentRef,
		string(order.Status),
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, l := range order.Lines {
		_, err := tx.Exec(ctx, database.InsertOrderItemSQL,
			id, l.ID, l.Name, l.Description, l.Image, string(l.Category), l.Quantity, int64(l.Price))
		if err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	order.ID = id
	order.Number = number
	order.CreatedAt = createdAt
	return nil
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (*models.PlacedOrder, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.GetOrderByNumberSQL, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := r.loadLines(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.PlacedOrder, error) {
	rows, err := r.db.Query(ctx, database.ListOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var orders []*models.PlacedOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	for _, o := range orders {
		if err := r.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*models.PlacedOrder, error) {
	var (
		o                                 models.PlacedOrder
		subtotal, tax, deliveryFee, grand int64
		method, status                    string
	)
	err := row.Scan(
		&o.ID,
		&o.Number,
		&o.UserID,
		&subtotal,
		&tax,
		&deliveryFee,
		&grand,
		&method,
		&o.PaymentRef,
		&status,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Quote = models.Quote{
		Subtotal:    models.Amount(subtotal),
		Tax:         models.Amount(tax),
		DeliveryFee: models.Amount(deliveryFee),
		GrandTotal:  models.Amount(grand),
	}
	o.PaymentMethod = models.PaymentMethod(method)
	o.Status = models.OrderStatus(status)
	return &o, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, o *models.PlacedOrder) error {
	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, o.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	o.Lines = o.Lines[:0]
	for rows.Next() {
		var (
			l        models.OrderLine
			category string
			price    int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Image, &category, &l.Quantity, &price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		l.Category = models.Category(category)
		l.Price = models.Amount(price)
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}
