package order

import (
	"context"
	"database/sql"
	"fmt"

	"food-delivery-api/internal/logger"

	"go.uber.org/zap"
)

// Scope narrows a listing to the caller's view. The zero value is
// unscoped (admin).
type Scope struct {
	// CustomerID limits to orders placed by this user.
	CustomerID *uint
	// OwnerID limits to orders against restaurants owned by this user.
	OwnerID *uint
}

type Repository interface {
	List(ctx context.Context, scope Scope) ([]*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	CreateTx(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id uint, status Status) error
	Delete(ctx context.Context, id uint) error
	ListItems(ctx context.Context, orderID uint) ([]*Item, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderSelect = `SELECT id, customer_id, restaurant_id, status, total_price, created_at FROM orders`

func (r *repository) List(ctx context.Context, scope Scope) ([]*Order, error) {
	log := logger.FromCtx(ctx)

	query := orderSelect
	args := []interface{}{}

	switch {
	case scope.CustomerID != nil:
		query += ` WHERE customer_id = $1`
		args = append(args, *scope.CustomerID)
	case scope.OwnerID != nil:
		query += ` WHERE restaurant_id IN (SELECT id FROM restaurants WHERE owner_id = $1)`
		args = append(args, *scope.OwnerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed List orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.Status, &o.TotalPrice, &o.CreatedAt); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, orderSelect+` WHERE id = $1`, id).
		Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.Status, &o.TotalPrice, &o.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

// CreateTx persists the order header and all of its lines in a single
// transaction. Any failure rolls everything back.
func (r *repository) CreateTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.Uint("customer_id", o.CustomerID),
		zap.Uint("restaurant_id", o.RestaurantID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, status, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, o.CustomerID, o.RestaurantID, o.Status, o.TotalPrice).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		log.Error("insert order failed", zap.Error(err))
		return fmt.Errorf("create order failed: %w", err)
	}

	for _, item := range o.Items {
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, item.OrderID, item.MenuItemID, item.Quantity, item.Price).Scan(&item.ID)
		if err != nil {
			log.Error("insert order item failed", zap.Error(err))
			return fmt.Errorf("create order item failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("order created", zap.Uint("order_id", o.ID))
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update order status failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the order; its items cascade away at the schema level.
func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) ListItems(ctx context.Context, orderID uint) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.Price); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}

	return items, rows.Err()
}
