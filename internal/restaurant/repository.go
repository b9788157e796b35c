package restaurant

import (
	"context"
	"database/sql"
	"fmt"

	"food-delivery-api/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context) ([]*Restaurant, error)
	Create(ctx context.Context, r *Restaurant) (*Restaurant, error)
	GetByID(ctx context.Context, id uint) (*Restaurant, error)
	Update(ctx context.Context, r *Restaurant) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]*Restaurant, error) {
	log := logger.FromCtx(ctx)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, address, phone, created_at
		FROM restaurants
		ORDER BY name ASC
	`)
	if err != nil {
		log.Error("DB query failed ListRestaurants", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var restaurants []*Restaurant
	for rows.Next() {
		var rest Restaurant
		if err := rows.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Address, &rest.Phone, &rest.CreatedAt); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		restaurants = append(restaurants, &rest)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, err
	}

	return restaurants, nil
}

func (r *repository) Create(ctx context.Context, rest *Restaurant) (*Restaurant, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("owner_id", rest.OwnerID),
		zap.String("name", rest.Name),
	)

	query := `
		INSERT INTO restaurants (owner_id, name, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, rest.OwnerID, rest.Name, rest.Address, rest.Phone).
		Scan(&rest.ID, &rest.CreatedAt)
	if err != nil {
		log.Error("CreateRestaurant DB query failed", zap.Error(err))
		return nil, fmt.Errorf("create restaurant failed: %w", err)
	}

	log.Info("CreateRestaurant success", zap.Uint("restaurant_id", rest.ID))
	return rest, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Restaurant, error) {
	var rest Restaurant
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, address, phone, created_at
		FROM restaurants
		WHERE id = $1
	`, id).Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Address, &rest.Phone, &rest.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rest, nil
}

func (r *repository) Update(ctx context.Context, rest *Restaurant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE restaurants
		SET name = $1, address = $2, phone = $3
		WHERE id = $4
	`, rest.Name, rest.Address, rest.Phone, rest.ID)
	if err != nil {
		return fmt.Errorf("update restaurant failed: %w", err)
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

// Delete removes the restaurant; menu categories, menu items and orders
// go with it through the schema's ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant failed: %w", err)
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
