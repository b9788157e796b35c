package menu

import (
	"context"
	"database/sql"
	"fmt"

	"food-delivery-api/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	ListCategories(ctx context.Context, restaurantID *uint) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListItems(ctx context.Context, categoryID *uint) ([]*Item, error)
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	GetItemByID(ctx context.Context, id uint) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context, restaurantID *uint) ([]*Category, error) {
	log := logger.FromCtx(ctx)

	query := `SELECT id, restaurant_id, name FROM menu_categories`
	args := []interface{}{}

	if restaurantID != nil {
		query += ` WHERE restaurant_id = $1`
		args = append(args, *restaurantID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed ListCategories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *repository) CreateCategory(ctx context.Context, c *Category) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("restaurant_id", c.RestaurantID),
		zap.String("name", c.Name),
	)

	query := `
		INSERT INTO menu_categories (restaurant_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := r.db.QueryRowContext(ctx, query, c.RestaurantID, c.Name).Scan(&c.ID); err != nil {
		log.Error("CreateCategory DB query failed", zap.Error(err))
		return nil, fmt.Errorf("create category failed: %w", err)
	}

	log.Info("CreateCategory success", zap.Uint("category_id", c.ID))
	return c, nil
}

func (r *repository) GetCategoryByID(ctx context.Context, id uint) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, name FROM menu_categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.RestaurantID, &c.Name)

	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// DeleteCategory removes the category; its menu items cascade away at
// the schema level.
func (r *repository) DeleteCategory(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

const itemSelect = `
	SELECT i.id, i.category_id, i.name, i.description, i.price, i.image_url, c.restaurant_id, r.owner_id
	FROM menu_items i
	JOIN menu_categories c ON c.id = i.category_id
	JOIN restaurants r ON r.id = c.restaurant_id
`

func (r *repository) ListItems(ctx context.Context, categoryID *uint) ([]*Item, error) {
	log := logger.FromCtx(ctx)

	query := itemSelect
	args := []interface{}{}

	if categoryID != nil {
		query += ` WHERE i.category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY i.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed ListItems", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.CategoryID, &i.Name, &i.Description, &i.Price, &i.ImageURL, &i.RestaurantID, &i.OwnerID); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, &i)
	}

	return items, rows.Err()
}

func (r *repository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("category_id", item.CategoryID),
		zap.String("name", item.Name),
	)

	query := `
		INSERT INTO menu_items (category_id, name, description, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		item.CategoryID, item.Name, item.Description, item.Price, item.ImageURL,
	).Scan(&item.ID)
	if err != nil {
		log.Error("CreateItem DB query failed", zap.Error(err))
		return nil, fmt.Errorf("create menu item failed: %w", err)
	}

	log.Info("CreateItem success", zap.Uint("item_id", item.ID))
	return item, nil
}

func (r *repository) GetItemByID(ctx context.Context, id uint) (*Item, error) {
	var i Item
	err := r.db.QueryRowContext(ctx, itemSelect+` WHERE i.id = $1`, id).
		Scan(&i.ID, &i.CategoryID, &i.Name, &i.Description, &i.Price, &i.ImageURL, &i.RestaurantID, &i.OwnerID)

	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &i, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, image_url = $4
		WHERE id = $5
	`, item.Name, item.Description, item.Price, item.ImageURL, item.ID)
	if err != nil {
		return fmt.Errorf("update menu item failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) DeleteItem(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}
