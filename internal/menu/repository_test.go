package menu

import (
	"context"
	"errors"
	"testing"

	"food-delivery-api/internal/money"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemColumns() []string {
	return []string{"id", "category_id", "name", "description", "price", "image_url", "restaurant_id", "owner_id"}
}

func TestRepository_Categories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("CreateCategory", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO menu_categories").
			WithArgs(1, "Mains").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		c, err := repo.CreateCategory(context.Background(), &Category{RestaurantID: 1, Name: "Mains"})
		assert.NoError(t, err)
		assert.Equal(t, uint(5), c.ID)
	})

	t.Run("ListCategories filtered by restaurant", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "restaurant_id", "name"}).
			AddRow(5, 1, "Mains").
			AddRow(6, 1, "Desserts")

		mock.ExpectQuery(`SELECT id, restaurant_id, name FROM menu_categories WHERE restaurant_id = \$1 ORDER BY name ASC`).
			WithArgs(1).
			WillReturnRows(rows)

		restaurantID := uint(1)
		cats, err := repo.ListCategories(context.Background(), &restaurantID)
		assert.NoError(t, err)
		assert.Len(t, cats, 2)
	})

	t.Run("GetCategoryByID not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, restaurant_id, name FROM menu_categories WHERE id").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name"}))

		_, err := repo.GetCategoryByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("DeleteCategory", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM menu_categories WHERE id").
			WithArgs(5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteCategory(context.Background(), 5))
	})

	t.Run("DeleteCategory not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM menu_categories WHERE id").
			WithArgs(99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteCategory(context.Background(), 99), ErrCategoryNotFound)
	})
}

func TestRepository_Items(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("CreateItem", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO menu_items").
			WithArgs(5, "Lasagna", "Layers of pasta", money.MustParse("12.50"), nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		item, err := repo.CreateItem(context.Background(), &Item{
			CategoryID:  5,
			Name:        "Lasagna",
			Description: "Layers of pasta",
			Price:       money.MustParse("12.50"),
		})
		assert.NoError(t, err)
		assert.Equal(t, uint(7), item.ID)
	})

	t.Run("GetItemByID resolves owner through the chain", func(t *testing.T) {
		rows := sqlmock.NewRows(itemColumns()).
			AddRow(7, 5, "Lasagna", "Layers of pasta", []byte("12.50"), nil, 1, 10)

		mock.ExpectQuery("SELECT i.id, i.category_id, i.name, i.description, i.price, i.image_url, c.restaurant_id, r.owner_id").
			WithArgs(7).
			WillReturnRows(rows)

		item, err := repo.GetItemByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("12.50"), item.Price)
		assert.Equal(t, uint(1), item.RestaurantID)
		assert.Equal(t, uint(10), item.OwnerID)
	})

	t.Run("GetItemByID not found", func(t *testing.T) {
		mock.ExpectQuery("FROM menu_items i").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(itemColumns()))

		_, err := repo.GetItemByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("ListItems", func(t *testing.T) {
		rows := sqlmock.NewRows(itemColumns()).
			AddRow(7, 5, "Lasagna", "", []byte("12.50"), nil, 1, 10).
			AddRow(8, 5, "Tiramisu", "", []byte("6.00"), nil, 1, 10)

		mock.ExpectQuery(`WHERE i.category_id = \$1 ORDER BY i.name ASC`).
			WithArgs(5).
			WillReturnRows(rows)

		categoryID := uint(5)
		items, err := repo.ListItems(context.Background(), &categoryID)
		assert.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("UpdateItem", func(t *testing.T) {
		mock.ExpectExec("UPDATE menu_items").
			WithArgs("Lasagna", "New desc", money.MustParse("13.00"), nil, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateItem(context.Background(), &Item{
			ID:          7,
			Name:        "Lasagna",
			Description: "New desc",
			Price:       money.MustParse("13.00"),
		})
		assert.NoError(t, err)
	})

	t.Run("DeleteItem not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM menu_items WHERE id").
			WithArgs(99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteItem(context.Background(), 99), ErrItemNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery("FROM menu_items i").
			WillReturnError(errors.New("db error"))

		_, err := repo.ListItems(context.Background(), nil)
		assert.Error(t, err)
	})
}
