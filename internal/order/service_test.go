package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/menu"
	"food-delivery-api/internal/metrics"
	"food-delivery-api/internal/money"
	"food-delivery-api/internal/restaurant"
	"food-delivery-api/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, scope Scope) ([]*Order, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) CreateTx(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil {
		o.ID = 42
		o.CreatedAt = time.Now()
		for i, item := range o.Items {
			item.ID = uint(100 + i)
			item.OrderID = o.ID
		}
	}
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListItems(ctx context.Context, orderID uint) ([]*Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Item), args.Error(1)
}

type MockRestaurants struct {
	mock.Mock
}

func (m *MockRestaurants) GetByID(ctx context.Context, id uint) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

type MockMenuItems struct {
	mock.Mock
}

func (m *MockMenuItems) GetItemByID(ctx context.Context, id uint) (*menu.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Item), args.Error(1)
}

type orderFixture struct {
	repo        *MockRepository
	restaurants *MockRestaurants
	menuItems   *MockMenuItems
	registry    *metrics.Registry
	svc         Service
}

func newFixture() *orderFixture {
	f := &orderFixture{
		repo:        new(MockRepository),
		restaurants: new(MockRestaurants),
		menuItems:   new(MockMenuItems),
		registry:    metrics.NewRegistry(),
	}
	f.svc = NewService(f.repo, f.restaurants, f.menuItems, nil, f.registry)
	return f
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("two lasagnas at pasta house", func(t *testing.T) {
		f := newFixture()

		f.restaurants.On("GetByID", ctx, uint(1)).
			Return(&restaurant.Restaurant{ID: 1, OwnerID: 10, Name: "Pasta House"}, nil)
		f.menuItems.On("GetItemByID", ctx, uint(7)).
			Return(&menu.Item{ID: 7, CategoryID: 5, RestaurantID: 1, Name: "Lasagna", Price: money.MustParse("12.50")}, nil)
		f.repo.On("CreateTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.CustomerID == 3 &&
				o.RestaurantID == 1 &&
				o.Status == StatusPending &&
				o.TotalPrice == money.MustParse("25.00") &&
				len(o.Items) == 1 &&
				o.Items[0].Quantity == 2 &&
				o.Items[0].Price == money.MustParse("12.50")
		})).Return(nil)

		o, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items:        []LineItem{{MenuItemID: 7, Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, "25.00", o.TotalPrice.String())
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, uint(42), o.ID)
		assert.Equal(t, uint64(1), f.registry.OrdersCreated.Load())
		f.repo.AssertExpectations(t)
	})

	t.Run("exact totals with repeating decimals", func(t *testing.T) {
		f := newFixture()

		f.restaurants.On("GetByID", ctx, uint(1)).
			Return(&restaurant.Restaurant{ID: 1}, nil)
		f.menuItems.On("GetItemByID", ctx, uint(7)).
			Return(&menu.Item{ID: 7, RestaurantID: 1, Price: money.MustParse("3.33")}, nil)
		f.repo.On("CreateTx", ctx, mock.Anything).Return(nil)

		o, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items:        []LineItem{{MenuItemID: 7, Quantity: 9}},
		})
		require.NoError(t, err)
		assert.Equal(t, "29.97", o.TotalPrice.String())
	})

	t.Run("zero quantity rejected before any write", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items:        []LineItem{{MenuItemID: 7, Quantity: 0}},
		})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "items[0].quantity")
		f.repo.AssertNotCalled(t, "CreateTx")
		assert.Equal(t, uint64(0), f.registry.OrdersCreated.Load())
	})

	t.Run("all offending lines reported together", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items: []LineItem{
				{MenuItemID: 7, Quantity: -1},
				{MenuItemID: 0, Quantity: 2},
			},
		})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "items[0].quantity")
		assert.Contains(t, errs, "items[1].menu_item_id")
	})

	t.Run("empty order rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ctx, 3, CreateInput{RestaurantID: 1})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "items")
	})

	t.Run("unknown restaurant", func(t *testing.T) {
		f := newFixture()

		f.restaurants.On("GetByID", ctx, uint(99)).Return(nil, restaurant.ErrNotFound)

		_, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 99,
			Items:        []LineItem{{MenuItemID: 7, Quantity: 1}},
		})
		assert.ErrorIs(t, err, restaurant.ErrNotFound)
		f.repo.AssertNotCalled(t, "CreateTx")
	})

	t.Run("item from another restaurant rejected", func(t *testing.T) {
		f := newFixture()

		f.restaurants.On("GetByID", ctx, uint(1)).Return(&restaurant.Restaurant{ID: 1}, nil)
		f.menuItems.On("GetItemByID", ctx, uint(8)).
			Return(&menu.Item{ID: 8, RestaurantID: 2, Price: money.MustParse("5.00")}, nil)

		_, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items:        []LineItem{{MenuItemID: 8, Quantity: 1}},
		})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "items[0].menu_item_id")
		f.repo.AssertNotCalled(t, "CreateTx")
	})

	t.Run("unknown menu item accumulates as field error", func(t *testing.T) {
		f := newFixture()

		f.restaurants.On("GetByID", ctx, uint(1)).Return(&restaurant.Restaurant{ID: 1}, nil)
		f.menuItems.On("GetItemByID", ctx, uint(7)).
			Return(&menu.Item{ID: 7, RestaurantID: 1, Price: money.MustParse("12.50")}, nil)
		f.menuItems.On("GetItemByID", ctx, uint(99)).Return(nil, menu.ErrItemNotFound)

		_, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items: []LineItem{
				{MenuItemID: 7, Quantity: 1},
				{MenuItemID: 99, Quantity: 1},
			},
		})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "items[1].menu_item_id")
		f.repo.AssertNotCalled(t, "CreateTx")
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		f := newFixture()

		f.restaurants.On("GetByID", ctx, uint(1)).Return(&restaurant.Restaurant{ID: 1}, nil)
		f.menuItems.On("GetItemByID", ctx, uint(7)).
			Return(&menu.Item{ID: 7, RestaurantID: 1, Price: money.MustParse("12.50")}, nil)
		f.repo.On("CreateTx", ctx, mock.Anything).Return(errors.New("db error"))

		_, err := f.svc.Create(ctx, 3, CreateInput{
			RestaurantID: 1,
			Items:        []LineItem{{MenuItemID: 7, Quantity: 2}},
		})
		assert.Error(t, err)
		assert.Equal(t, uint64(0), f.registry.OrdersCreated.Load())
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("customer sees only their orders", func(t *testing.T) {
		f := newFixture()

		f.repo.On("List", ctx, mock.MatchedBy(func(s Scope) bool {
			return s.CustomerID != nil && *s.CustomerID == 3 && s.OwnerID == nil
		})).Return([]*Order{{ID: 42, CustomerID: 3}}, nil)

		orders, err := f.svc.List(ctx, authz.Caller{UserID: 3, Role: authz.RoleCustomer, Authenticated: true})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("owner sees orders for their restaurants", func(t *testing.T) {
		f := newFixture()

		f.repo.On("List", ctx, mock.MatchedBy(func(s Scope) bool {
			return s.OwnerID != nil && *s.OwnerID == 10 && s.CustomerID == nil
		})).Return([]*Order{}, nil)

		_, err := f.svc.List(ctx, authz.Caller{UserID: 10, Role: authz.RoleRestaurantOwner, Authenticated: true})
		assert.NoError(t, err)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		f := newFixture()

		f.repo.On("List", ctx, Scope{}).Return([]*Order{{ID: 1}, {ID: 2}}, nil)

		orders, err := f.svc.List(ctx, authz.Caller{UserID: 1, Role: authz.RoleAdmin, Authenticated: true})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to a valid status", func(t *testing.T) {
		f := newFixture()

		f.repo.On("GetByID", ctx, uint(42)).
			Return(&Order{ID: 42, CustomerID: 3, Status: StatusPending}, nil)
		f.repo.On("UpdateStatus", ctx, uint(42), StatusOutForDelivery).Return(nil)

		o, err := f.svc.UpdateStatus(ctx, 42, UpdateStatusInput{Status: StatusOutForDelivery})
		require.NoError(t, err)
		assert.Equal(t, StatusOutForDelivery, o.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateStatus(ctx, 42, UpdateStatusInput{Status: "SHIPPED"})

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "status")
		f.repo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture()

		f.repo.On("GetByID", ctx, uint(99)).Return(nil, ErrNotFound)

		_, err := f.svc.UpdateStatus(ctx, 99, UpdateStatusInput{Status: StatusCancelled})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_ListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown order is not an empty list", func(t *testing.T) {
		f := newFixture()

		f.repo.On("GetByID", ctx, uint(99)).Return(nil, ErrNotFound)

		_, err := f.svc.ListItems(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
		f.repo.AssertNotCalled(t, "ListItems")
	})

	t.Run("lists items", func(t *testing.T) {
		f := newFixture()

		f.repo.On("GetByID", ctx, uint(42)).Return(&Order{ID: 42}, nil)
		f.repo.On("ListItems", ctx, uint(42)).Return([]*Item{
			{ID: 100, OrderID: 42, MenuItemID: 7, Quantity: 2, Price: money.MustParse("12.50")},
		}, nil)

		items, err := f.svc.ListItems(ctx, 42)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}
