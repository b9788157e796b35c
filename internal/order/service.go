package order

import (
	"context"
	"fmt"
	"time"

	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/events"
	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/menu"
	"food-delivery-api/internal/metrics"
	"food-delivery-api/internal/money"
	"food-delivery-api/internal/restaurant"
	"food-delivery-api/internal/validation"

	"go.uber.org/zap"
)

// RestaurantGetter resolves the restaurant an order is placed against.
type RestaurantGetter interface {
	GetByID(ctx context.Context, id uint) (*restaurant.Restaurant, error)
}

// MenuItemGetter resolves ordered menu items with their restaurant
// chain.
type MenuItemGetter interface {
	GetItemByID(ctx context.Context, id uint) (*menu.Item, error)
}

type Service interface {
	List(ctx context.Context, caller authz.Caller) ([]*Order, error)
	Create(ctx context.Context, customerID uint, input CreateInput) (*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	UpdateStatus(ctx context.Context, id uint, input UpdateStatusInput) (*Order, error)
	Delete(ctx context.Context, id uint) error
	ListItems(ctx context.Context, orderID uint) ([]*Item, error)
}

type service struct {
	repo        Repository
	restaurants RestaurantGetter
	menuItems   MenuItemGetter
	publisher   *events.Publisher
	registry    *metrics.Registry
}

// NewService wires the order workflow. publisher and registry may be
// nil.
func NewService(
	repo Repository,
	restaurants RestaurantGetter,
	menuItems MenuItemGetter,
	publisher *events.Publisher,
	registry *metrics.Registry,
) Service {
	return &service{
		repo:        repo,
		restaurants: restaurants,
		menuItems:   menuItems,
		publisher:   publisher,
		registry:    registry,
	}
}

// List is scoped to the caller: customers see their own orders,
// restaurant owners see orders against their restaurants, admins see
// everything.
func (s *service) List(ctx context.Context, caller authz.Caller) ([]*Order, error) {
	var scope Scope
	switch caller.Role {
	case authz.RoleAdmin:
	case authz.RoleRestaurantOwner:
		scope.OwnerID = &caller.UserID
	default:
		scope.CustomerID = &caller.UserID
	}

	return s.repo.List(ctx, scope)
}

func (s *service) Create(ctx context.Context, customerID uint, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("customer_id", customerID),
		zap.Uint("restaurant_id", input.RestaurantID),
	)

	errs := validation.New()
	if input.RestaurantID == 0 {
		errs.Add("restaurant_id", "restaurant_id is required")
	}
	if len(input.Items) == 0 {
		errs.Add("items", "at least one item is required")
	}
	for i, line := range input.Items {
		if line.Quantity <= 0 {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than 0")
		}
		if line.MenuItemID == 0 {
			errs.Add(fmt.Sprintf("items[%d].menu_item_id", i), "menu_item_id is required")
		}
	}
	if !errs.Empty() {
		log.Warn("order validation failed", zap.Error(errs))
		return nil, errs
	}

	if _, err := s.restaurants.GetByID(ctx, input.RestaurantID); err != nil {
		return nil, err
	}

	// Resolve every line against the restaurant's menu chain and
	// snapshot unit prices. Offenders accumulate so the caller sees
	// them all at once.
	var total money.Amount
	items := make([]*Item, 0, len(input.Items))
	for i, line := range input.Items {
		menuItem, err := s.menuItems.GetItemByID(ctx, line.MenuItemID)
		if err == menu.ErrItemNotFound {
			errs.Add(fmt.Sprintf("items[%d].menu_item_id", i), "menu item not found")
			continue
		}
		if err != nil {
			log.Error("failed to resolve menu item", zap.Uint("menu_item_id", line.MenuItemID), zap.Error(err))
			return nil, err
		}
		if menuItem.RestaurantID != input.RestaurantID {
			errs.Add(fmt.Sprintf("items[%d].menu_item_id", i), "menu item does not belong to this restaurant")
			continue
		}

		items = append(items, &Item{
			MenuItemID: menuItem.ID,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
		})
		total += menuItem.Price.Mul(line.Quantity)
	}
	if !errs.Empty() {
		log.Warn("order validation failed", zap.Error(errs))
		return nil, errs
	}

	o := &Order{
		CustomerID:   customerID,
		RestaurantID: input.RestaurantID,
		Status:       StatusPending,
		TotalPrice:   total,
		Items:        items,
	}

	if err := s.repo.CreateTx(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.publisher.PublishOrder(ctx, events.OrderEvent{
		Type:         events.TypeOrderCreated,
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		Status:       string(o.Status),
		TotalPrice:   o.TotalPrice.String(),
		OccurredAt:   time.Now().UTC(),
	})
	if s.registry != nil {
		s.registry.OrdersCreated.Inc()
	}

	log.Info("order created", zap.Uint("order_id", o.ID), zap.String("total_price", o.TotalPrice.String()))
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves the order to any valid status. The transition
// graph is deliberately unrestricted; tightening it is a product call.
func (s *service) UpdateStatus(ctx context.Context, id uint, input UpdateStatusInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Uint("order_id", id),
	)

	if !input.Status.Valid() {
		errs := validation.New()
		errs.Add("status", "status must be one of PENDING, CONFIRMED, OUT_FOR_DELIVERY, DELIVERED, CANCELLED")
		return nil, errs
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, input.Status); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}
	o.Status = input.Status

	s.publisher.PublishOrder(ctx, events.OrderEvent{
		Type:         events.TypeOrderStatusChanged,
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		Status:       string(o.Status),
		OccurredAt:   time.Now().UTC(),
	})

	log.Info("order status updated", zap.String("status", string(o.Status)))
	return o, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
		zap.Uint("order_id", id),
	)

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete order", zap.Error(err))
		return err
	}

	log.Info("order deleted")
	return nil
}

func (s *service) ListItems(ctx context.Context, orderID uint) ([]*Item, error) {
	// Surface a 404 for unknown orders rather than an empty list.
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, orderID)
}
