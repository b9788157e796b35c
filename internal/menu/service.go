package menu

import (
	"context"

	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/validation"

	"go.uber.org/zap"
)

type Service interface {
	ListCategories(ctx context.Context, restaurantID *uint) ([]*Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListItems(ctx context.Context, categoryID *uint) ([]*Item, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*Item, error)
	GetItem(ctx context.Context, id uint) (*Item, error)
	UpdateItem(ctx context.Context, id uint, input UpdateItemInput) (*Item, error)
	DeleteItem(ctx context.Context, id uint) error
}

type service struct {
	repo    Repository
	cache   *Cache
	taxRate float64
}

// NewService wires the menu service. cache may be nil; taxRate is the
// configured price-with-tax percentage.
func NewService(repo Repository, cache *Cache, taxRate float64) Service {
	return &service{repo: repo, cache: cache, taxRate: taxRate}
}

func (s *service) ListCategories(ctx context.Context, restaurantID *uint) ([]*Category, error) {
	return s.repo.ListCategories(ctx, restaurantID)
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCategory"),
		zap.Uint("restaurant_id", input.RestaurantID),
	)

	errs := validation.New()
	if input.Name == "" {
		errs.Add("name", "name is required")
	} else if len(input.Name) > 250 {
		errs.Add("name", "name must be less than 250 characters")
	}
	if input.RestaurantID == 0 {
		errs.Add("restaurant_id", "restaurant_id is required")
	}
	if !errs.Empty() {
		log.Warn("category validation failed", zap.Error(errs))
		return nil, errs
	}

	category, err := s.repo.CreateCategory(ctx, &Category{
		RestaurantID: input.RestaurantID,
		Name:         input.Name,
	})
	if err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return category, nil
}

func (s *service) GetCategory(ctx context.Context, id uint) (*Category, error) {
	return s.repo.GetCategoryByID(ctx, id)
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteCategory"),
		zap.Uint("category_id", id),
	)

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		log.Error("failed to delete category", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx)
	log.Info("category deleted")
	return nil
}

func (s *service) ListItems(ctx context.Context, categoryID *uint) ([]*Item, error) {
	if items, ok := s.cache.GetItems(ctx, categoryID); ok {
		return items, nil
	}

	items, err := s.repo.ListItems(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		item.PriceWithTax = item.Price.ApplyRate(s.taxRate)
	}

	s.cache.SetItems(ctx, categoryID, items)
	return items, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateItem"),
		zap.Uint("category_id", input.CategoryID),
	)

	if errs := validateItem(input); !errs.Empty() {
		log.Warn("menu item validation failed", zap.Error(errs))
		return nil, errs
	}

	// The category must exist before an item can hang off it.
	if _, err := s.repo.GetCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	item, err := s.repo.CreateItem(ctx, &Item{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		log.Error("failed to create menu item", zap.Error(err))
		return nil, err
	}

	item.PriceWithTax = item.Price.ApplyRate(s.taxRate)
	s.cache.Invalidate(ctx)
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id uint) (*Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.PriceWithTax = item.Price.ApplyRate(s.taxRate)
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id uint, input UpdateItemInput) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateItem"),
		zap.Uint("item_id", id),
	)

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.ImageURL != nil {
		item.ImageURL = input.ImageURL
	}

	if errs := validateItem(CreateItemInput{
		CategoryID: item.CategoryID,
		Name:       item.Name,
		Price:      item.Price,
	}); !errs.Empty() {
		log.Warn("menu item validation failed", zap.Error(errs))
		return nil, errs
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		log.Error("failed to update menu item", zap.Error(err))
		return nil, err
	}

	item.PriceWithTax = item.Price.ApplyRate(s.taxRate)
	s.cache.Invalidate(ctx)
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteItem"),
		zap.Uint("item_id", id),
	)

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		log.Error("failed to delete menu item", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx)
	log.Info("menu item deleted")
	return nil
}

func validateItem(input CreateItemInput) validation.Errors {
	errs := validation.New()

	if input.Name == "" {
		errs.Add("name", "name is required")
	} else if len(input.Name) > 100 {
		errs.Add("name", "name must be less than 100 characters")
	}

	if input.CategoryID == 0 {
		errs.Add("category_id", "category_id is required")
	}

	if input.Price <= 0 {
		errs.Add("price", "price must be greater than 0")
	}

	return errs
}
