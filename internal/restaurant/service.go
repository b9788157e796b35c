package restaurant

import (
	"context"

	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/validation"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]*Restaurant, error)
	Create(ctx context.Context, ownerID uint, input CreateInput) (*Restaurant, error)
	Get(ctx context.Context, id uint) (*Restaurant, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*Restaurant, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]*Restaurant, error) {
	return s.repo.List(ctx)
}

// Create persists a restaurant owned by the caller. Any owner value the
// client may have supplied never reaches this layer.
func (s *service) Create(ctx context.Context, ownerID uint, input CreateInput) (*Restaurant, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateRestaurant"),
		zap.Uint("owner_id", ownerID),
	)

	if errs := validateCreate(input); !errs.Empty() {
		log.Warn("restaurant validation failed", zap.Error(errs))
		return nil, errs
	}

	rest := &Restaurant{
		OwnerID: ownerID,
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
	}

	created, err := s.repo.Create(ctx, rest)
	if err != nil {
		log.Error("failed to create restaurant", zap.Error(err))
		return nil, err
	}

	return created, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges supplied fields into the stored record and re-validates.
// Ownership is checked by the caller's handler before this runs; owner
// reassignment is not possible here.
func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*Restaurant, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateRestaurant"),
		zap.Uint("restaurant_id", id),
	)

	rest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rest.Name = *input.Name
	}
	if input.Address != nil {
		rest.Address = *input.Address
	}
	if input.Phone != nil {
		rest.Phone = *input.Phone
	}

	if errs := validateCreate(CreateInput{Name: rest.Name, Address: rest.Address, Phone: rest.Phone}); !errs.Empty() {
		log.Warn("restaurant validation failed", zap.Error(errs))
		return nil, errs
	}

	if err := s.repo.Update(ctx, rest); err != nil {
		log.Error("failed to update restaurant", zap.Error(err))
		return nil, err
	}

	return rest, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteRestaurant"),
		zap.Uint("restaurant_id", id),
	)

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete restaurant", zap.Error(err))
		return err
	}

	log.Info("restaurant deleted")
	return nil
}

func validateCreate(input CreateInput) validation.Errors {
	errs := validation.New()

	if input.Name == "" {
		errs.Add("name", "name is required")
	} else if len(input.Name) > 250 {
		errs.Add("name", "name must be less than 250 characters")
	}

	if input.Address == "" {
		errs.Add("address", "address is required")
	}

	if input.Phone == "" {
		errs.Add("phone", "phone is required")
	} else if len(input.Phone) > 250 {
		errs.Add("phone", "phone must be less than 250 characters")
	}

	return errs
}
