package menu

import (
	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/money"
)

type Category struct {
	ID           uint   `json:"id"`
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
}

type Item struct {
	ID          uint         `json:"id"`
	CategoryID  uint         `json:"category_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	// PriceWithTax is derived from the configured tax rate on reads.
	PriceWithTax money.Amount `json:"price_with_tax"`
	ImageURL     *string      `json:"image_url,omitempty"`

	// RestaurantID and OwnerID are resolved through the category and
	// restaurant joins when the item is loaded.
	RestaurantID uint `json:"-"`
	OwnerID      uint `json:"-"`
}

// OwnedBy exposes the chained restaurant owner for object-level
// authorization.
func (i *Item) OwnedBy() (uint, authz.Relation) {
	return i.OwnerID, authz.RelationOwner
}

type CreateCategoryInput struct {
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
}

type CreateItemInput struct {
	CategoryID  uint         `json:"category_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	ImageURL    *string      `json:"image_url"`
}

type UpdateItemInput struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Price       *money.Amount `json:"price"`
	ImageURL    *string       `json:"image_url"`
}
