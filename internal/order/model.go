package order

import (
	"time"

	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/money"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID           uint         `json:"id"`
	CustomerID   uint         `json:"customer_id"`
	RestaurantID uint         `json:"restaurant_id"`
	Status       Status       `json:"status"`
	TotalPrice   money.Amount `json:"total_price"`
	CreatedAt    time.Time    `json:"created_at"`
	Items        []*Item      `json:"items"`
}

// OwnedBy reports the ordering customer for object-level authorization.
func (o *Order) OwnedBy() (uint, authz.Relation) {
	return o.CustomerID, authz.RelationCustomer
}

type Item struct {
	ID         uint         `json:"id"`
	OrderID    uint         `json:"order_id"`
	MenuItemID uint         `json:"menu_item_id"`
	Quantity   int          `json:"quantity"`
	// Price is the unit price snapshotted when the order was placed.
	Price money.Amount `json:"price"`
}

// LineItem is a requested order line before price resolution.
type LineItem struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type CreateInput struct {
	RestaurantID uint       `json:"restaurant_id"`
	Items        []LineItem `json:"items"`
}

type UpdateStatusInput struct {
	Status Status `json:"status"`
}
