package restaurant

import (
	"time"

	"food-delivery-api/internal/authz"
)

type Restaurant struct {
	ID        uint      `json:"id"`
	OwnerID   uint      `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy declares the restaurant's ownership relation for the
// authorization engine.
func (r *Restaurant) OwnedBy() (uint, authz.Relation) {
	return r.OwnerID, authz.RelationOwner
}

// CreateInput carries client-supplied fields. The owner is never read
// from the client; the service assigns it from the caller.
type CreateInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdateInput is a partial merge; nil fields stay untouched.
type UpdateInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}
