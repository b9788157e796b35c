package authz

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated means no valid identity was attached to the
	// request; it maps to 401 at the transport layer.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is the engine's DENY; it maps to 403 and is always
	// distinct from a validation failure.
	ErrForbidden = errors.New("forbidden")
)

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleCustomer        Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRestaurantOwner, RoleCustomer:
		return true
	}
	return false
}

type Resource string

const (
	ResourceRestaurant   Resource = "restaurant"
	ResourceMenuCategory Resource = "menu_category"
	ResourceMenuItem     Resource = "menu_item"
	ResourceOrder        Resource = "order"
	ResourceOrderItem    Resource = "order_item"
)

// Relation tags which ownership field, if any, an entity carries. The
// relation is declared per entity type rather than probed at runtime.
type Relation int

const (
	RelationNone Relation = iota
	RelationOwner
	RelationCustomer
)

// Subject is implemented by every entity that participates in
// object-level checks.
type Subject interface {
	OwnedBy() (userID uint, rel Relation)
}

// Caller is the identity the auth middleware resolved for a request.
// Anonymous callers have Authenticated == false.
type Caller struct {
	UserID        uint
	Role          Role
	Authenticated bool
}

// policy is one row of the rule table.
type policy struct {
	// createRole may perform any mutating method unless
	// anyAuthenticatedModify widens update/delete.
	createRole Role

	// anyAuthenticatedModify lets any authenticated caller issue
	// non-create mutations (the menu-item rule).
	anyAuthenticatedModify bool

	// relation names the ownership field checked at the object level.
	relation Relation
}

// rules is the whole authorization model as data: role × resource ×
// method, with the object-level relation alongside.
var rules = map[Resource]policy{
	ResourceRestaurant:   {createRole: RoleRestaurantOwner, relation: RelationOwner},
	ResourceMenuCategory: {createRole: RoleAdmin, relation: RelationNone},
	ResourceMenuItem:     {createRole: RoleRestaurantOwner, anyAuthenticatedModify: true, relation: RelationOwner},
	ResourceOrder:        {createRole: RoleCustomer, relation: RelationCustomer},
	ResourceOrderItem:    {createRole: RoleCustomer, relation: RelationNone},
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Authorize decides ALLOW or DENY at the collection level. Safe methods
// are open to any authenticated caller; mutating methods require the
// resource's role. The decision is a pure function of its inputs.
func Authorize(caller Caller, method string, resource Resource) error {
	if !caller.Authenticated {
		return ErrUnauthenticated
	}

	if safeMethod(method) {
		return nil
	}

	p, ok := rules[resource]
	if !ok {
		return ErrForbidden
	}

	if caller.Role == p.createRole {
		return nil
	}

	if p.anyAuthenticatedModify && method != http.MethodPost {
		return nil
	}

	return ErrForbidden
}

// AuthorizeObject re-checks a mutating request against the target
// instance: the caller must hold the entity's ownership relation. An
// entity with no relation is denied outright, except for admin-trusted
// resources whose policy declares RelationNone.
func AuthorizeObject(caller Caller, method string, resource Resource, subject Subject) error {
	if !caller.Authenticated {
		return ErrUnauthenticated
	}

	if safeMethod(method) {
		return nil
	}

	p, ok := rules[resource]
	if !ok {
		return ErrForbidden
	}

	if p.relation == RelationNone {
		// No object-level check declared for this resource.
		return nil
	}

	ownerID, rel := subject.OwnedBy()
	if rel != p.relation {
		return ErrForbidden
	}
	if ownerID != caller.UserID {
		return ErrForbidden
	}

	return nil
}
