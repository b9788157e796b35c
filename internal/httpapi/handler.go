package httpapi

import (
	"net/http"
	"strconv"

	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/menu"
	"food-delivery-api/internal/metrics"
	"food-delivery-api/internal/order"
	"food-delivery-api/internal/restaurant"
	"food-delivery-api/internal/user"
	"food-delivery-api/internal/utils"

	"github.com/gorilla/mux"
)

type Handler struct {
	Users       user.Service
	Restaurants restaurant.Service
	Menu        menu.Service
	Orders      order.Service
	Registry    *metrics.Registry
}

func NewHandler(
	users user.Service,
	restaurants restaurant.Service,
	menuSvc menu.Service,
	orders order.Service,
	registry *metrics.Registry,
) *Handler {
	return &Handler{
		Users:       users,
		Restaurants: restaurants,
		Menu:        menuSvc,
		Orders:      orders,
		Registry:    registry,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/health", h.health).Methods("GET")

	r.HandleFunc("/api/register", h.register).Methods("POST")
	r.HandleFunc("/api/login", h.login).Methods("POST")
	r.HandleFunc("/api/logout", h.logout).Methods("POST")

	r.HandleFunc("/api/restaurants", h.listRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.updateRestaurant).Methods("PATCH")
	r.HandleFunc("/api/restaurants/{id}", h.deleteRestaurant).Methods("DELETE")

	r.HandleFunc("/api/categories", h.listCategories).Methods("GET")
	r.HandleFunc("/api/categories", h.createCategory).Methods("POST")
	r.HandleFunc("/api/categories/{id}", h.deleteCategory).Methods("DELETE")

	r.HandleFunc("/api/menu-items", h.listMenuItems).Methods("GET")
	r.HandleFunc("/api/menu-items", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/menu-items/{id}", h.getMenuItem).Methods("GET")
	r.HandleFunc("/api/menu-items/{id}", h.updateMenuItem).Methods("PATCH")
	r.HandleFunc("/api/menu-items/{id}", h.deleteMenuItem).Methods("DELETE")

	r.HandleFunc("/api/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.updateOrderStatus).Methods("PATCH")
	r.HandleFunc("/api/orders/{id}", h.deleteOrder).Methods("DELETE")
	r.HandleFunc("/api/orders/{id}/items", h.listOrderItems).Methods("GET")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "ok", h.Registry.Snapshot())
}

// pathID pulls the {id} route variable; non-numeric ids read as an
// unknown resource.
func pathID(r *http.Request) (uint, bool) {
	id, err := utils.ToUint(mux.Vars(r)["id"])
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func respondUnknownID(w http.ResponseWriter) {
	respondFieldErrors(w, http.StatusNotFound, map[string][]string{
		"detail": {"not found"},
	})
}

// optionalUintQuery reads an optional numeric query parameter.
func optionalUintQuery(r *http.Request, name string) *uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var input user.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	token, u, err := h.Users.Register(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var input user.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	token, u, err := h.Users.Login(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	respondSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

// logout expires the access token cookie. The token itself stays valid
// until its expiry; there is no server-side denylist.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	respondSuccess(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceRestaurant); err != nil {
		respondError(w, r, err)
		return
	}

	restaurants, err := h.Restaurants.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Restaurants retrieved successfully", restaurants)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceRestaurant); err != nil {
		respondError(w, r, err)
		return
	}

	var input restaurant.CreateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	// Owner always comes from the caller, never the payload.
	created, err := h.Restaurants.Create(r.Context(), caller.UserID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Restaurant created successfully", created)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceRestaurant); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Restaurant retrieved successfully", rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceRestaurant); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceRestaurant, rest); err != nil {
		respondError(w, r, err)
		return
	}

	var input restaurant.UpdateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	updated, err := h.Restaurants.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Restaurant updated successfully", updated)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceRestaurant); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceRestaurant, rest); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Restaurants.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusNoContent, "", nil)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuCategory); err != nil {
		respondError(w, r, err)
		return
	}

	categories, err := h.Menu.ListCategories(r.Context(), optionalUintQuery(r, "restaurant_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuCategory); err != nil {
		respondError(w, r, err)
		return
	}

	var input menu.CreateCategoryInput
	if !decodeJSON(w, r, &input) {
		return
	}

	created, err := h.Menu.CreateCategory(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Category created successfully", created)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuCategory); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	if err := h.Menu.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusNoContent, "", nil)
}

func (h *Handler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuItem); err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.Menu.ListItems(r.Context(), optionalUintQuery(r, "category_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Menu items retrieved successfully", items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuItem); err != nil {
		respondError(w, r, err)
		return
	}

	var input menu.CreateItemInput
	if !decodeJSON(w, r, &input) {
		return
	}

	// A new item hangs off a category; the caller must own the
	// restaurant that category belongs to.
	if input.CategoryID != 0 {
		category, err := h.Menu.GetCategory(r.Context(), input.CategoryID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		rest, err := h.Restaurants.Get(r.Context(), category.RestaurantID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceMenuItem, rest); err != nil {
			respondError(w, r, err)
			return
		}
	}

	created, err := h.Menu.CreateItem(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Menu item created successfully", created)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuItem); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	item, err := h.Menu.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Menu item retrieved successfully", item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuItem); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	item, err := h.Menu.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceMenuItem, item); err != nil {
		respondError(w, r, err)
		return
	}

	var input menu.UpdateItemInput
	if !decodeJSON(w, r, &input) {
		return
	}

	updated, err := h.Menu.UpdateItem(r.Context(), id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Menu item updated successfully", updated)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceMenuItem); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	item, err := h.Menu.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceMenuItem, item); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Menu.DeleteItem(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusNoContent, "", nil)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceOrder); err != nil {
		respondError(w, r, err)
		return
	}

	orders, err := h.Orders.List(r.Context(), caller)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceOrder); err != nil {
		respondError(w, r, err)
		return
	}

	var input order.CreateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	// The customer is always the caller.
	created, err := h.Orders.Create(r.Context(), caller.UserID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Order created successfully", created)
}

// visibleOrder loads an order and hides it from callers outside its
// customer/restaurant/admin circle.
func (h *Handler) visibleOrder(w http.ResponseWriter, r *http.Request, caller authz.Caller) (*order.Order, bool) {
	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return nil, false
	}

	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}

	if caller.Role == authz.RoleAdmin || o.CustomerID == caller.UserID {
		return o, true
	}
	if caller.Role == authz.RoleRestaurantOwner {
		rest, err := h.Restaurants.Get(r.Context(), o.RestaurantID)
		if err == nil && rest.OwnerID == caller.UserID {
			return o, true
		}
	}

	respondError(w, r, authz.ErrForbidden)
	return nil, false
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceOrder); err != nil {
		respondError(w, r, err)
		return
	}

	o, ok := h.visibleOrder(w, r, caller)
	if !ok {
		return
	}

	respondSuccess(w, http.StatusOK, "Order retrieved successfully", o)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceOrder); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceOrder, o); err != nil {
		respondError(w, r, err)
		return
	}

	var input order.UpdateStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}

	updated, err := h.Orders.UpdateStatus(r.Context(), id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Order updated successfully", updated)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceOrder); err != nil {
		respondError(w, r, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondUnknownID(w)
		return
	}

	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := authz.AuthorizeObject(caller, r.Method, authz.ResourceOrder, o); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Orders.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusNoContent, "", nil)
}

func (h *Handler) listOrderItems(w http.ResponseWriter, r *http.Request) {
	caller := utils.CallerFromContext(r.Context())
	if err := authz.Authorize(caller, r.Method, authz.ResourceOrderItem); err != nil {
		respondError(w, r, err)
		return
	}

	o, ok := h.visibleOrder(w, r, caller)
	if !ok {
		return
	}

	items, err := h.Orders.ListItems(r.Context(), o.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Order items retrieved successfully", items)
}
