package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"food-delivery-api/internal/auth"
	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/menu"
	"food-delivery-api/internal/order"
	"food-delivery-api/internal/restaurant"
	"food-delivery-api/internal/user"
	"food-delivery-api/internal/validation"

	"go.uber.org/zap"
)

// successEnvelope is the wire shape of every 2xx body.
type successEnvelope struct {
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}

type errorEnvelope struct {
	Status string              `json:"status"`
	Errors map[string][]string `json:"errors"`
}

func respondSuccess(w http.ResponseWriter, code int, message string, data interface{}) {
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(successEnvelope{
		Message: message,
		Status:  "success",
		Data:    data,
	})
}

func respondFieldErrors(w http.ResponseWriter, code int, errs map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorEnvelope{Status: "error", Errors: errs})
}

// respondError maps the error taxonomy onto status codes: field-keyed
// validation failures are 400, missing/bad identity 401, engine denials
// 403, unknown entities 404, everything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		respondFieldErrors(w, http.StatusBadRequest, errs)
		return
	}

	switch {
	case errors.Is(err, user.ErrEmailExists):
		respondFieldErrors(w, http.StatusBadRequest, map[string][]string{
			"email": {"a user with this email already exists"},
		})
	case errors.Is(err, authz.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, user.ErrInvalidCredentials):
		respondFieldErrors(w, http.StatusUnauthorized, map[string][]string{
			"detail": {err.Error()},
		})
	case errors.Is(err, authz.ErrForbidden):
		respondFieldErrors(w, http.StatusForbidden, map[string][]string{
			"detail": {"you do not have permission to perform this action"},
		})
	case errors.Is(err, restaurant.ErrNotFound),
		errors.Is(err, menu.ErrCategoryNotFound),
		errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		respondFieldErrors(w, http.StatusNotFound, map[string][]string{
			"detail": {err.Error()},
		})
	default:
		logger.FromCtx(r.Context()).Error("unhandled request error", zap.Error(err))
		respondFieldErrors(w, http.StatusInternalServerError, map[string][]string{
			"detail": {"internal server error"},
		})
	}
}

// decodeJSON rejects malformed bodies with a field-keyed 400 like any
// other validation failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondFieldErrors(w, http.StatusBadRequest, map[string][]string{
			"body": {"invalid JSON body"},
		})
		return false
	}
	return true
}
