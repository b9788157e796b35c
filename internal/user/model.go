package user

import (
	"time"

	"food-delivery-api/internal/authz"
)

type User struct {
	ID        uint
	Email     string
	Password  string
	Role      authz.Role
	CreatedAt time.Time
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
