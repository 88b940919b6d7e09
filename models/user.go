package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateUserRequest struct {
	Account  string `json:"account" validate:"required,min=2,max=50,account"`
	Password string `json:"password" validate:"required,min=3,maxbytes=72"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

type UpdateUserRequest struct {
	Account string `json:"account" validate:"required,min=2,max=50,account"`
	Email   string `json:"email" validate:"required,email,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=3,maxbytes=72"`
}

type LoginRequest struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}
