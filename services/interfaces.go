package services

import (
	"context"

	"user-store/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	InsertUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	FindAllUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByAccount(ctx context.Context, account string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}
