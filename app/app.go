package app

import (
	"log/slog"

	"user-store/database"
	"user-store/services"
	"user-store/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	UserService *services.UserService
	Validator   *validator.Validator
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, logger *slog.Logger) *App {
	return &App{
		UserService: services.NewUserService(repo),
		Validator:   validator.New(),
		Logger:      logger,
	}
}
