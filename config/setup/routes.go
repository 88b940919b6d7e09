package setup

import (
	"user-store/app"
	"user-store/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := fiberApp.Group("/api")
	api.Post("/auth/login", handlers.Login(application))

	api.Get("/users", handlers.ListUsers(application))
	api.Post("/users", handlers.CreateUser(application))
	api.Get("/users/account/:account", handlers.GetUserByAccount(application))
	api.Get("/users/:id", handlers.GetUser(application))
	api.Put("/users/:id", handlers.UpdateUser(application))
	api.Put("/users/:id/password", handlers.ChangePassword(application))
	api.Delete("/users/:id", handlers.DeleteUser(application))
}
