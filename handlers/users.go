package handlers

import (
	"errors"

	"user-store/app"
	"user-store/models"
	"user-store/services"

	"github.com/gofiber/fiber/v2"
)

// ListUsers returns every user along with the stored total
func ListUsers(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := a.UserService.List(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch users", err)
		}

		total, err := a.UserService.Count(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to count users", err)
		}

		return success(c, fiber.Map{"users": users, "total": total})
	}
}

// GetUser returns a single user by id
func GetUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return badRequest(c, "Invalid user ID")
		}

		user, err := a.UserService.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return notFound(c, "User not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch user", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}

// GetUserByAccount returns a single user by account name
func GetUserByAccount(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return badRequest(c, "account is required")
		}

		user, err := a.UserService.GetByAccount(c.UserContext(), account)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return notFound(c, "User not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch user", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}

// CreateUser registers a new user
func CreateUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		user, err := a.UserService.Register(c.UserContext(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAccountTaken):
				return conflict(c, "Account already exists")
			case errors.Is(err, services.ErrPasswordTooLong):
				return badRequest(c, "Password is too long")
			}
			return serverErrorWithDetails(c, "Failed to create user", err)
		}

		return created(c, fiber.Map{"user": user})
	}
}

// UpdateUser changes account and email
func UpdateUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return badRequest(c, "Invalid user ID")
		}

		var req models.UpdateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		user, err := a.UserService.Update(c.UserContext(), id, req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return notFound(c, "User not found")
			case errors.Is(err, services.ErrAccountTaken):
				return conflict(c, "Account already exists")
			}
			return serverErrorWithDetails(c, "Failed to update user", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}

// ChangePassword replaces a user's password
func ChangePassword(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return badRequest(c, "Invalid user ID")
		}

		var req models.ChangePasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		if err := a.UserService.ChangePassword(c.UserContext(), id, req); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return notFound(c, "User not found")
			case errors.Is(err, services.ErrInvalidCredentials):
				return unauthorized(c, "Current password is incorrect")
			case errors.Is(err, services.ErrPasswordTooLong):
				return badRequest(c, "Password is too long")
			}
			return serverErrorWithDetails(c, "Failed to change password", err)
		}

		return success(c, fiber.Map{"success": true})
	}
}

// DeleteUser removes a user
func DeleteUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return badRequest(c, "Invalid user ID")
		}

		if err := a.UserService.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return notFound(c, "User not found")
			}
			return serverErrorWithDetails(c, "Failed to delete user", err)
		}

		return success(c, fiber.Map{"success": true})
	}
}

// Login checks account and password
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		user, err := a.UserService.Authenticate(c.UserContext(), req.Account, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return unauthorized(c, "Invalid account or password")
			}
			return serverErrorWithDetails(c, "Failed to log in", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}
