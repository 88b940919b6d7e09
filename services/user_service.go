package services

import (
	"context"
	"errors"
	"strings"

	"user-store/database"
	"user-store/models"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for new passwords. Tests lower it.
var PasswordHashCost = bcrypt.DefaultCost

// UserService handles business logic for user accounts
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns every user
func (us *UserService) List(ctx context.Context) ([]models.User, error) {
	return us.repo.FindAllUsers(ctx)
}

// Count returns the number of stored users
func (us *UserService) Count(ctx context.Context) (int64, error) {
	return us.repo.CountUsers(ctx)
}

// Get returns the user with the given id or ErrUserNotFound
func (us *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := us.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByAccount returns the user owning account or ErrUserNotFound
func (us *UserService) GetByAccount(ctx context.Context, account string) (*models.User, error) {
	user, err := us.repo.FindUserByAccount(ctx, strings.TrimSpace(account))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Register creates a new user with a hashed password
func (us *UserService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	account := strings.TrimSpace(req.Account)

	existing, err := us.repo.FindUserByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAccountTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Account:  account,
		Password: string(hash),
		Email:    strings.TrimSpace(req.Email),
	}
	if err := us.repo.InsertUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, database.ErrDuplicateAccount) {
			return nil, ErrAccountTaken
		}
		return nil, err
	}

	return user, nil
}

// Update changes account and email of an existing user
func (us *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	user, err := us.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Account = strings.TrimSpace(req.Account)
	user.Email = strings.TrimSpace(req.Email)

	if err := us.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one
func (us *UserService) ChangePassword(ctx context.Context, id int64, req models.ChangePasswordRequest) error {
	user, err := us.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = string(hash)

	return us.save(ctx, user)
}

// Authenticate returns the user if the password matches
func (us *UserService) Authenticate(ctx context.Context, account, password string) (*models.User, error) {
	user, err := us.repo.FindUserByAccount(ctx, strings.TrimSpace(account))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Delete removes a user
func (us *UserService) Delete(ctx context.Context, id int64) error {
	affected, err := us.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (us *UserService) save(ctx context.Context, user *models.User) error {
	affected, err := us.repo.UpdateUser(ctx, user)
	if errors.Is(err, database.ErrDuplicateAccount) {
		return ErrAccountTaken
	}
	if err != nil {
		return err
	}
	// Deleted between the read and the write
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	return hash, err
}
