package database

import (
	"context"
	"time"

	"user-store/models"
	"user-store/sqltemplate"
)

const userColumns = "id, account, password, email, created_at, updated_at"

func userMapper(row sqltemplate.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Account, &user.Password, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

// InsertUser stores a new user and fills in its generated ID.
func (r *Repository) InsertUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	id, err := r.tmpl.Insert(ctx, `
		INSERT INTO users (account, password, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, sqltemplate.Args(user.Account, user.Password, user.Email, user.CreatedAt, user.UpdatedAt))
	if err != nil {
		return translate(err)
	}

	user.ID = id
	return nil
}

// UpdateUser overwrites account, password and email of the user with
// user.ID. It returns the number of rows changed (0 if no such user).
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) (int64, error) {
	user.UpdatedAt = time.Now().UTC()

	affected, err := r.tmpl.Update(ctx, `
		UPDATE users SET
			account = ?,
			password = ?,
			email = ?,
			updated_at = ?
		WHERE id = ?
	`, sqltemplate.Args(user.Account, user.Password, user.Email, user.UpdatedAt, user.ID))
	return affected, translate(err)
}

func (r *Repository) DeleteUser(ctx context.Context, id int64) (int64, error) {
	return r.tmpl.Update(ctx, "DELETE FROM users WHERE id = ?", sqltemplate.Args(id))
}

// FindAllUsers returns every user ordered by id.
func (r *Repository) FindAllUsers(ctx context.Context) ([]models.User, error) {
	return sqltemplate.Query(ctx, r.tmpl,
		"SELECT "+userColumns+" FROM users ORDER BY id ASC",
		userMapper, nil)
}

// FindUserByID returns nil if no user has the given id.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return sqltemplate.QueryForObject(ctx, r.tmpl,
		"SELECT "+userColumns+" FROM users WHERE id = ?",
		userMapper, sqltemplate.Args(id))
}

// FindUserByAccount returns nil if the account does not exist.
func (r *Repository) FindUserByAccount(ctx context.Context, account string) (*models.User, error) {
	return sqltemplate.QueryForObject(ctx, r.tmpl,
		"SELECT "+userColumns+" FROM users WHERE account = ?",
		userMapper, sqltemplate.Args(account))
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	count, err := sqltemplate.QueryForObject(ctx, r.tmpl, "SELECT COUNT(*) FROM users",
		func(row sqltemplate.Row) (int64, error) {
			var n int64
			err := row.Scan(&n)
			return n, err
		}, nil)
	if err != nil {
		return 0, err
	}
	return *count, nil
}
