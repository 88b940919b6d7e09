package database

import (
	"errors"

	"user-store/sqltemplate"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateAccount is returned when an insert or update collides with
// the unique account column.
var ErrDuplicateAccount = errors.New("account already exists")

type Repository struct {
	tmpl *sqltemplate.Template
}

func NewRepository(db *DB) *Repository {
	return &Repository{tmpl: db.Template}
}

// translate maps constraint failures the callers care about onto
// repository errors and passes everything else through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateAccount
	}
	return err
}
