// Package sqltemplate runs single parameterized SQL statements against a
// connection pool and maps result rows into caller types.
//
// Every call acquires its own connection, prepares one statement, and
// releases rows, statement and connection before returning. Failures come
// back as *Error, classified by Kind, with the driver error attached.
package sqltemplate

import (
	"context"
	"log/slog"
)

// Row is one positioned row of a result cursor. *sql.Rows satisfies it.
type Row interface {
	Scan(dest ...any) error
	Columns() ([]string, error)
}

// RowMapper converts the current row into a T.
type RowMapper[T any] func(row Row) (T, error)

// Template is safe for concurrent use; it holds no per-call state.
type Template struct {
	pool        Pool
	log         *slog.Logger
	strictFirst bool
}

// Option configures a Template.
type Option func(*Template)

// WithLogger sets the logger used for SQL diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Template) {
		if logger != nil {
			t.log = logger
		}
	}
}

// WithStrictSingleRow makes QueryForObject fail with ErrTooManyRows when
// more than one row matches. By default the first row wins.
func WithStrictSingleRow() Option {
	return func(t *Template) {
		t.strictFirst = true
	}
}

// New creates a template that borrows connections from pool. The template
// never closes the pool.
func New(pool Pool, opts ...Option) *Template {
	t := &Template{
		pool: pool,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute runs a statement without parameters or results, such as DDL.
func (t *Template) Execute(ctx context.Context, query string) error {
	return t.withStatement(ctx, query, nil, func(s *scope) error {
		_, err := s.exec(ctx)
		return err
	})
}

// Update runs an insert, update or delete and returns the number of rows
// affected. binder may be nil.
func (t *Template) Update(ctx context.Context, query string, binder Binder) (int64, error) {
	var affected int64
	err := t.withStatement(ctx, query, binder, func(s *scope) error {
		res, err := s.exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return newError(KindExecution, query, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Insert runs an insert and returns the id the database generated for the
// new row.
func (t *Template) Insert(ctx context.Context, query string, binder Binder) (int64, error) {
	var id int64
	err := t.withStatement(ctx, query, binder, func(s *scope) error {
		res, err := s.exec(ctx)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return newError(KindExecution, query, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Query runs a select and maps every row with mapper, in cursor order. The
// result is never nil; it is empty when nothing matches. If mapper fails on
// any row no results are returned.
func Query[T any](ctx context.Context, t *Template, query string, mapper RowMapper[T], binder Binder) ([]T, error) {
	results := make([]T, 0)
	err := t.withStatement(ctx, query, binder, func(s *scope) error {
		rows, err := s.open(ctx)
		if err != nil {
			return err
		}
		for rows.Next() {
			v, err := mapper(rows)
			if err != nil {
				return newError(KindMapping, query, err)
			}
			results = append(results, v)
		}
		if err := rows.Err(); err != nil {
			return newError(KindExecution, query, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// QueryForObject runs a select expected to match at most one row. It
// returns nil when nothing matches. Extra rows are ignored unless the
// template was built WithStrictSingleRow.
func QueryForObject[T any](ctx context.Context, t *Template, query string, mapper RowMapper[T], binder Binder) (*T, error) {
	var result *T
	err := t.withStatement(ctx, query, binder, func(s *scope) error {
		rows, err := s.open(ctx)
		if err != nil {
			return err
		}
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return newError(KindExecution, query, err)
			}
			return nil
		}
		v, err := mapper(rows)
		if err != nil {
			return newError(KindMapping, query, err)
		}
		if t.strictFirst && rows.Next() {
			return newError(KindTooManyRows, query, nil)
		}
		if err := rows.Err(); err != nil {
			return newError(KindExecution, query, err)
		}
		result = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
