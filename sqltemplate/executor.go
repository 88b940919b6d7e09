package sqltemplate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Pool hands out dedicated connections. *sql.DB satisfies it; closing the
// returned *sql.Conn gives it back to the pool.
type Pool interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

var _ Pool = (*sql.DB)(nil)

// scope owns the connection, statement and cursor of a single template call.
type scope struct {
	query string
	log   *slog.Logger

	conn *sql.Conn
	stmt *sql.Stmt
	rows *sql.Rows
	args []any
}

// withStatement acquires a connection, prepares query on it, runs binder
// and hands the ready scope to fn. Everything acquired is released before
// withStatement returns, whichever way fn exits.
func (t *Template) withStatement(ctx context.Context, query string, binder Binder, fn func(s *scope) error) (err error) {
	if query == "" {
		return newError(KindStatementPreparation, query, fmt.Errorf("empty query"))
	}

	s := &scope{query: query, log: t.log}
	defer func() {
		s.release()
		if err != nil {
			t.log.Debug("query failed", "query", query, "error", err)
		}
	}()

	s.conn, err = t.pool.Conn(ctx)
	if err != nil {
		return newError(KindConnectionAcquisition, query, err)
	}

	s.stmt, err = s.conn.PrepareContext(ctx, query)
	if err != nil {
		return newError(KindStatementPreparation, query, err)
	}

	bound := &Statement{query: query}
	if binder != nil {
		if err := binder(bound); err != nil {
			return newError(KindParameterBinding, query, err)
		}
	}
	s.args, err = bound.values()
	if err != nil {
		return newError(KindParameterBinding, query, err)
	}

	t.log.Debug("query", "query", query, "args", len(s.args))
	return fn(s)
}

func (s *scope) exec(ctx context.Context) (sql.Result, error) {
	res, err := s.stmt.ExecContext(ctx, s.args...)
	if err != nil {
		return nil, s.executionError(err)
	}
	return res, nil
}

// open runs the statement as a query. The cursor is owned by the scope
// and closed on release.
func (s *scope) open(ctx context.Context) (*sql.Rows, error) {
	rows, err := s.stmt.QueryContext(ctx, s.args...)
	if err != nil {
		return nil, s.executionError(err)
	}
	s.rows = rows
	return rows, nil
}

func (s *scope) executionError(err error) error {
	if isBindingFailure(err) {
		return newError(KindParameterBinding, s.query, err)
	}
	return newError(KindExecution, s.query, err)
}

// release closes cursor, statement and connection in that order. Close
// failures are logged and dropped so they never replace the call's result.
func (s *scope) release() {
	if s.rows != nil {
		if err := s.rows.Close(); err != nil {
			s.log.Warn("failed to close rows", "query", s.query, "error", err)
		}
		s.rows = nil
	}
	if s.stmt != nil {
		if err := s.stmt.Close(); err != nil {
			s.log.Warn("failed to close statement", "query", s.query, "error", err)
		}
		s.stmt = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.log.Warn("failed to release connection", "query", s.query, "error", err)
		}
		s.conn = nil
	}
}
