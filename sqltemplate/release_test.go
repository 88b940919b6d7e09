package sqltemplate

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDriver logs every close so tests can check release order.
type recordingDriver struct {
	mu            sync.Mutex
	events        []string
	failStmtClose bool
	data          [][]driver.Value
}

func (d *recordingDriver) record(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDriver) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func (d *recordingDriver) Connect(context.Context) (driver.Conn, error) {
	return &recordingConn{d: d}, nil
}

func (d *recordingDriver) Driver() driver.Driver { return d }

func (d *recordingDriver) Open(string) (driver.Conn, error) {
	return &recordingConn{d: d}, nil
}

type recordingConn struct{ d *recordingDriver }

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	c.d.record("prepare")
	return &recordingStmt{d: c.d}, nil
}

func (c *recordingConn) Close() error {
	c.d.record("conn.close")
	return nil
}

func (c *recordingConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type recordingStmt struct{ d *recordingDriver }

func (s *recordingStmt) Close() error {
	s.d.record("stmt.close")
	if s.d.failStmtClose {
		return errors.New("stmt close failed")
	}
	return nil
}

func (s *recordingStmt) NumInput() int { return -1 }

func (s *recordingStmt) Exec([]driver.Value) (driver.Result, error) {
	s.d.record("exec")
	return driver.RowsAffected(1), nil
}

func (s *recordingStmt) Query([]driver.Value) (driver.Rows, error) {
	s.d.record("query")
	return &recordingRows{d: s.d, data: s.d.data}, nil
}

type recordingRows struct {
	d    *recordingDriver
	data [][]driver.Value
	pos  int
}

func (r *recordingRows) Columns() []string { return []string{"n"} }

func (r *recordingRows) Close() error {
	r.d.record("rows.close")
	return nil
}

func (r *recordingRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

func openRecording(t *testing.T, d *recordingDriver) (*sql.DB, *bytes.Buffer, *Template) {
	t.Helper()
	db := sql.OpenDB(d)
	// Without idle slots the pool closes the driver connection on release,
	// which makes the return visible in the event log.
	db.SetMaxIdleConns(0)
	t.Cleanup(func() { db.Close() })

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return db, logs, New(db, WithLogger(logger))
}

func intMapper(row Row) (int64, error) {
	var n int64
	err := row.Scan(&n)
	return n, err
}

func TestReleaseOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Query closes rows then statement then connection", func(t *testing.T) {
		d := &recordingDriver{data: [][]driver.Value{{int64(1)}, {int64(2)}}}
		db, _, tmpl := openRecording(t, d)

		got, err := Query(ctx, tmpl, "SELECT n FROM t", intMapper, nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, got)
		assert.Equal(t, []string{"prepare", "query", "rows.close", "stmt.close", "conn.close"}, d.Events())
		assert.Equal(t, 0, db.Stats().InUse)
	})

	t.Run("Mapper failure still releases everything in order", func(t *testing.T) {
		d := &recordingDriver{data: [][]driver.Value{{int64(1)}, {int64(2)}, {int64(3)}}}
		_, _, tmpl := openRecording(t, d)

		calls := 0
		got, err := Query(ctx, tmpl, "SELECT n FROM t", func(row Row) (int64, error) {
			calls++
			if calls == 2 {
				return 0, errors.New("boom")
			}
			return intMapper(row)
		}, nil)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrMapping)
		assert.Equal(t, []string{"prepare", "query", "rows.close", "stmt.close", "conn.close"}, d.Events())
	})

	t.Run("Binder failure releases statement and connection", func(t *testing.T) {
		d := &recordingDriver{}
		_, _, tmpl := openRecording(t, d)

		_, err := tmpl.Update(ctx, "UPDATE t SET n = ?", func(*Statement) error {
			return errors.New("cannot bind")
		})
		assert.ErrorIs(t, err, ErrParameterBinding)
		assert.Equal(t, []string{"prepare", "stmt.close", "conn.close"}, d.Events())
	})

	t.Run("Close failure does not mask the result", func(t *testing.T) {
		d := &recordingDriver{failStmtClose: true}
		_, logs, tmpl := openRecording(t, d)

		n, err := tmpl.Update(ctx, "UPDATE t SET n = 1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, []string{"prepare", "exec", "stmt.close", "conn.close"}, d.Events())
		assert.Contains(t, logs.String(), "failed to close statement")
	})

	t.Run("Close failure does not replace the primary error", func(t *testing.T) {
		d := &recordingDriver{failStmtClose: true, data: [][]driver.Value{{int64(1)}}}
		_, _, tmpl := openRecording(t, d)

		mapErr := errors.New("mapper failed")
		_, err := QueryForObject(ctx, tmpl, "SELECT n FROM t", func(Row) (int64, error) {
			return 0, mapErr
		}, nil)
		assert.ErrorIs(t, err, ErrMapping)
		assert.ErrorIs(t, err, mapErr)
	})
}

type failingPool struct{ err error }

func (p failingPool) Conn(context.Context) (*sql.Conn, error) {
	return nil, p.err
}

func TestAcquisitionFailure(t *testing.T) {
	poolErr := errors.New("pool exhausted")
	tmpl := New(failingPool{err: poolErr})

	err := tmpl.Execute(context.Background(), "DELETE FROM t")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionAcquisition)
	assert.ErrorIs(t, err, poolErr)
	assert.Equal(t, KindConnectionAcquisition, KindOf(err))
	assert.Equal(t, "sqltemplate: connection acquisition failed: pool exhausted", err.Error())
}

func TestStatementArgs(t *testing.T) {
	stmt := &Statement{query: "SELECT ?"}

	require.NoError(t, stmt.Set(2, "b"))
	_, err := stmt.values()
	assert.EqualError(t, err, "parameter 1 was not set")

	require.NoError(t, stmt.Set(1, "a"))
	require.NoError(t, stmt.Set(2, "c"))
	args, err := stmt.values()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, args)

	require.NoError(t, stmt.SetNull(3))
	args, err = stmt.values()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c", nil}, args)
	assert.Equal(t, "SELECT ?", stmt.Query())
}

func TestStatementIndexBounds(t *testing.T) {
	stmt := &Statement{}

	assert.EqualError(t, stmt.Set(0, "a"), "parameter index 0 out of range (indexes start at 1)")
	assert.EqualError(t, stmt.Set(MaxParameters+1, "a"), "parameter index 32767 out of range (at most 32766 parameters)")
	assert.EqualError(t, stmt.SetNull(1<<30), "parameter index 1073741824 out of range (at most 32766 parameters)")
	assert.Empty(t, stmt.args)

	require.NoError(t, stmt.Set(MaxParameters, "last"))
	assert.Len(t, stmt.args, MaxParameters)
}

func TestOversizedIndexFailsBinding(t *testing.T) {
	d := &recordingDriver{}
	_, _, tmpl := openRecording(t, d)

	_, err := tmpl.Update(context.Background(), "UPDATE t SET n = ?", func(stmt *Statement) error {
		return stmt.Set(1<<30, 1)
	})
	assert.ErrorIs(t, err, ErrParameterBinding)
	assert.Equal(t, []string{"prepare", "stmt.close", "conn.close"}, d.Events())
}

func TestIsBindingFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"argument count", errors.New("sql: expected 3 arguments, got 2"), true},
		{"argument conversion", errors.New(`sql: converting argument $1 type: unsupported type struct {}, a struct`), true},
		{"driver error mentioning unsupported type", errors.New("unsupported type in column definition"), false},
		{"driver error mentioning conversion", errors.New("constraint failed while converting argument"), false},
		{"constraint", errors.New("UNIQUE constraint failed: users.account"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBindingFailure(tt.err))
		})
	}
}
