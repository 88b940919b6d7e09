package sqltemplate

import "fmt"

// MaxParameters is the highest placeholder index a Statement accepts. It
// matches SQLite's default host parameter limit.
const MaxParameters = 32766

// Statement collects positional parameter values for one prepared
// statement. Indexes are 1-based, matching the placeholder order in the SQL.
type Statement struct {
	query string
	args  []any
	set   []bool
}

// Binder writes parameter values into a statement before it is executed.
type Binder func(stmt *Statement) error

// Args returns a Binder that sets values in order starting at index 1.
func Args(values ...any) Binder {
	return func(stmt *Statement) error {
		for i, v := range values {
			if err := stmt.Set(i+1, v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Query returns the SQL text the statement was prepared from.
func (s *Statement) Query() string {
	return s.query
}

// Set binds value to the placeholder at index. Setting the same index
// twice keeps the last value.
func (s *Statement) Set(index int, value any) error {
	if index < 1 {
		return fmt.Errorf("parameter index %d out of range (indexes start at 1)", index)
	}
	if index > MaxParameters {
		return fmt.Errorf("parameter index %d out of range (at most %d parameters)", index, MaxParameters)
	}
	for len(s.args) < index {
		s.args = append(s.args, nil)
		s.set = append(s.set, false)
	}
	s.args[index-1] = value
	s.set[index-1] = true
	return nil
}

// SetNull binds SQL NULL to the placeholder at index.
func (s *Statement) SetNull(index int) error {
	return s.Set(index, nil)
}

// values returns the bound arguments, failing if any index below the
// highest one set was skipped.
func (s *Statement) values() ([]any, error) {
	for i, ok := range s.set {
		if !ok {
			return nil, fmt.Errorf("parameter %d was not set", i+1)
		}
	}
	return s.args, nil
}
