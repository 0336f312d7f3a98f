package contentpath

import (
	"fmt"
	"strconv"
)

// Row is a single query result row keyed by column name
type Row map[string]any

// SliceCursor is an in-memory [Cursor] over a fixed set of rows. Providers
// that materialize their results up front return one of these.
type SliceCursor struct {
	rows   []Row
	pos    int
	closed bool
}

// NewSliceCursor returns a cursor over rows, projected to the given columns.
// A nil projection keeps every column.
func NewSliceCursor(rows []Row, projection []string) *SliceCursor {
	if projection == nil {
		return &SliceCursor{rows: rows, pos: -1}
	}
	projected := make([]Row, 0, len(rows))
	for _, r := range rows {
		p := make(Row, len(projection))
		for _, col := range projection {
			if v, ok := r[col]; ok {
				p[col] = v
			}
		}
		projected = append(projected, p)
	}
	return &SliceCursor{rows: projected, pos: -1}
}

func (c *SliceCursor) Next() bool {
	if c.closed || c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *SliceCursor) value(column string) (any, error) {
	if c.closed {
		return nil, ErrCursorClosed
	}
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, ErrNoRows
	}
	v, ok := c.rows[c.pos][column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, column)
	}
	return v, nil
}

func (c *SliceCursor) String(column string) (string, error) {
	v, err := c.value(column)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return fmt.Sprint(t), nil
	}
}

func (c *SliceCursor) Int64(column string) (int64, error) {
	v, err := c.value(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", column, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("column %s: unsupported type %T", column, v)
	}
}

// Closed reports whether Close has been called
func (c *SliceCursor) Closed() bool {
	return c.closed
}

func (c *SliceCursor) Close() error {
	c.closed = true
	return nil
}

var _ Cursor = (*SliceCursor)(nil)
