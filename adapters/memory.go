package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brettbedarf/contentpath"
	"github.com/puzpuzpuz/xsync/v4"
)

// Entry is a single row served by a [MemoryProvider]
type Entry struct {
	ID          int64
	DisplayName string
	MimeType    string
	Data        []byte // Inline bytes; takes precedence over File
	File        string // Local path exposed through the data column
}

func (e *Entry) size() int64 {
	if e.Data != nil || e.File == "" {
		return int64(len(e.Data))
	}
	if info, err := os.Stat(e.File); err == nil {
		return info.Size()
	}
	return 0
}

func (e *Entry) row() contentpath.Row {
	row := contentpath.Row{
		contentpath.ColumnID:          e.ID,
		contentpath.ColumnDisplayName: e.DisplayName,
		contentpath.ColumnSize:        e.size(),
		contentpath.ColumnMimeType:    e.MimeType,
	}
	// remote-only content has no data column at all
	if e.File != "" {
		row[contentpath.ColumnData] = e.File
	}
	return row
}

// MemoryProvider serves entries keyed by identifier path. Querying a path that
// has no entry of its own returns every entry beneath it, so a collection such
// as "/external/images/media" can be filtered by row id.
type MemoryProvider struct {
	entries *xsync.Map[string, *Entry]
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{entries: xsync.NewMap[string, *Entry]()}
}

// Put stores e under the path component of uri
func (m *MemoryProvider) Put(uri string, e Entry) {
	m.entries.Store(contentpath.Parse(uri).Path, &e)
}

// Delete removes the entry for uri
func (m *MemoryProvider) Delete(uri string) {
	m.entries.Delete(contentpath.Parse(uri).Path)
}

func (m *MemoryProvider) lookup(uri string) (*Entry, error) {
	e, ok := m.entries.Load(contentpath.Parse(uri).Path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", contentpath.ErrNotFound, uri)
	}
	return e, nil
}

func (m *MemoryProvider) Query(ctx context.Context, uri string, projection []string, filter *contentpath.RowFilter) (contentpath.Cursor, error) {
	p := contentpath.Parse(uri).Path

	var rows []contentpath.Row
	if e, ok := m.entries.Load(p); ok {
		rows = append(rows, e.row())
	} else {
		prefix := strings.TrimRight(p, "/") + "/"
		found := false
		m.entries.Range(func(k string, e *Entry) bool {
			if strings.HasPrefix(k, prefix) {
				found = true
				rows = append(rows, e.row())
			}
			return true
		})
		if !found {
			return nil, fmt.Errorf("%w: %s", contentpath.ErrNotFound, uri)
		}
	}

	if filter != nil {
		matched := rows[:0]
		for _, r := range rows {
			if v, ok := r[filter.Column]; ok && fmt.Sprint(v) == filter.Value {
				matched = append(matched, r)
			}
		}
		rows = matched
	}
	return contentpath.NewSliceCursor(rows, projection), nil
}

func (m *MemoryProvider) Type(ctx context.Context, uri string) (string, error) {
	e, err := m.lookup(uri)
	if err != nil {
		return "", err
	}
	return e.MimeType, nil
}

func (m *MemoryProvider) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	e, err := m.lookup(uri)
	if err != nil {
		return nil, err
	}
	if e.Data == nil && e.File != "" {
		return os.Open(e.File)
	}
	return io.NopCloser(bytes.NewReader(e.Data)), nil
}

var _ contentpath.ContentResolver = (*MemoryProvider)(nil)
