package contentpath

import (
	"context"
	"io"
)

// Well-known column names
const (
	ColumnData        = "_data"
	ColumnID          = "_id"
	ColumnDisplayName = "_display_name"
	ColumnSize        = "_size"
	ColumnMimeType    = "mime_type"
)

// RowFilter restricts a query to rows whose Column equals Value
type RowFilter struct {
	Column string
	Value  string
}

// Cursor iterates over the rows returned by a query. Callers must always Close it.
type Cursor interface {
	// Next advances to the next row. It must be called before the first row is read.
	Next() bool

	// String returns the value of column in the current row
	String(column string) (string, error)

	// Int64 returns the value of column in the current row
	Int64(column string) (int64, error)

	Close() error
}

// ContentResolver is the host's content query facility.
// Implementations may fail with provider-specific errors; the resolver treats
// any query failure as "no data".
type ContentResolver interface {
	// Query returns the rows of uri restricted to projection (nil = all columns)
	// and the optional filter
	Query(ctx context.Context, uri string, projection []string, filter *RowFilter) (Cursor, error)

	// Type returns the declared MIME type of uri
	Type(ctx context.Context, uri string) (string, error)

	// Open returns a readable stream of the bytes behind uri
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// DocumentDecoder recognizes structured document identifiers and extracts their
// authority-scoped document id (typically "<type>:<value>")
type DocumentDecoder interface {
	IsDocument(id Identifier) bool
	DocumentID(id Identifier) (string, error)
}

// AssetStore opens read-only assets bundled with the application
type AssetStore interface {
	Open(name string) (io.ReadCloser, error)
}

// MimeTable maps a lower-cased extension (without dot) to a MIME type
type MimeTable interface {
	TypeByExtension(ext string) (string, bool)
}
