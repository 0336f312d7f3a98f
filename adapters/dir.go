package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/mimetable"
)

// DirProvider exposes a local directory tree as content. Every row carries a
// data column pointing at the backing file, which is what lets identifiers
// under its authority resolve to real paths.
type DirProvider struct {
	root  string
	mimes contentpath.MimeTable
}

// NewDirProvider serves files under root. mimes defaults to [mimetable.Default].
func NewDirProvider(root string, mimes contentpath.MimeTable) *DirProvider {
	if mimes == nil {
		mimes = mimetable.Default
	}
	return &DirProvider{root: filepath.Clean(root), mimes: mimes}
}

// local maps the identifier path into root; ".." can never climb out of it
func (d *DirProvider) local(uri string) string {
	rel := filepath.Clean("/" + contentpath.Parse(uri).Path)
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

func (d *DirProvider) stat(uri string) (string, os.FileInfo, error) {
	p := d.local(uri)
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: %s", contentpath.ErrNotFound, uri)
		}
		return "", nil, err
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", contentpath.ErrNotFound, uri)
	}
	return p, info, nil
}

func (d *DirProvider) typeOf(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if mt, ok := d.mimes.TypeByExtension(ext); ok {
		return mt
	}
	return "application/octet-stream"
}

func (d *DirProvider) Query(ctx context.Context, uri string, projection []string, filter *contentpath.RowFilter) (contentpath.Cursor, error) {
	p, info, err := d.stat(uri)
	if err != nil {
		return nil, err
	}
	row := contentpath.Row{
		contentpath.ColumnData:        p,
		contentpath.ColumnDisplayName: info.Name(),
		contentpath.ColumnSize:        info.Size(),
		contentpath.ColumnMimeType:    d.typeOf(info.Name()),
	}
	rows := []contentpath.Row{row}
	if filter != nil {
		if v, ok := row[filter.Column]; !ok || fmt.Sprint(v) != filter.Value {
			rows = nil
		}
	}
	return contentpath.NewSliceCursor(rows, projection), nil
}

func (d *DirProvider) Type(ctx context.Context, uri string) (string, error) {
	_, info, err := d.stat(uri)
	if err != nil {
		return "", err
	}
	return d.typeOf(info.Name()), nil
}

func (d *DirProvider) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	p, _, err := d.stat(uri)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

var _ contentpath.ContentResolver = (*DirProvider)(nil)
