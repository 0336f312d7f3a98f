package mocks

import (
	"context"
	"io"

	"github.com/brettbedarf/contentpath"
	"github.com/stretchr/testify/mock"
)

// MockContentResolver implements contentpath.ContentResolver for testing across packages
type MockContentResolver struct {
	mock.Mock
}

func (m *MockContentResolver) Query(ctx context.Context, uri string, projection []string, filter *contentpath.RowFilter) (contentpath.Cursor, error) {
	args := m.Called(ctx, uri, projection, filter)

	// Handle function return types (for fresh cursors per call)
	if fn, ok := args.Get(0).(func() contentpath.Cursor); ok {
		return fn(), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contentpath.Cursor), args.Error(1)
}

func (m *MockContentResolver) Type(ctx context.Context, uri string) (string, error) {
	args := m.Called(ctx, uri)
	return args.String(0), args.Error(1)
}

func (m *MockContentResolver) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	args := m.Called(ctx, uri)

	if fn, ok := args.Get(0).(func() io.ReadCloser); ok {
		return fn(), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

var _ contentpath.ContentResolver = (*MockContentResolver)(nil)

// MockAssetStore implements contentpath.AssetStore for testing across packages
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Open(name string) (io.ReadCloser, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

var _ contentpath.AssetStore = (*MockAssetStore)(nil)

// TrackingReader is an io.ReadCloser over data that records Close calls and
// can fail after a number of bytes
type TrackingReader struct {
	Data      []byte
	FailAfter int   // fail once this many bytes were read; < 0 never fails
	Err       error // error returned on failure
	Closed    bool

	pos int
}

func NewTrackingReader(data []byte) *TrackingReader {
	return &TrackingReader{Data: data, FailAfter: -1}
}

func (r *TrackingReader) Read(p []byte) (int, error) {
	if r.FailAfter >= 0 && r.pos >= r.FailAfter {
		return 0, r.Err
	}
	if r.pos >= len(r.Data) {
		return 0, io.EOF
	}
	end := len(r.Data)
	if r.FailAfter >= 0 {
		end = min(end, r.FailAfter)
	}
	n := copy(p, r.Data[r.pos:end])
	r.pos += n
	return n, nil
}

func (r *TrackingReader) Close() error {
	r.Closed = true
	return nil
}
