package resolver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOpenByteStream_Content(t *testing.T) {
	t.Parallel()

	t.Run("opens through content facility", func(t *testing.T) {
		t.Parallel()
		r, content := newTestResolver(t)
		uri := "content://media/external/images/media/1"
		content.On("Open", mock.Anything, uri).Return(mocks.NewTrackingReader([]byte("jpeg bytes")), nil)

		rc, err := r.OpenByteStream(context.Background(), uri)
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", readAll(t, rc))
	})

	t.Run("failure propagates as stream error", func(t *testing.T) {
		t.Parallel()
		r, content := newTestResolver(t)
		uri := "content://media/external/images/media/2"
		cause := errors.New("stale uri")
		content.On("Open", mock.Anything, uri).Return(nil, cause)

		rc, err := r.OpenByteStream(context.Background(), uri)
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentpath.ErrOpenStream)
		assert.ErrorIs(t, err, cause)

		var streamErr *contentpath.StreamError
		require.ErrorAs(t, err, &streamErr)
		assert.Equal(t, uri, streamErr.URI)
	})
}

func TestOpenByteStream_Asset(t *testing.T) {
	t.Parallel()

	assets := &mocks.MockAssetStore{}
	assets.On("Open", "www/img/logo.png").Return(mocks.NewTrackingReader([]byte("png")), nil)
	assets.On("Open", "missing.png").Return(nil, os.ErrNotExist)
	r, content := newTestResolver(t, WithAssetStore(assets))

	rc, err := r.OpenByteStream(context.Background(), "file:///android_asset/www/img/logo.png?v=3")
	require.NoError(t, err)
	assert.Equal(t, "png", readAll(t, rc))

	_, err = r.OpenByteStream(context.Background(), "file:///android_asset/missing.png")
	assert.ErrorIs(t, err, contentpath.ErrOpenStream)
	assert.ErrorIs(t, err, os.ErrNotExist)

	content.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
	assets.AssertExpectations(t)
}

func TestOpenByteStream_FileFallsBackToLocal(t *testing.T) {
	t.Parallel()

	local := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(local, []byte("local bytes"), 0o600))

	tests := []struct {
		desc    string
		uri     string
		tryWith string
	}{
		{"file identifier", "file://" + local, "file://" + local},
		{"file identifier with query", "file://" + local + "?cache=no", "file://" + local},
		{"bare path", local, local},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			r, content := newTestResolver(t)
			content.On("Open", mock.Anything, tt.tryWith).Return(nil, errors.New("not content"))

			rc, err := r.OpenByteStream(context.Background(), tt.uri)
			require.NoError(t, err)
			assert.Equal(t, "local bytes", readAll(t, rc))
			content.AssertExpectations(t)
		})
	}
}

func TestOpenByteStream_FilePrefersContent(t *testing.T) {
	t.Parallel()

	r, content := newTestResolver(t)
	uri := "file:///provider/shaped/name.jpg"
	content.On("Open", mock.Anything, uri).Return(mocks.NewTrackingReader([]byte("from provider")), nil)

	rc, err := r.OpenByteStream(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, "from provider", readAll(t, rc))
}

func TestOpenByteStream_NothingOpens(t *testing.T) {
	t.Parallel()

	r, content := newTestResolver(t)
	missing := filepath.Join(t.TempDir(), "missing.bin")
	content.On("Open", mock.Anything, missing).Return(nil, errors.New("not content"))

	rc, err := r.OpenByteStream(context.Background(), missing)
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, contentpath.ErrOpenStream)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
