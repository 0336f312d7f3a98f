package resolver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/config"
	"github.com/brettbedarf/contentpath/internal/mocks"
	"github.com/brettbedarf/contentpath/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const driveURI = "content://com.google.android.apps.docs.storage/document/acc%3D1%3Bdoc%3D42"

var metaProjection = []string{contentpath.ColumnDisplayName, contentpath.ColumnSize}

func newDownloadResolver(t *testing.T, override *config.ConfigOverride) (*Resolver, *mocks.MockContentResolver, string) {
	t.Helper()
	dir := t.TempDir()
	override.CacheDir = util.Pointer(dir)
	override.CopyBufferSize = util.Pointer(4)
	content := &mocks.MockContentResolver{}
	return New(config.NewConfig(override), WithContentResolver(content)), content, dir
}

func metaCursor(name string, size int64) func() contentpath.Cursor {
	return func() contentpath.Cursor {
		return contentpath.NewSliceCursor([]contentpath.Row{{
			contentpath.ColumnDisplayName: name,
			contentpath.ColumnSize:        size,
		}}, nil)
	}
}

func TestDownloadAndCache_Success(t *testing.T) {
	t.Parallel()

	r, content, dir := newDownloadResolver(t, &config.ConfigOverride{})
	data := bytes.Repeat([]byte("0123456789"), 7)
	src := mocks.NewTrackingReader(data)
	content.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor("video.mp4", int64(len(data))), nil)
	content.On("Open", mock.Anything, driveURI).Return(src, nil)

	res := r.ResolveRealPath(context.Background(), driveURI)

	require.True(t, res.Resolved)
	assert.Equal(t, contentpath.StrategyDownload, res.Strategy)
	assert.Equal(t, contentpath.DriveStorage, res.Provider)
	assert.Equal(t, filepath.Join(dir, "video.mp4"), res.Path)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, data, got, "copy must be byte-for-byte")
	assert.True(t, src.Closed, "source must be closed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no part files may remain")
}

func TestDownloadAndCache_CopyFailureRemovesPartial(t *testing.T) {
	t.Parallel()

	r, content, dir := newDownloadResolver(t, &config.ConfigOverride{})
	src := mocks.NewTrackingReader(bytes.Repeat([]byte("x"), 100))
	src.FailAfter = 30
	src.Err = errors.New("connection reset")
	content.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor("video.mp4", 100), nil)
	content.On("Open", mock.Anything, driveURI).Return(src, nil)

	res := r.DownloadAndCache(context.Background(), driveURI)

	assert.False(t, res.Resolved)
	assert.Equal(t, driveURI, res.String())
	assert.True(t, src.Closed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial output must be deleted")
}

func TestDownloadAndCache_CopyFailureKeepsPartial(t *testing.T) {
	t.Parallel()

	r, content, dir := newDownloadResolver(t, &config.ConfigOverride{KeepPartial: util.Pointer(true)})
	src := mocks.NewTrackingReader(bytes.Repeat([]byte("x"), 100))
	src.FailAfter = 30
	src.Err = errors.New("connection reset")
	content.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor("video.mp4", 100), nil)
	content.On("Open", mock.Anything, driveURI).Return(src, nil)

	res := r.DownloadAndCache(context.Background(), driveURI)

	assert.False(t, res.Resolved)
	assert.Equal(t, driveURI, res.String())

	info, err := os.Stat(filepath.Join(dir, "video.mp4"))
	require.NoError(t, err, "partial copy must be kept")
	assert.EqualValues(t, 30, info.Size())
}

func TestDownloadAndCache_OpenFailure(t *testing.T) {
	t.Parallel()

	r, content, dir := newDownloadResolver(t, &config.ConfigOverride{})
	content.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor("video.mp4", 10), nil)
	content.On("Open", mock.Anything, driveURI).Return(nil, errors.New("permission revoked"))

	res := r.ResolveRealPath(context.Background(), driveURI)

	assert.False(t, res.Resolved)
	assert.Equal(t, driveURI, res.String())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadAndCache_FallbackName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc  string
		setup func(c *mocks.MockContentResolver)
	}{
		{"metadata query fails", func(c *mocks.MockContentResolver) {
			c.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
				Return(nil, errors.New("no metadata"))
		}},
		{"no metadata rows", func(c *mocks.MockContentResolver) {
			c.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
				Return(contentpath.NewSliceCursor(nil, nil), nil)
		}},
		{"unsafe display name", func(c *mocks.MockContentResolver) {
			c.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
				Return(metaCursor("..", 3), nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			r, content, dir := newDownloadResolver(t, &config.ConfigOverride{})
			tt.setup(content)
			content.On("Open", mock.Anything, driveURI).Return(mocks.NewTrackingReader([]byte("abc")), nil)

			res := r.DownloadAndCache(context.Background(), driveURI)

			require.True(t, res.Resolved)
			assert.Equal(t, filepath.Join(dir, config.DefaultFallbackName), res.Path)
		})
	}
}

func TestDownloadAndCache_TrimsCache(t *testing.T) {
	t.Parallel()

	r, content, dir := newDownloadResolver(t, &config.ConfigOverride{CacheMaxSize: util.Pointer(int64(15))})
	old := filepath.Join(dir, "old.bin")
	require.NoError(t, os.WriteFile(old, make([]byte, 10), 0o600))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	content.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor("new.bin", 10), nil)
	content.On("Open", mock.Anything, driveURI).Return(mocks.NewTrackingReader(make([]byte, 10)), nil)

	res := r.DownloadAndCache(context.Background(), driveURI)

	require.True(t, res.Resolved)
	assert.FileExists(t, res.Path)
	assert.NoFileExists(t, old, "older entries must be evicted over the limit")
}

func TestDownloadAndCache_IgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	r, content, _ := newDownloadResolver(t, &config.ConfigOverride{})
	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	content.On("Query", live, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor("clip.mp4", 3), nil)
	content.On("Open", live, driveURI).Return(mocks.NewTrackingReader([]byte("abc")), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.DownloadAndCache(ctx, driveURI)

	require.True(t, res.Resolved)
	content.AssertExpectations(t)
}

func TestDownloadAndCache_LongDisplayName(t *testing.T) {
	t.Parallel()

	r, content, dir := newDownloadResolver(t, &config.ConfigOverride{})
	name := strings.Repeat("v", 230) + ".mp4"
	content.On("Query", mock.Anything, driveURI, metaProjection, (*contentpath.RowFilter)(nil)).
		Return(metaCursor(name, 4), nil)
	content.On("Open", mock.Anything, driveURI).Return(mocks.NewTrackingReader([]byte("data")), nil)

	res := r.DownloadAndCache(context.Background(), driveURI)

	require.True(t, res.Resolved)
	assert.Equal(t, filepath.Join(dir, name), res.Path)
	assert.FileExists(t, res.Path)
}
