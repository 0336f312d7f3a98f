package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPart_Commit(t *testing.T) {
	t.Parallel()

	d := New(filepath.Join(t.TempDir(), "cache"), 0)
	part, err := d.Create("video.mp4")
	require.NoError(t, err)

	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, part.Written())

	_, err = os.Stat(d.Path("video.mp4"))
	assert.True(t, os.IsNotExist(err), "entry must not be visible before commit")

	dest, err := part.Commit()
	require.NoError(t, err)
	assert.Equal(t, d.Path("video.mp4"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	names, err := os.ReadDir(d.Root())
	require.NoError(t, err)
	assert.Len(t, names, 1, "part file must be gone after commit")
}

func TestPart_CommitReplacesExisting(t *testing.T) {
	t.Parallel()

	d := New(t.TempDir(), 0)
	require.NoError(t, os.WriteFile(d.Path("a.txt"), []byte("old contents"), 0o600))

	part, err := d.Create("a.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("new"))
	require.NoError(t, err)
	_, err = part.Commit()
	require.NoError(t, err)

	data, err := os.ReadFile(d.Path("a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestPart_Abort(t *testing.T) {
	t.Parallel()

	d := New(t.TempDir(), 0)
	part, err := d.Create("a.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte("partial"))
	require.NoError(t, err)

	require.NoError(t, part.Abort())
	require.NoError(t, part.Abort(), "abort must be idempotent")

	names, err := os.ReadDir(d.Root())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDir_Usage(t *testing.T) {
	t.Parallel()

	t.Run("missing dir", func(t *testing.T) {
		t.Parallel()
		d := New(filepath.Join(t.TempDir(), "nope"), 0)
		u, err := d.Usage()
		require.NoError(t, err)
		assert.Equal(t, Usage{}, u)
	})

	t.Run("ignores part files", func(t *testing.T) {
		t.Parallel()
		d := New(t.TempDir(), 0)
		require.NoError(t, os.WriteFile(d.Path("a"), make([]byte, 10), 0o600))
		require.NoError(t, os.WriteFile(d.Path("b"), make([]byte, 5), 0o600))
		part, err := d.Create("c")
		require.NoError(t, err)
		_, err = part.Write(make([]byte, 100))
		require.NoError(t, err)
		defer part.Abort() // nolint:errcheck

		u, err := d.Usage()
		require.NoError(t, err)
		assert.Equal(t, Usage{Files: 2, Bytes: 15}, u)
	})
}

func TestDir_Trim(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T, max int64) *Dir {
		d := New(t.TempDir(), max)
		base := time.Now().Add(-time.Hour)
		for i, name := range []string{"oldest", "middle", "newest"} {
			p := d.Path(name)
			require.NoError(t, os.WriteFile(p, make([]byte, 10), 0o600))
			mt := base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, os.Chtimes(p, mt, mt))
		}
		return d
	}

	t.Run("evicts oldest first", func(t *testing.T) {
		t.Parallel()
		d := setup(t, 20)

		removed, err := d.Trim()
		require.NoError(t, err)
		assert.Equal(t, []string{d.Path("oldest")}, removed)
		assert.FileExists(t, d.Path("middle"))
		assert.FileExists(t, d.Path("newest"))
	})

	t.Run("never evicts kept paths", func(t *testing.T) {
		t.Parallel()
		d := setup(t, 10)

		removed, err := d.Trim(d.Path("oldest"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{d.Path("middle"), d.Path("newest")}, removed)
		assert.FileExists(t, d.Path("oldest"))
	})

	t.Run("under limit is a no-op", func(t *testing.T) {
		t.Parallel()
		d := setup(t, 100)

		removed, err := d.Trim()
		require.NoError(t, err)
		assert.Empty(t, removed)
	})

	t.Run("zero limit disables trimming", func(t *testing.T) {
		t.Parallel()
		d := setup(t, 0)

		removed, err := d.Trim()
		require.NoError(t, err)
		assert.Empty(t, removed)
	})
}

func TestDir_TrimTo(t *testing.T) {
	t.Parallel()

	t.Run("zero limit evicts everything not kept", func(t *testing.T) {
		t.Parallel()
		d := New(t.TempDir(), 0)
		for _, name := range []string{"a", "b", "keep"} {
			require.NoError(t, os.WriteFile(d.Path(name), make([]byte, 5), 0o600))
		}
		require.NoError(t, os.WriteFile(d.Path("empty"), nil, 0o600))

		removed, err := d.TrimTo(0, d.Path("keep"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{d.Path("a"), d.Path("b"), d.Path("empty")}, removed)
		assert.FileExists(t, d.Path("keep"))
	})

	t.Run("negative limit", func(t *testing.T) {
		t.Parallel()
		_, err := New(t.TempDir(), 0).TrimTo(-1)
		assert.Error(t, err)
	})
}

func TestDir_IgnoresSubdirectories(t *testing.T) {
	t.Parallel()

	d := New(t.TempDir(), 1)
	nested := filepath.Join(d.Root(), "shared", "other.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
	require.NoError(t, os.WriteFile(nested, make([]byte, 50), 0o600))
	require.NoError(t, os.WriteFile(d.Path("mine.bin"), make([]byte, 50), 0o600))

	u, err := d.Usage()
	require.NoError(t, err)
	assert.Equal(t, Usage{Files: 1, Bytes: 50}, u)

	removed, err := d.Trim()
	require.NoError(t, err)
	assert.Equal(t, []string{d.Path("mine.bin")}, removed)
	assert.FileExists(t, nested, "files outside the cache's own entries must survive")
}

func TestPart_LongName(t *testing.T) {
	t.Parallel()

	d := New(t.TempDir(), 0)
	name := strings.Repeat("v", 230) + ".mp4"

	part, err := d.Create(name)
	require.NoError(t, err)
	_, err = part.Write([]byte("data"))
	require.NoError(t, err)
	dest, err := part.Commit()
	require.NoError(t, err)
	assert.Equal(t, d.Path(name), dest)
	assert.FileExists(t, dest)
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"video.mp4", "video.mp4"},
		{"  spaced.jpg ", "spaced.jpg"},
		{"../../etc/passwd", "passwd"},
		{`dir\evil.txt`, "evil.txt"},
		{"", "fallback"},
		{".", "fallback"},
		{"..", "fallback"},
		{"/", "fallback"},
		{".x.abc.part", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in, "fallback"))
		})
	}
}

func TestSanitizeName_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizeName(strings.Repeat("a", 300)+".mp4", "fallback")
	assert.Len(t, got, maxNameLen)
	assert.True(t, strings.HasSuffix(got, ".mp4"))

	// multi-byte runes are never split
	got = SanitizeName(strings.Repeat("é", 200)+".jpg", "fallback")
	assert.LessOrEqual(t, len(got), maxNameLen)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}
