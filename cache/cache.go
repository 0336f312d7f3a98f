// Package cache manages the application-private directory that receives local
// copies of provider-stored content. Writes are staged in part files so a copy
// only appears under its final name once complete.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/brettbedarf/contentpath/internal/util"
	"github.com/google/uuid"
	"github.com/karrick/godirwalk"
)

const partSuffix = ".part"

// maxNameLen is the file name limit of common filesystems, in bytes
const maxNameLen = 255

// Dir is a cache directory with an optional size limit
type Dir struct {
	root    string
	maxSize int64 // 0 disables Trim
}

// New returns a cache rooted at root. The directory is created lazily.
func New(root string, maxSize int64) *Dir {
	return &Dir{root: root, maxSize: maxSize}
}

func (d *Dir) Root() string {
	return d.root
}

// Path returns the final location of a cache entry named name
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// Create stages a new entry that will be published as name on Commit.
// name must already be sanitized (see [SanitizeName]).
func (d *Dir) Create(name string) (*Part, error) {
	if err := os.MkdirAll(d.root, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	partPath := filepath.Join(d.root, "."+uuid.NewString()+partSuffix)
	f, err := os.OpenFile(partPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create cache entry %s: %w", name, err)
	}
	return &Part{f: f, path: partPath, dest: d.Path(name)}, nil
}

// Part is a staged cache entry. Exactly one of Commit or Abort should be
// called; both close the underlying file.
type Part struct {
	f       *os.File
	path    string
	dest    string
	written int64
	closed  bool
}

func (p *Part) Write(b []byte) (int, error) {
	n, err := p.f.Write(b)
	p.written += int64(n)
	return n, err
}

// Written returns the number of bytes written so far
func (p *Part) Written() int64 {
	return p.written
}

// Dest is the path the entry is published under
func (p *Part) Dest() string {
	return p.dest
}

// Close closes the staged file. It is safe to call more than once.
func (p *Part) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.f.Close()
}

// Commit publishes the staged bytes under the destination name, replacing any
// previous entry, and returns the destination path.
func (p *Part) Commit() (string, error) {
	if err := p.Close(); err != nil {
		os.Remove(p.path) // nolint:errcheck
		return "", fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(p.path, p.dest); err != nil {
		os.Remove(p.path) // nolint:errcheck
		return "", fmt.Errorf("commit cache entry: %w", err)
	}
	return p.dest, nil
}

// Abort discards the staged bytes
func (p *Part) Abort() error {
	closeErr := p.Close()
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, err)
	}
	return closeErr
}

// Entry describes a published cache file
type Entry struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanos
}

// Usage summarizes the published entries of the cache
type Usage struct {
	Files int
	Bytes int64
}

// Entries lists published entries, skipping in-flight part files.
// Subdirectories are never entered: only files Create could have written count.
func (d *Dir) Entries() ([]Entry, error) {
	if _, err := os.Stat(d.root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	err := godirwalk.Walk(d.root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() && filepath.Clean(osPathname) != filepath.Clean(d.root) {
				// only top-level files are entries
				return filepath.SkipDir
			}
			if !de.IsRegular() || isPart(osPathname) {
				return nil
			}
			info, err := os.Lstat(osPathname)
			if err != nil {
				return nil // removed concurrently
			}
			entries = append(entries, Entry{Path: osPathname, Size: info.Size(), ModTime: info.ModTime().UnixNano()})
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("walk cache dir %s: %w", d.root, err)
	}
	return entries, nil
}

// Usage returns the number and total size of published entries
func (d *Dir) Usage() (Usage, error) {
	entries, err := d.Entries()
	if err != nil {
		return Usage{}, err
	}
	var u Usage
	for _, e := range entries {
		u.Files++
		u.Bytes += e.Size
	}
	return u, nil
}

// Trim evicts the oldest published entries until the cache fits its size
// limit. Paths in keep are never evicted. It returns the removed paths.
// A limit of 0 or less disables Trim.
func (d *Dir) Trim(keep ...string) ([]string, error) {
	if d.maxSize <= 0 {
		return nil, nil
	}
	return d.TrimTo(d.maxSize, keep...)
}

// TrimTo is Trim with an explicit limit. A limit of 0 evicts every entry not
// in keep.
func (d *Dir) TrimTo(limit int64, keep ...string) ([]string, error) {
	if limit < 0 {
		return nil, fmt.Errorf("trim cache: negative limit %d", limit)
	}
	logger := util.GetLogger("Cache")

	entries, err := d.Entries()
	if err != nil {
		return nil, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	fits := func() bool { return limit > 0 && total <= limit }
	if fits() {
		return nil, nil
	}

	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[filepath.Clean(k)] = struct{}{}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ModTime < entries[j].ModTime })

	var removed []string
	for _, e := range entries {
		if fits() {
			break
		}
		if _, ok := kept[filepath.Clean(e.Path)]; ok {
			continue
		}
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", e.Path).Msg("Failed to evict cache entry")
			continue
		}
		total -= e.Size
		removed = append(removed, e.Path)
	}
	logger.Debug().Int("evicted", len(removed)).Int64("bytes", total).Int64("limit", limit).Msg("Trimmed cache")
	return removed, nil
}

// SanitizeName reduces a provider-reported display name to a safe file name
// inside the cache. Names that cannot be used fall back to fallback.
func SanitizeName(name, fallback string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = filepath.Base(name)
	switch name {
	case "", ".", "..", "/":
		return fallback
	}
	if strings.HasPrefix(name, ".") && strings.HasSuffix(name, partSuffix) {
		return fallback
	}
	return truncateName(name)
}

// truncateName shortens the stem of name so the whole name fits in
// maxNameLen bytes, keeping the extension and valid UTF-8
func truncateName(name string) string {
	if len(name) <= maxNameLen {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) >= maxNameLen/2 {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	limit := maxNameLen - len(ext)
	for limit > 0 && !utf8.RuneStart(stem[limit]) {
		limit--
	}
	return stem[:limit] + ext
}

func isPart(p string) bool {
	base := filepath.Base(p)
	return strings.HasPrefix(base, ".") && strings.HasSuffix(base, partSuffix)
}
