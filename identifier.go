// Package contentpath contains the core domain types and collaborator interfaces
// for resolving content identifiers into local paths and byte streams
package contentpath

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Recognized identifier schemes
const (
	SchemeFile    = "file"
	SchemeContent = "content"
)

// Common identifier prefixes
const (
	FilePrefix    = "file://"
	ContentPrefix = "content://"
)

// Identifier is the parsed form of an opaque content identifier string.
// It is immutable and never fails to parse: URIs that are not valid only
// carry Raw and fall through every resolution branch, while bare paths that
// are not valid URIs keep their text as Path.
type Identifier struct {
	Raw       string // Original string exactly as supplied
	Scheme    string // Lower-cased scheme; empty for bare paths
	Authority string // Owning provider, only set for content identifiers
	Path      string // Decoded path component
	RawQuery  string

	escapedPath string
}

// Parse parses raw into an Identifier.
func Parse(raw string) Identifier {
	id := Identifier{Raw: raw}
	u, err := url.Parse(raw)
	if err != nil {
		// bare paths may carry a literal '%'; keep everything before the query
		if !strings.Contains(raw, "://") {
			p, _, _ := strings.Cut(raw, "#")
			p, _, _ = strings.Cut(p, "?")
			id.Path = p
			id.escapedPath = p
		}
		return id
	}
	id.Scheme = strings.ToLower(u.Scheme)
	id.Path = u.Path
	id.escapedPath = u.EscapedPath()
	id.RawQuery = u.RawQuery
	if id.Scheme == SchemeContent {
		id.Authority = u.Host
	}
	if id.Scheme == "" && id.Path == "" {
		// opaque or otherwise odd forms keep the raw string as their path
		id.Path = raw
		id.escapedPath = raw
	}
	return id
}

// IsContent reports whether the identifier uses the content scheme.
func (id Identifier) IsContent() bool {
	return id.Scheme == SchemeContent
}

// IsFile reports whether the identifier uses the file scheme.
func (id Identifier) IsFile() bool {
	return id.Scheme == SchemeFile
}

// Segments returns the non-empty, decoded path segments. Escaped slashes
// inside a segment do not split it.
func (id Identifier) Segments() []string {
	var segs []string
	for _, s := range strings.Split(id.escapedPath, "/") {
		if s == "" {
			continue
		}
		if dec, err := url.PathUnescape(s); err == nil {
			s = dec
		}
		segs = append(segs, s)
	}
	return segs
}

// LastPathSegment returns the final non-empty path segment, or "" if none.
func (id Identifier) LastPathSegment() string {
	segs := id.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// String returns the original string.
func (id Identifier) String() string {
	return id.Raw
}

// ContentURI builds a content identifier for authority and the given path
// segments. Segments are escaped individually.
func ContentURI(authority string, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return ContentPrefix + authority + "/" + path.Join(escaped...)
}

// WithAppendedID appends a numeric row id to a collection identifier
func WithAppendedID(base string, id int64) string {
	return strings.TrimRight(base, "/") + "/" + strconv.FormatInt(id, 10)
}
