// Package resolver turns content identifiers into local paths, MIME types and
// byte streams using the host's content facilities.
package resolver

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/cache"
	"github.com/brettbedarf/contentpath/config"
	"github.com/brettbedarf/contentpath/internal/util"
	"github.com/brettbedarf/contentpath/mimetable"
	"golang.org/x/sync/singleflight"
)

// Resolver resolves identifiers against injected host collaborators.
// It keeps no per-identifier state and is safe for concurrent use.
type Resolver struct {
	cfg       *config.Config
	content   contentpath.ContentResolver
	docs      contentpath.DocumentDecoder
	assets    contentpath.AssetStore
	mimes     contentpath.MimeTable
	cache     *cache.Dir
	downloads singleflight.Group
}

// Option configures a Resolver
type Option func(*Resolver)

func WithContentResolver(c contentpath.ContentResolver) Option {
	return func(r *Resolver) { r.content = c }
}

func WithDocumentDecoder(d contentpath.DocumentDecoder) Option {
	return func(r *Resolver) { r.docs = d }
}

func WithAssetStore(a contentpath.AssetStore) Option {
	return func(r *Resolver) { r.assets = a }
}

func WithMimeTable(m contentpath.MimeTable) Option {
	return func(r *Resolver) { r.mimes = m }
}

// WithCache overrides the cache built from the config's CacheDir and CacheMaxSize
func WithCache(c *cache.Dir) Option {
	return func(r *Resolver) { r.cache = c }
}

// New creates a Resolver. A nil cfg uses the defaults. Collaborators that are
// not supplied fail every call, except the document decoder and MIME table
// which default to [contentpath.PathDocuments] and [mimetable.Default].
func New(cfg *config.Config, opts ...Option) *Resolver {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	r := &Resolver{
		cfg:     cfg,
		content: unavailable{},
		docs:    contentpath.PathDocuments{},
		assets:  noAssets{},
		mimes:   mimetable.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.New(cfg.CacheDir, cfg.CacheMaxSize)
	}
	return r
}

// Cache returns the cache downloads are written to
func (r *Resolver) Cache() *cache.Dir {
	return r.cache
}

// Classify returns the provider classification of raw's authority
func (r *Resolver) Classify(raw string) contentpath.Provider {
	return contentpath.Classify(contentpath.Parse(raw))
}

// RealPath resolves raw and returns the path, or raw itself when no path could
// be derived. Callers must be prepared for a value that is not a filesystem path.
func (r *Resolver) RealPath(ctx context.Context, raw string) string {
	return r.ResolveRealPath(ctx, raw).String()
}

// ResolveRealPath runs the resolution decision tree for raw. The first
// matching branch wins:
//  1. document identifiers, by provider classification
//  2. other content identifiers (remote gallery reference or data column)
//  3. file identifiers (path component)
//
// Anything else is returned unresolved.
func (r *Resolver) ResolveRealPath(ctx context.Context, raw string) contentpath.Resolution {
	logger := util.GetLogger("Resolver")

	id := contentpath.Parse(raw)
	provider := contentpath.Classify(id)

	var res contentpath.Resolution
	switch {
	case r.docs.IsDocument(id):
		res = r.resolveDocument(ctx, id, provider)

	case id.IsContent():
		if provider == contentpath.GooglePhotos {
			if seg := id.LastPathSegment(); seg != "" {
				res = contentpath.Resolved(raw, seg, contentpath.StrategyRemoteReference, provider)
			}
			break
		}
		if p, ok := r.DataColumnLookup(ctx, raw, nil); ok {
			res = contentpath.Resolved(raw, p, contentpath.StrategyDataColumn, provider)
		}

	case id.IsFile():
		if id.Path != "" {
			res = contentpath.Resolved(raw, id.Path, contentpath.StrategyFile, provider)
		}
	}

	if !res.Resolved {
		logger.Debug().Str("uri", raw).Stringer("provider", provider).Msg("No path derived; passing identifier through")
		return contentpath.Unresolved(raw, provider)
	}
	logger.Debug().Str("uri", raw).Str("path", res.Path).Str("strategy", string(res.Strategy)).Msg("Resolved identifier")
	return res
}

func (r *Resolver) resolveDocument(ctx context.Context, id contentpath.Identifier, provider contentpath.Provider) contentpath.Resolution {
	logger := util.GetLogger("Resolver")
	raw := id.Raw

	docID, err := r.docs.DocumentID(id)
	if err != nil {
		logger.Debug().Err(err).Str("uri", raw).Msg("Failed to decode document id")
		return contentpath.Unresolved(raw, provider)
	}

	switch provider {
	case contentpath.ExternalStorage:
		typ, rel, ok := strings.Cut(docID, ":")
		if ok && strings.EqualFold(typ, "primary") {
			root := strings.TrimRight(r.cfg.ExternalStorageRoot, "/")
			return contentpath.Resolved(raw, root+"/"+rel, contentpath.StrategyExternalStorage, provider)
		}
		// TODO: resolve secondary volumes (e.g. "1234-5678:DCIM") once a volume table is injectable
		logger.Debug().Str("uri", raw).Str("volume", typ).Msg("Unhandled storage volume")

	case contentpath.Downloads:
		n, err := strconv.ParseInt(docID, 10, 64)
		if err != nil {
			logger.Debug().Str("uri", raw).Str("docId", docID).Msg("Non-numeric downloads document id")
			break
		}
		uri := contentpath.WithAppendedID(contentpath.PublicDownloads, n)
		if p, ok := r.DataColumnLookup(ctx, uri, nil); ok {
			return contentpath.Resolved(raw, p, contentpath.StrategyDataColumn, provider)
		}

	case contentpath.Media:
		typ, rowID, _ := strings.Cut(docID, ":")
		collection, ok := contentpath.MediaKind(typ).Collection()
		if !ok {
			logger.Debug().Str("uri", raw).Str("type", typ).Msg("Unknown media type")
			break
		}
		filter := &contentpath.RowFilter{Column: contentpath.ColumnID, Value: rowID}
		if p, ok := r.DataColumnLookup(ctx, collection, filter); ok {
			return contentpath.Resolved(raw, p, contentpath.StrategyDataColumn, provider)
		}

	case contentpath.DriveStorage:
		return r.DownloadAndCache(ctx, raw)
	}

	return contentpath.Unresolved(raw, provider)
}

// DataColumnLookup queries uri for the data column, which legacy providers
// fill with a direct filesystem path, and returns the first row's value.
// Query failures, empty results and missing or empty columns all report false.
func (r *Resolver) DataColumnLookup(ctx context.Context, uri string, filter *contentpath.RowFilter) (string, bool) {
	logger := util.GetLogger("DataColumnLookup")

	cur, err := r.content.Query(ctx, uri, []string{contentpath.ColumnData}, filter)
	if err != nil {
		logger.Debug().Err(err).Str("uri", uri).Msg("Query failed")
		return "", false
	}
	if cur == nil {
		return "", false
	}
	defer func() {
		if err := cur.Close(); err != nil {
			logger.Debug().Err(err).Str("uri", uri).Msg("Failed to close cursor")
		}
	}()

	if !cur.Next() {
		return "", false
	}
	p, err := cur.String(contentpath.ColumnData)
	if err != nil {
		logger.Debug().Err(err).Str("uri", uri).Msg("Data column unavailable")
		return "", false
	}
	return p, p != ""
}

// StripFileProtocol removes a leading "file://" from s, if present.
func StripFileProtocol(s string) string {
	return strings.TrimPrefix(s, contentpath.FilePrefix)
}

// unavailable stands in for host facilities that were not supplied
type unavailable struct{}

var errUnavailable = errors.New("host facility not configured")

func (unavailable) Query(context.Context, string, []string, *contentpath.RowFilter) (contentpath.Cursor, error) {
	return nil, errUnavailable
}

func (unavailable) Type(context.Context, string) (string, error) {
	return "", errUnavailable
}

func (unavailable) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return nil, errUnavailable
}

type noAssets struct{}

func (noAssets) Open(string) (io.ReadCloser, error) {
	return nil, errUnavailable
}
