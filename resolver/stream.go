package resolver

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/internal/util"
)

// AssetPrefix marks identifiers served from the application's bundled assets
const AssetPrefix = "file:///android_asset/"

const assetDir = "/android_asset/"

// OpenByteStream returns a readable stream for raw:
//   - content identifiers are read through the host content facility
//   - asset identifiers are read from the bundled asset store
//   - other file identifiers and bare paths try the content facility first
//     and fall back to opening the resolved path as a local file
//
// Failure to open returns a [*contentpath.StreamError].
func (r *Resolver) OpenByteStream(ctx context.Context, raw string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(raw, contentpath.SchemeContent+":"):
		rc, err := r.content.Open(ctx, raw)
		if err != nil {
			return nil, &contentpath.StreamError{URI: raw, Err: err}
		}
		return rc, nil

	case strings.HasPrefix(raw, contentpath.FilePrefix):
		s, _, _ := strings.Cut(raw, "?")
		if strings.HasPrefix(s, AssetPrefix) {
			name := strings.TrimPrefix(contentpath.Parse(s).Path, assetDir)
			rc, err := r.assets.Open(name)
			if err != nil {
				return nil, &contentpath.StreamError{URI: raw, Err: err}
			}
			return rc, nil
		}
		return r.openContentOrFile(ctx, raw, s)

	default:
		return r.openContentOrFile(ctx, raw, raw)
	}
}

// openContentOrFile tries uri as content first since some providers accept
// file-shaped identifiers, then opens its resolved path locally.
func (r *Resolver) openContentOrFile(ctx context.Context, raw, uri string) (io.ReadCloser, error) {
	logger := util.GetLogger("OpenByteStream")

	rc, contentErr := r.content.Open(ctx, uri)
	if contentErr == nil && rc != nil {
		return rc, nil
	}
	logger.Trace().Err(contentErr).Str("uri", uri).Msg("Not readable as content; opening as file")

	f, err := os.Open(r.RealPath(ctx, uri))
	if err != nil {
		return nil, &contentpath.StreamError{URI: raw, Err: errors.Join(contentErr, err)}
	}
	return f, nil
}
