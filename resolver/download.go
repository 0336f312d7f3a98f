package resolver

import (
	"context"
	"io"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/cache"
	"github.com/brettbedarf/contentpath/config"
	"github.com/brettbedarf/contentpath/internal/util"
)

// DownloadAndCache copies the bytes behind raw into the cache directory and
// returns the copy's path. It is used for providers that store content
// remotely and expose no local path.
//
// If the source cannot be opened, or the copy fails, raw is returned
// unresolved. A failed copy leaves nothing in the cache unless KeepPartial
// is configured, in which case the truncated bytes are published under the
// destination name.
//
// Concurrent calls for the same identifier share one transfer. The shared
// transfer keeps ctx's values but not its cancellation, so one caller giving
// up never fails the others.
func (r *Resolver) DownloadAndCache(ctx context.Context, raw string) contentpath.Resolution {
	shared := context.WithoutCancel(ctx)
	v, _, _ := r.downloads.Do(raw, func() (any, error) {
		return r.download(shared, raw), nil
	})
	return v.(contentpath.Resolution)
}

func (r *Resolver) download(ctx context.Context, raw string) contentpath.Resolution {
	logger := util.GetLogger("DownloadAndCache").With().Str("uri", raw).Logger()
	provider := r.Classify(raw)

	name, size := r.displayMetadata(ctx, raw)
	logger.Debug().Str("name", name).Int64("size", size).Msg("Downloading into cache")

	in, err := r.content.Open(ctx, raw)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open source; passing identifier through")
		return contentpath.Unresolved(raw, provider)
	}
	defer func() {
		if err := in.Close(); err != nil {
			logger.Debug().Err(err).Msg("Failed to close source")
		}
	}()

	part, err := r.cache.Create(name)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create cache entry")
		return contentpath.Unresolved(raw, provider)
	}

	bufSize := r.cfg.CopyBufferSize
	if bufSize <= 0 {
		bufSize = config.DefaultCopyBufferSize
	}
	n, copyErr := io.CopyBuffer(part, in, make([]byte, bufSize))
	if copyErr != nil {
		logger.Error().Err(copyErr).Int64("copied", n).Msg("Copy failed")
		r.discard(part, logger)
		return contentpath.Unresolved(raw, provider)
	}

	dest, err := part.Commit()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to publish cache entry")
		return contentpath.Unresolved(raw, provider)
	}
	if size >= 0 && n != size {
		logger.Warn().Int64("copied", n).Int64("reported", size).Msg("Copied size differs from reported size")
	}
	logger.Debug().Str("path", dest).Int64("bytes", n).Msg("Download complete")

	if _, err := r.cache.Trim(dest); err != nil {
		logger.Warn().Err(err).Msg("Failed to trim cache")
	}
	return contentpath.Resolved(raw, dest, contentpath.StrategyDownload, provider)
}

// discard drops or, with KeepPartial, publishes a failed transfer
func (r *Resolver) discard(part *cache.Part, logger util.Logger) {
	if r.cfg.KeepPartial {
		if dest, err := part.Commit(); err != nil {
			logger.Warn().Err(err).Msg("Failed to keep partial copy")
		} else {
			logger.Warn().Str("path", dest).Msg("Kept partial copy")
		}
		return
	}
	if err := part.Abort(); err != nil {
		logger.Warn().Err(err).Msg("Failed to remove partial copy")
	}
}

// displayMetadata returns the sanitized cache name and the reported size of
// raw. The lookup is best effort: the size is -1 when unknown.
func (r *Resolver) displayMetadata(ctx context.Context, raw string) (string, int64) {
	logger := util.GetLogger("DownloadAndCache")
	name, size := "", int64(-1)

	cur, err := r.content.Query(ctx, raw, []string{contentpath.ColumnDisplayName, contentpath.ColumnSize}, nil)
	if err != nil || cur == nil {
		logger.Debug().Err(err).Str("uri", raw).Msg("No display metadata")
		return cache.SanitizeName("", r.fallbackName()), size
	}
	defer cur.Close() // nolint:errcheck

	if cur.Next() {
		if v, err := cur.String(contentpath.ColumnDisplayName); err == nil {
			name = v
		}
		if v, err := cur.Int64(contentpath.ColumnSize); err == nil {
			size = v
		}
	}
	return cache.SanitizeName(name, r.fallbackName()), size
}

func (r *Resolver) fallbackName() string {
	if r.cfg.FallbackName == "" {
		return config.DefaultFallbackName
	}
	return r.cfg.FallbackName
}
