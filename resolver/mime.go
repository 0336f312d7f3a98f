package resolver

import (
	"context"
	"strings"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/internal/util"
)

// 3ga recordings are mislabeled by some providers; they are always 3GPP audio.
const (
	ext3GA      = "3ga"
	mime3GAType = "audio/3gpp"
)

// MimeType returns the MIME type of raw, or "" if unknown. Content identifiers
// ask the host's type facility; everything else is classified by extension.
func (r *Resolver) MimeType(ctx context.Context, raw string) string {
	if strings.HasPrefix(raw, contentpath.ContentPrefix) {
		typ, err := r.content.Type(ctx, raw)
		if err != nil {
			logger := util.GetLogger("MimeType")
			logger.Debug().Err(err).Str("uri", raw).Msg("Type lookup failed")
			return ""
		}
		return typ
	}
	return r.MimeTypeForExtension(contentpath.Parse(raw).Path)
}

// MimeTypeForExtension classifies p by the text after its last dot, or all of
// p when it has none, so both "photo.JPG" and "jpg" are accepted.
func (r *Resolver) MimeTypeForExtension(p string) string {
	ext := p
	if i := strings.LastIndexByte(p, '.'); i >= 0 {
		ext = p[i+1:]
	}
	ext = strings.ToLower(ext)
	if ext == ext3GA {
		return mime3GAType
	}
	typ, _ := r.mimes.TypeByExtension(ext)
	return typ
}
