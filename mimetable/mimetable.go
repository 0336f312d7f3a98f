// Package mimetable provides a static extension to MIME type lookup modeled on
// the table mobile platforms ship with. It does not consult the host's mime.types.
package mimetable

import "strings"

// Table is a static lower-cased extension to MIME type map
type Table map[string]string

// TypeByExtension looks up ext (with or without a leading dot, any case)
func (t Table) TypeByExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "", false
	}
	typ, ok := t[ext]
	return typ, ok
}

// Default is the built-in table
var Default = Table{
	// images
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"heic": "image/heic",
	"heif": "image/heif",
	"ico":  "image/x-icon",
	"jpe":  "image/jpeg",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"dng":  "image/x-adobe-dng",

	// video
	"3g2":  "video/3gpp2",
	"3gp":  "video/3gpp",
	"3gpp": "video/3gpp",
	"avi":  "video/avi",
	"m4v":  "video/mp4",
	"mkv":  "video/x-matroska",
	"mov":  "video/quicktime",
	"mp4":  "video/mp4",
	"mpeg": "video/mpeg",
	"mpg":  "video/mpeg",
	"ts":   "video/mp2ts",
	"webm": "video/webm",
	"wmv":  "video/x-ms-wmv",

	// audio
	"aac":  "audio/aac",
	"amr":  "audio/amr",
	"awb":  "audio/amr-wb",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"mid":  "audio/midi",
	"midi": "audio/midi",
	"mka":  "audio/x-matroska",
	"mp3":  "audio/mpeg",
	"oga":  "audio/ogg",
	"ogg":  "audio/ogg",
	"opus": "audio/ogg",
	"wav":  "audio/x-wav",
	"wma":  "audio/x-ms-wma",

	// documents and text
	"csv":  "text/comma-separated-values",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"htm":  "text/html",
	"html": "text/html",
	"json": "application/json",
	"pdf":  "application/pdf",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"rtf":  "text/rtf",
	"txt":  "text/plain",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xml":  "text/xml",

	// archives
	"apk": "application/vnd.android.package-archive",
	"gz":  "application/gzip",
	"tar": "application/x-tar",
	"zip": "application/zip",
}
