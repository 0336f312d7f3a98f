package contentpath

// Provider classifies the owner of a content identifier. It drives which
// resolution strategy applies and is always recomputed from the authority.
type Provider int

const (
	Unknown Provider = iota
	ExternalStorage
	Downloads
	Media
	GooglePhotos
	DriveStorage
)

// Known provider authorities
const (
	ExternalStorageAuthority = "com.android.externalstorage.documents"
	DownloadsAuthority       = "com.android.providers.downloads.documents"
	MediaAuthority           = "com.android.providers.media.documents"
	GooglePhotosAuthority    = "com.google.android.apps.photos.content"
	DriveStorageAuthority    = "com.google.android.apps.docs.storage"
)

var authorities = map[string]Provider{
	ExternalStorageAuthority: ExternalStorage,
	DownloadsAuthority:       Downloads,
	MediaAuthority:           Media,
	GooglePhotosAuthority:    GooglePhotos,
	DriveStorageAuthority:    DriveStorage,
}

// ClassifyAuthority maps an authority to its Provider. Unmatched authorities
// are Unknown.
func ClassifyAuthority(authority string) Provider {
	if p, ok := authorities[authority]; ok {
		return p
	}
	return Unknown
}

// Classify maps an identifier to its Provider
func Classify(id Identifier) Provider {
	return ClassifyAuthority(id.Authority)
}

// Authority returns the well-known authority for p, or "" for Unknown.
func (p Provider) Authority() string {
	for a, v := range authorities {
		if v == p {
			return a
		}
	}
	return ""
}

func (p Provider) String() string {
	switch p {
	case ExternalStorage:
		return "external_storage"
	case Downloads:
		return "downloads"
	case Media:
		return "media"
	case GooglePhotos:
		return "google_photos"
	case DriveStorage:
		return "drive_storage"
	default:
		return "unknown"
	}
}

// MediaKind is the collection a media document belongs to
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// Media collection identifiers on external storage
const (
	ImagesCollection = "content://media/external/images/media"
	VideoCollection  = "content://media/external/video/media"
	AudioCollection  = "content://media/external/audio/media"

	// PublicDownloads is the collection downloads document ids are appended to
	PublicDownloads = "content://downloads/public_downloads"
)

// Collection returns the media collection for kind, or false if kind is not
// a known media type.
func (k MediaKind) Collection() (string, bool) {
	switch k {
	case MediaImage:
		return ImagesCollection, true
	case MediaVideo:
		return VideoCollection, true
	case MediaAudio:
		return AudioCollection, true
	}
	return "", false
}
