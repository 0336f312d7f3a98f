package contentpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri   string
		docID string
		isDoc bool
	}{
		{ContentPrefix + ExternalStorageAuthority + "/document/primary%3ADCIM%2Fa.jpg", "primary:DCIM/a.jpg", true},
		{ContentPrefix + ExternalStorageAuthority + "/tree/primary%3ADCIM/document/primary%3ADCIM%2Fb.jpg", "primary:DCIM/b.jpg", true},
		{ContentPrefix + MediaAuthority + "/document/image%3A42", "image:42", true},
		{ContentPrefix + MediaAuthority + "/root/image%3A42", "", false},
		{"content://com.example.files/document/abc", "", false},
		{"file:///document/abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			id := Parse(tt.uri)
			assert.Equal(t, tt.isDoc, PathDocuments{}.IsDocument(id))
			got, err := PathDocuments{}.DocumentID(id)
			if !tt.isDoc {
				assert.ErrorIs(t, err, ErrNotDocument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.docID, got)
		})
	}
}
