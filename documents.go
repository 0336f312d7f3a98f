package contentpath

import (
	"fmt"
)

// PathDocuments decodes document identifiers of the form
//
//	content://<authority>/document/<docId>
//	content://<authority>/tree/<treeId>/document/<docId>
//
// which is how document providers encode their references. Only authorities
// with a known [Provider] are treated as document providers; any other
// authority using the same path shape is ordinary content.
type PathDocuments struct{}

func (PathDocuments) IsDocument(id Identifier) bool {
	_, err := PathDocuments{}.DocumentID(id)
	return err == nil
}

func (PathDocuments) DocumentID(id Identifier) (string, error) {
	if !id.IsContent() || Classify(id) == Unknown {
		return "", ErrNotDocument
	}
	segs := id.Segments()
	switch {
	case len(segs) == 2 && segs[0] == "document":
		return segs[1], nil
	case len(segs) == 4 && segs[0] == "tree" && segs[2] == "document":
		return segs[3], nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotDocument, id.Raw)
}

var _ DocumentDecoder = PathDocuments{}
