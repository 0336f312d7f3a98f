package adapters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/brettbedarf/contentpath"
)

// DirAssets serves the application asset bundle from a local directory
type DirAssets struct {
	Root string
}

func (a DirAssets) Open(name string) (io.ReadCloser, error) {
	if a.Root == "" {
		return nil, fmt.Errorf("asset %s: no asset directory configured: %w", name, os.ErrNotExist)
	}
	rel := filepath.Clean("/" + name)
	return os.Open(filepath.Join(a.Root, filepath.FromSlash(rel)))
}

var _ contentpath.AssetStore = DirAssets{}
