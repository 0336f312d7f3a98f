package adapters

import (
	"fmt"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/config"
)

type BuiltInProviderType = string

const (
	DirProviderType  BuiltInProviderType = "dir"
	HTTPProviderType BuiltInProviderType = "http"
)

// RegisterBuiltins registers all built-in providers by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, providers ...BuiltInProviderType) {
	if len(providers) == 0 {
		providers = append(providers, DirProviderType, HTTPProviderType)
	}

	for _, key := range providers {
		switch key {
		case DirProviderType:
			r.Register(DirProviderType, func(spec config.ProviderSpec) (contentpath.ContentResolver, error) {
				if spec.Root == "" {
					return nil, fmt.Errorf("dir provider %s: root is required", spec.Authority)
				}
				return NewDirProvider(spec.Root, nil), nil
			})
		case HTTPProviderType:
			r.Register(HTTPProviderType, func(spec config.ProviderSpec) (contentpath.ContentResolver, error) {
				return NewHTTPProvider(spec.URL, spec.Headers, nil)
			})
		}
	}
}
