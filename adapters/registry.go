package adapters

import (
	"fmt"

	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/config"
	"github.com/puzpuzpuz/xsync/v4"
)

// Factory builds a content provider from its declaration
type Factory func(spec config.ProviderSpec) (contentpath.ContentResolver, error)

// Registry ties a provider "type" key to the factory that builds it.
// Every expected provider type should be registered before specs are built.
type Registry struct {
	factories *xsync.Map[string, Factory]
}

func NewRegistry() *Registry {
	return &Registry{factories: xsync.NewMap[string, Factory]()}
}

// Register adds a factory for providerType. The first registration wins.
func (r *Registry) Register(providerType string, f Factory) {
	r.factories.LoadOrStore(providerType, f)
}

// GetFactory returns the factory registered for providerType
func (r *Registry) GetFactory(providerType string) (Factory, error) {
	f, ok := r.factories.Load(providerType)
	if !ok {
		return nil, fmt.Errorf("no factory for %q", providerType)
	}
	return f, nil
}

// NewProvider picks the right factory based on spec.Type
func (r *Registry) NewProvider(spec config.ProviderSpec) (contentpath.ContentResolver, error) {
	f, err := r.GetFactory(spec.Type)
	if err != nil {
		return nil, err
	}
	return f(spec)
}
