package adapters

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/brettbedarf/contentpath"
	"github.com/brettbedarf/contentpath/config"
	"github.com/brettbedarf/contentpath/internal/util"
	"github.com/puzpuzpuz/xsync/v4"
)

// Router is a [contentpath.ContentResolver] that dispatches each identifier to
// the provider mounted for its authority. Exact authorities take precedence
// over patterns such as "*.documents"; patterns are tried in mount order.
type Router struct {
	exact *xsync.Map[string, contentpath.ContentResolver]

	mu       sync.RWMutex
	patterns []patternRoute
}

type patternRoute struct {
	pattern  string
	provider contentpath.ContentResolver
}

func NewRouter() *Router {
	return &Router{exact: xsync.NewMap[string, contentpath.ContentResolver]()}
}

// NewRouterFromSpecs builds every declared provider with reg and mounts it
func NewRouterFromSpecs(reg *Registry, specs []config.ProviderSpec) (*Router, error) {
	logger := util.GetLogger("Router")
	r := NewRouter()
	for i, spec := range specs {
		p, err := reg.NewProvider(spec)
		if err != nil {
			return nil, fmt.Errorf("provider %d (%s): %w", i, spec.Authority, err)
		}
		if err := r.Mount(spec.Authority, p); err != nil {
			return nil, err
		}
		logger.Debug().Str("authority", spec.Authority).Str("type", spec.Type).Msg("Mounted provider")
	}
	return r, nil
}

// Mount serves authority (or an authority pattern) with p
func (r *Router) Mount(authority string, p contentpath.ContentResolver) error {
	if authority == "" {
		return fmt.Errorf("mount: empty authority")
	}
	if !isPattern(authority) {
		r.exact.Store(authority, p)
		return nil
	}
	if !doublestar.ValidatePattern(authority) {
		return fmt.Errorf("mount: invalid authority pattern %q", authority)
	}
	r.mu.Lock()
	r.patterns = append(r.patterns, patternRoute{pattern: authority, provider: p})
	r.mu.Unlock()
	return nil
}

// Unmount removes the provider mounted for authority
func (r *Router) Unmount(authority string) {
	if !isPattern(authority) {
		r.exact.Delete(authority)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.patterns[:0]
	for _, pr := range r.patterns {
		if pr.pattern != authority {
			kept = append(kept, pr)
		}
	}
	r.patterns = kept
}

func (r *Router) route(uri string) (contentpath.ContentResolver, error) {
	authority := contentpath.Parse(uri).Authority
	if authority == "" {
		return nil, fmt.Errorf("%w: %q has no authority", contentpath.ErrNoProvider, uri)
	}
	if p, ok := r.exact.Load(authority); ok {
		return p, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pr := range r.patterns {
		if ok, _ := doublestar.Match(pr.pattern, authority); ok {
			return pr.provider, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", contentpath.ErrNoProvider, authority)
}

func (r *Router) Query(ctx context.Context, uri string, projection []string, filter *contentpath.RowFilter) (contentpath.Cursor, error) {
	p, err := r.route(uri)
	if err != nil {
		return nil, err
	}
	return p.Query(ctx, uri, projection, filter)
}

func (r *Router) Type(ctx context.Context, uri string) (string, error) {
	p, err := r.route(uri)
	if err != nil {
		return "", err
	}
	return p.Type(ctx, uri)
}

func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	p, err := r.route(uri)
	if err != nil {
		return nil, err
	}
	return p.Open(ctx, uri)
}

func isPattern(authority string) bool {
	return strings.ContainsAny(authority, "*?[{")
}

var _ contentpath.ContentResolver = (*Router)(nil)
