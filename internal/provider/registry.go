package provider

import (
	"fmt"
	"sort"
	"sync"

	"content_metrics/internal/domain"
)

// Registry maps platform tags to adapters. New platforms are added with
// Register; dispatch never changes.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the adapter for a.Platform().
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[domain.NormalizePlatform(a.Platform())] = a
}

// Lookup returns the adapter for platform or an UnsupportedPlatform FetchError.
func (r *Registry) Lookup(platform string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[domain.NormalizePlatform(platform)]
	if !ok {
		return nil, domain.NewFetchError(domain.UnsupportedPlatform, platform, "",
			fmt.Errorf("no adapter registered for %q", platform))
	}
	return a, nil
}

// Platforms returns the registered platform tags in sorted order.
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.adapters))
	for p := range r.adapters {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}
