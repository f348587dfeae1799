package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultProvider is the provider assumed when a descriptor does not
// name one. Resources under it render without an explicit provider
// marker.
const DefaultProvider = "AWS"

// Descriptor identifies a provisionable resource type by provider,
// service and resource name. It replaces the on-demand synthesized
// base types of dynamic languages with a plain value callers declare
// resources against.
type Descriptor struct {
	// Provider is the resource namespace root, e.g. "AWS" or "Alexa".
	Provider string

	// Service is the service group, e.g. "S3" or "EC2".
	Service string

	// Resource is the resource name within the service, e.g. "Bucket".
	Resource string
}

// AWS returns a descriptor under the default provider.
func AWS(service, resource string) Descriptor {
	return Descriptor{Provider: DefaultProvider, Service: service, Resource: resource}
}

// Kind returns the fully qualified resource type identifier,
// "Provider::Service::Resource". An empty provider falls back to the
// default.
func (d Descriptor) Kind() string {
	provider := d.Provider
	if provider == "" {
		provider = DefaultProvider
	}
	return provider + "::" + d.Service + "::" + d.Resource
}

// Validate checks that the descriptor names all three segments and
// that none of them smuggles in a separator.
func (d Descriptor) Validate() error {
	if d.Service == "" || d.Resource == "" {
		return fmt.Errorf("descriptor %q: service and resource are required", d.Kind())
	}
	for _, segment := range []string{d.Provider, d.Service, d.Resource} {
		if strings.Contains(segment, "::") {
			return fmt.Errorf("descriptor segment %q must not contain '::'", segment)
		}
	}
	return nil
}

// Registry is a static mapping from (provider, service, resource) to
// descriptors, populated at startup. It lets callers look up known
// resource types by name instead of constructing descriptors inline.
type Registry struct {
	// mu protects the descriptor map.
	mu sync.RWMutex

	// descriptors maps the fully qualified kind to its descriptor.
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register adds a descriptor to the registry. Registering the same
// kind twice is an error: the registry is a startup-time catalogue,
// not a mutable cache.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := d.Kind()
	if _, exists := r.descriptors[kind]; exists {
		return fmt.Errorf("descriptor %q already registered", kind)
	}
	r.descriptors[kind] = d
	return nil
}

// Lookup returns the descriptor registered for the given provider,
// service and resource. An empty provider means the default provider.
func (r *Registry) Lookup(provider, service, resource string) (Descriptor, bool) {
	if provider == "" {
		provider = DefaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[Descriptor{Provider: provider, Service: service, Resource: resource}.Kind()]
	return d, ok
}

// List returns all registered descriptors ordered by kind.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind() < out[j].Kind() })
	return out
}
