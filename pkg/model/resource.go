package model

import (
	"fmt"
	"unicode"

	"github.com/xiaket/vapor/pkg/fn"
)

// Fields is one layer of declared resource properties. Values are
// plain document data freely mixed with fn expression nodes.
type Fields map[string]any

// Resource is a reusable, immutable resource definition: a descriptor
// plus an ordered list of field layers. Layers added later shadow
// earlier ones key by key, which is how a more specific definition
// overrides its base.
type Resource struct {
	logicalName string
	descriptor  Descriptor
	layers      []Fields
}

// NewResource creates a resource definition. Layers are merged in
// order at render time, last writer wins per field.
func NewResource(logicalName string, descriptor Descriptor, layers ...Fields) *Resource {
	copied := make([]Fields, len(layers))
	copy(copied, layers)
	return &Resource{
		logicalName: logicalName,
		descriptor:  descriptor,
		layers:      copied,
	}
}

// Extend derives a new definition from r under a new logical name,
// with overrides stacked on top of r's existing layers. r itself is
// untouched.
func (r *Resource) Extend(logicalName string, overrides Fields) *Resource {
	layers := make([]Fields, 0, len(r.layers)+1)
	layers = append(layers, r.layers...)
	layers = append(layers, overrides)
	return &Resource{
		logicalName: logicalName,
		descriptor:  r.descriptor,
		layers:      layers,
	}
}

// LogicalName returns the stack-local identifier of the resource.
func (r *Resource) LogicalName() string {
	return r.logicalName
}

// Descriptor returns the resource type descriptor.
func (r *Resource) Descriptor() Descriptor {
	return r.descriptor
}

// Kind returns the fully qualified resource type, derived purely from
// the descriptor: the same definition always yields the same kind
// regardless of its field values.
func (r *Resource) Kind() string {
	return r.descriptor.Kind()
}

// Fields returns the effective field set after merging all layers in
// order. The returned map is a fresh copy.
func (r *Resource) Fields() Fields {
	merged := make(Fields)
	for _, layer := range r.layers {
		for key, value := range layer {
			merged[key] = value
		}
	}
	return merged
}

// Render resolves the effective fields and returns the template
// fragment for the resource:
//
//	{"Type": kind, "Properties": {...}}
//
// A definition with no fields renders an empty Properties object,
// never omits the key. Resources outside the default provider carry
// an extra Meta.provider marker so the originating namespace survives
// a later round-trip through the source generator.
func (r *Resource) Render() (map[string]any, error) {
	if err := r.descriptor.Validate(); err != nil {
		return nil, err
	}

	properties := make(map[string]any)
	for key, value := range r.Fields() {
		if !isFieldName(key) {
			return nil, fmt.Errorf("resource %s: field name %q must begin with an upper-case letter", r.logicalName, key)
		}
		resolved, err := fn.Resolve(value)
		if err != nil {
			return nil, fmt.Errorf("resource %s, field %s: %w", r.logicalName, key, err)
		}
		properties[key] = resolved
	}

	fragment := map[string]any{
		"Type":       r.Kind(),
		"Properties": properties,
	}
	if provider := r.descriptor.Provider; provider != "" && provider != DefaultProvider {
		fragment["Meta"] = map[string]any{"provider": provider}
	}
	return fragment, nil
}

// isFieldName reports whether name is a legal declared field name:
// non-empty and starting with an upper-case letter.
func isFieldName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
