package domain

import (
	"maps"
	"slices"
)

// Document is one opaque resource declaration. Values are drawn from a closed
// set: string, bool, numbers, nil, []any and map[string]any. The engine only
// interprets the top-level key naming the document inside a Bundle.
type Document map[string]any

// Bundle maps logical resource names to documents.
type Bundle map[string]Document

// Names returns the bundle's resource names in sorted order.
func (b Bundle) Names() []string {
	return slices.Sorted(maps.Keys(b))
}

// MergeBundles copies every document of src into dst, overwriting documents
// with the same name (last write wins). Name collisions are not reported here;
// uniqueness is enforced upstream by the task registry.
func MergeBundles(dst, src Bundle) Bundle {
	if dst == nil {
		dst = make(Bundle, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
