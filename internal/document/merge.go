// Package document implements the operations the engine performs on opaque
// resource documents: deep clone, recursive right-hand-precedence merge,
// intrinsic-function helpers and compact inline encoding.
package document

import (
	"github.com/mohae/deepcopy"

	"github.com/mrz1836/flowsynth/internal/domain"
)

// Merge deep-merges override on top of base and returns a new document.
// Neither input is modified.
//
//   - mapping vs mapping: merged recursively
//   - any other pair: the override value wins, sequences included (no concatenation)
//   - keys only in base are kept, keys only in override are added
func Merge(base domain.Document, override map[string]any) domain.Document {
	return domain.Document(mergeMaps(base, override))
}

func mergeMaps(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = CloneValue(v)
	}
	for k, ov := range override {
		if bv, ok := out[k]; ok {
			bm, baseIsMap := AsMap(bv)
			om, overrideIsMap := AsMap(ov)
			if baseIsMap && overrideIsMap {
				out[k] = mergeMaps(bm, om)
				continue
			}
		}
		out[k] = CloneValue(ov)
	}
	return out
}

// AsMap reports whether v is a mapping and returns it as map[string]any.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case domain.Document:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

// AsSlice reports whether v is a sequence and returns it as []any.
func AsSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, str := range s {
			out[i] = str
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of d.
func Clone(d domain.Document) domain.Document {
	if d == nil {
		return nil
	}
	return domain.Document(CloneMap(d))
}

// CloneMap returns a deep copy of m.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp, ok := deepcopy.Copy(m).(map[string]any)
	if !ok {
		return nil
	}
	return cp
}

// CloneValue returns a deep copy of any document value.
func CloneValue(v any) any {
	return deepcopy.Copy(v)
}
