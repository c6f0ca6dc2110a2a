package document

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref is a symbolic reference to another resource.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt is a symbolic reference to an attribute of another resource.
func GetAtt(logicalID, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attribute}}
}

// Join concatenates parts with sep at deploy time.
func Join(sep string, parts ...any) map[string]any {
	return map[string]any{"Fn::Join": []any{sep, parts}}
}

// EncodeInline serializes v as a single-line JSON literal. The output is also
// a valid YAML flow collection, so it can be spliced back into YAML text.
// Map keys are emitted in sorted order, which keeps the result deterministic.
func EncodeInline(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
