package model

import (
	"encoding/json"
	"fmt"
)

// Record is one persisted entity instance
type Record interface {
	// RecordID returns the server-assigned identifier (0 before creation)
	RecordID() int

	// Label returns the text shown when the record is offered as an option
	Label() string
}

// Fields returns the field name → value view of a record, keyed by JSON name.
// Numbers come back as float64, as encoding/json decodes them.
func Fields(r any) map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// FromValues builds a typed record from a field name → value mapping
func FromValues[T any](values map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(values)
	if err != nil {
		return out, fmt.Errorf("marshal values: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unmarshal values: %w", err)
	}
	return out, nil
}

// DecodeList decodes raw JSON objects into records of type T
func DecodeList[T Record](raw []json.RawMessage) ([]Record, error) {
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Bool returns a pointer to b, for optional flags such as Ativo
func Bool(b bool) *bool {
	return &b
}

// FormatValue renders a field value for table cells and search matching
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "Sim"
		}
		return "Não"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
