package metadata

import (
	"bytes"
	"encoding/json"
)

// Well known field names
const (
	FieldPrompt         = "Prompt"
	FieldNegativePrompt = "Negative prompt"
	FieldSteps          = "Steps"
	FieldSeed           = "Seed"
)

// Field is a single name/value pair of a Map
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Map is an ordered mapping of field name to field value.
// Order follows the order fields were parsed in, and keys are unique.
// A Map is built by a parser and is not modified after it has been returned.
type Map struct {
	keys   []string
	values map[string]string
}

// NewMap returns an empty Map
func NewMap() *Map {
	return &Map{
		keys:   make([]string, 0),
		values: make(map[string]string),
	}
}

// set stores value under key. An existing key keeps its position.
func (m *Map) set(key string, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored for key and whether it was present
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value stored for key, or the empty string when missing
func (m *Map) Value(key string) string {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the field names in insertion order
func (m *Map) Keys() []string {
	if m == nil {
		return []string{}
	}
	retv := make([]string, len(m.keys))
	copy(retv, m.keys)
	return retv
}

// Entries returns the fields in insertion order
func (m *Map) Entries() []Field {
	retv := make([]Field, 0, m.Len())
	if m == nil {
		return retv
	}
	for _, k := range m.keys {
		retv = append(retv, Field{Name: k, Value: m.values[k]})
	}
	return retv
}

// Seed returns the "Seed" field, the value the viewer offers to copy
func (m *Map) Seed() (string, bool) {
	return m.Get(FieldSeed)
}

// MarshalJSON writes the map as a JSON object, keeping insertion order
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
