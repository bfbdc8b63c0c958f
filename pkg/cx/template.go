package cx

import (
	"encoding/json"
	"fmt"
	"os"
)

// StyleTemplate is the network-attribute view of a CX style file. Only the
// networkAttributes aspect is read; the visual properties pass through to the
// Writer untouched.
type StyleTemplate struct {
	path  string
	attrs map[string]NetworkAttribute
}

// LoadStyleTemplate reads a CX file and indexes its networkAttributes aspect.
func LoadStyleTemplate(path string) (*StyleTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style template: %w", err)
	}

	// A CX document is a JSON array of single-aspect fragments.
	var fragments []map[string]json.RawMessage
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("parse style template %s: %w", path, err)
	}

	t := &StyleTemplate{
		path:  path,
		attrs: make(map[string]NetworkAttribute),
	}
	for _, fragment := range fragments {
		raw, ok := fragment["networkAttributes"]
		if !ok {
			continue
		}
		var attrs []NetworkAttribute
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return nil, fmt.Errorf("parse networkAttributes in %s: %w", path, err)
		}
		for _, a := range attrs {
			t.attrs[a.Name] = a
		}
	}
	return t, nil
}

// Path returns the file the template was loaded from.
func (t *StyleTemplate) Path() string {
	return t.path
}

// Attribute looks up one network attribute by name.
func (t *StyleTemplate) Attribute(name string) (NetworkAttribute, bool) {
	attr, ok := t.attrs[name]
	return attr, ok
}
