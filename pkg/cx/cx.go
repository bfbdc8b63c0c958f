// Package cx defines the hand-off surface to the external CX tooling: the
// streaming TSV-to-CX writer, the optional layout engine, and the network
// attributes assembled from the style template. CX serialization itself lives
// behind the Writer interface and is not implemented here.
package cx

import (
	"context"
	"io"
)

// NetworkAttribute is one network-level name/value pair in CX notation.
type NetworkAttribute struct {
	Name     string `json:"n"`
	Value    any    `json:"v"`
	DataType string `json:"d,omitempty"`
}

// Writer converts the loader's tab-separated network table into a CX stream,
// applying a load plan and a visual style template supplied at construction.
// Implementations report the node and edge counts they emitted.
type Writer interface {
	WriteNetwork(tsv io.Reader, out io.Writer, attributes []NetworkAttribute) (nodes, edges int, err error)
}

// LayoutEngine recomputes node coordinates for a generated CX file in place.
type LayoutEngine interface {
	Apply(ctx context.Context, cxPath string) error
}

// NetworkAttributes assembles the attribute list attached to every uploaded
// network: fixed attributes from the loader plus descriptive ones carried over
// from the style template.
func NetworkAttributes(template *StyleTemplate, networkName, stringVersion, iconURL string) []NetworkAttribute {
	attrs := []NetworkAttribute{
		{Name: "name", Value: networkName},
	}

	for _, carried := range []string{"description", "rights", "rightsHolder", "organism", "reference"} {
		if attr, ok := template.Attribute(carried); ok {
			attrs = append(attrs, attr)
		}
	}

	attrs = append(attrs,
		NetworkAttribute{Name: "version", Value: stringVersion},
		NetworkAttribute{Name: "networkType", Value: []string{"interactome", "ppi"}, DataType: "list_of_string"},
		NetworkAttribute{Name: "__iconurl", Value: iconURL},
	)
	return attrs
}
