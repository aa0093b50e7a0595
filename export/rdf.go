// Package export serializes geo-lod graphs to RDF and GeoJSON files.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
)

// ErrUnsupportedFormat is returned for a format name with no serializer.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// ParseFormat resolves a format name or file extension ("ttl", ".nt", ...).
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, info := range FormatRegistry {
		if key == string(info.Name) || key == info.Extension || "."+key == info.Extension {
			return info.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Serialize renders g in the given format.
func Serialize(g *graph.Graph, format Format) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("serialize %s: nil graph", format)
	}
	switch format {
	case FormatTurtle:
		return toTurtle(g), nil
	case FormatNTriples:
		return toNTriples(g)
	case FormatJSONLD:
		return toJSONLD(g)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteGraph serializes g once per format and writes each result to
// dir/<name><ext>. It returns the written paths in format order.
func WriteGraph(dir, name string, g *graph.Graph, formats []Format, mode storage.Mode) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		info, ok := GetFormatInfo(f)
		if !ok {
			return paths, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
		}
		data, err := Serialize(g, f)
		if err != nil {
			return paths, err
		}
		path, err := storage.WriteFile(dir, name+info.Extension, data, mode)
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", f, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
