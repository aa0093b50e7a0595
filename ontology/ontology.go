// Package ontology renders and publishes the shared geo-lod core ontology
// (geo_lod_core.ttl) imported by the ice-core and speleothem extensions.
package ontology

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
)

// FileName is the name of the published ontology document.
const FileName = "geo_lod_core.ttl"

// Version is the owl:versionInfo of the core ontology.
const Version = "1.0"

//go:embed templates/geo_lod_core.ttl.tmpl
var templateFS embed.FS

var coreTemplate = template.Must(
	template.New("geo_lod_core.ttl.tmpl").ParseFS(templateFS, "templates/geo_lod_core.ttl.tmpl"),
)

// Params are the substitution points of the core ontology template.
type Params struct {
	Version  string
	Base     string
	CRS      string
	Bindings []geolod.Binding
}

// DefaultParams returns the parameters of the published document.
func DefaultParams() Params {
	return Params{
		Version:  Version,
		Base:     geolod.Namespace,
		CRS:      geolod.CRSWGS84,
		Bindings: geolod.Namespaces(),
	}
}

// Render executes the core template with p.
func Render(p Params) ([]byte, error) {
	var buf bytes.Buffer
	if err := coreTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

var document = func() []byte {
	b, err := Render(DefaultParams())
	if err != nil {
		panic(err)
	}
	return b
}()

// Document returns the core ontology text. Every call returns the same bytes.
func Document() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

// WriteDocument writes the core ontology to dir/geo_lod_core.ttl,
// overwriting any existing file, and returns the path.
func WriteDocument(dir string) (string, error) {
	return Publish(dir, storage.ModeOverwrite)
}

// Publish writes the core ontology with the given mode. With
// storage.ModeWriteOnce an existing file that differs from Document fails
// with storage.ErrContentConflict instead of being replaced.
func Publish(dir string, mode storage.Mode) (string, error) {
	path, err := storage.WriteFile(dir, FileName, document, mode)
	if err != nil {
		return "", fmt.Errorf("publish ontology: %w", err)
	}
	return path, nil
}
