// Package diagram renders the Mermaid flowcharts that document the geo-lod
// class taxonomy and the ice-core and speleothem instance graphs.
package diagram

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"
	"text/template"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
)

// ErrInvalidParams is returned when Params fail validation.
var ErrInvalidParams = errors.New("invalid diagram parameters")

// Diagram file names.
const (
	TaxonomyFile       = "mermaid_taxonomy.mermaid"
	EpicaInstanceFile  = "mermaid_instance_epica.mermaid"
	SisalInstanceFile  = "mermaid_instance_sisal.mermaid"
	templateFileSuffix = ".tmpl"
)

//go:embed templates/*.mermaid.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("diagrams").
	Option("missingkey=error").
	ParseFS(templateFS, "templates/*.mermaid.tmpl"))

// Params are the substitution points of the instance diagrams. The taxonomy
// diagram takes none.
type Params struct {
	// RollingWindow is the rolling-median window size.
	RollingWindow int
	// SGWindow is the Savitzky-Golay window size.
	SGWindow int
	// SGPoly is the Savitzky-Golay polynomial order.
	SGPoly int
	// NSites is the member count shown on the speleothem site collection.
	NSites int
}

// DefaultParams returns the smoothing settings of both pipelines and the
// SISALv3 cave count.
func DefaultParams() Params {
	return Params{RollingWindow: 11, SGWindow: 11, SGPoly: 2, NSites: 305}
}

// Validate checks that windows are positive, the polynomial order is
// non-negative and below the Savitzky-Golay window, and NSites is not negative.
func (p Params) Validate() error {
	if p.RollingWindow <= 0 {
		return fmt.Errorf("%w: rolling window %d must be positive", ErrInvalidParams, p.RollingWindow)
	}
	if p.SGWindow <= 0 {
		return fmt.Errorf("%w: savgol window %d must be positive", ErrInvalidParams, p.SGWindow)
	}
	if p.SGPoly < 0 || p.SGPoly >= p.SGWindow {
		return fmt.Errorf("%w: savgol polynomial order %d must be in [0, %d)", ErrInvalidParams, p.SGPoly, p.SGWindow)
	}
	if p.NSites < 0 {
		return fmt.Errorf("%w: site count %d is negative", ErrInvalidParams, p.NSites)
	}
	return nil
}

// FileNames returns the three diagram file names in sorted order.
func FileNames() []string {
	names := []string{TaxonomyFile, EpicaInstanceFile, SisalInstanceFile}
	sort.Strings(names)
	return names
}

// Render returns the text of every diagram keyed by file name.
func Render(p Params) (map[string][]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, 3)
	for _, name := range FileNames() {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, name+templateFileSuffix, p); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		out[name] = buf.Bytes()
	}
	return out, nil
}

// Write renders every diagram and writes it to dir, overwriting existing
// files. It returns the written path keyed by file name.
func Write(dir string, p Params) (map[string]string, error) {
	return Publish(dir, p, storage.ModeOverwrite)
}

// Publish is Write with an explicit storage mode.
func Publish(dir string, p Params, mode storage.Mode) (map[string]string, error) {
	docs, err := Render(p)
	if err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(docs))
	for _, name := range FileNames() {
		path, err := storage.WriteFile(dir, name, docs[name], mode)
		if err != nil {
			return nil, fmt.Errorf("write diagram: %w", err)
		}
		paths[name] = path
	}
	return paths, nil
}
