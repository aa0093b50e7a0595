// Package config provides configuration loading and management for geolod.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/diagram"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/export"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/geometry"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"gopkg.in/yaml.v3"
)

// Config represents the complete geolod export configuration
type Config struct {
	// Engine names the graph engine (default: quad)
	Engine string `yaml:"engine"`
	// Precision is the number of decimals written per coordinate (default: 6)
	Precision int `yaml:"precision"`

	Output     OutputConfig    `yaml:"output"`
	Smoothing  SmoothingConfig `yaml:"smoothing"`
	Diagrams   DiagramsConfig  `yaml:"diagrams"`
	IceCore    DomainConfig    `yaml:"icecore"`
	Speleothem DomainConfig    `yaml:"speleothem"`
	Metrics    MetricsConfig   `yaml:"metrics"`
	Watch      WatchConfig     `yaml:"watch"`

	// SiteFiles are doublestar glob patterns of site files, relative to the
	// directory of the config file that declares them
	SiteFiles []string `yaml:"site_files"`
}

// OutputConfig configures where and how artifacts are written
type OutputConfig struct {
	// Dir is the output root
	Dir string `yaml:"dir"`
	// RDFDir holds the per-domain graphs; relative paths are under Dir
	RDFDir string `yaml:"rdf_dir"`
	// OntologyDir holds geo_lod_core.ttl; relative paths are under Dir
	OntologyDir string `yaml:"ontology_dir"`
	// DiagramDir holds the Mermaid files; relative paths are under Dir
	DiagramDir string `yaml:"diagram_dir"`
	// Formats lists the RDF serializations to write (turtle, ntriples, jsonld)
	Formats []string `yaml:"formats"`
	// GeoJSON enables the .geojson sidecar next to each graph
	GeoJSON *bool `yaml:"geojson"`
	// PublishMode is overwrite or write_once for the shared ontology and diagrams
	PublishMode string `yaml:"publish_mode"`
}

// SmoothingConfig mirrors the smoothing settings of both pipelines
type SmoothingConfig struct {
	RollingWindow int `yaml:"rolling_window"`
	SGWindow      int `yaml:"sg_window"`
	SGPoly        int `yaml:"sg_poly"`
}

// DiagramsConfig configures the Mermaid instance diagrams
type DiagramsConfig struct {
	// NSites is the speleothem collection size shown in the diagram
	// (0 = number of configured speleothem sites)
	NSites int `yaml:"n_sites"`
}

// MetricsConfig configures the Prometheus textfile
type MetricsConfig struct {
	// File is written after each run when set
	File string `yaml:"file"`
}

// WatchConfig configures the export --watch loop
type WatchConfig struct {
	// DebounceMS coalesces bursts of file events (default: 500)
	DebounceMS int `yaml:"debounce_ms"`
}

// DomainConfig describes one domain export (ice core or speleothem)
type DomainConfig struct {
	// Enabled toggles the domain (default: true)
	Enabled *bool `yaml:"enabled"`
	// Name is the base name of the domain's output files
	Name string `yaml:"name"`
	// Type is the domain class asserted on every site (CURIE or IRI)
	Type string `yaml:"type"`
	// Collection groups the domain's sites; an empty ID writes no collection
	Collection CollectionConfig `yaml:"collection"`
	// Sites are the domain's sampling locations
	Sites []SiteConfig `yaml:"sites"`
}

// CollectionConfig names a geo:FeatureCollection
type CollectionConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// SiteConfig is one sampling location. Either Lon and Lat or WKT is set.
type SiteConfig struct {
	// ID is the site's local name under geolod: or an absolute IRI
	ID string `yaml:"id"`
	// Geometry is the geometry IRI (default: <ID>_Geometry)
	Geometry string   `yaml:"geometry,omitempty"`
	Label    string   `yaml:"label"`
	Lon      *float64 `yaml:"lon,omitempty"`
	Lat      *float64 `yaml:"lat,omitempty"`
	WKT      string   `yaml:"wkt,omitempty"`
	// Types are extra classes asserted on the site
	Types []string `yaml:"types,omitempty"`
}

// Domain names used in site files.
const (
	DomainIceCore    = "icecore"
	DomainSpeleothem = "speleothem"
)

// GeometrySuffix is appended to a site ID when no geometry is given.
const GeometrySuffix = "_Geometry"

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine:    graph.DefaultEngine,
		Precision: geometry.DefaultPrecision,
		Output: OutputConfig{
			Dir:         "output",
			RDFDir:      "rdf",
			OntologyDir: "ontology",
			DiagramDir:  "ontology",
			Formats:     []string{string(export.FormatTurtle)},
			GeoJSON:     boolPtr(true),
			PublishMode: storage.ModeOverwrite.String(),
		},
		Smoothing: SmoothingConfig{
			RollingWindow: 11,
			SGWindow:      11,
			SGPoly:        2,
		},
		Diagrams: DiagramsConfig{
			NSites: 0, // Count speleothem sites
		},
		IceCore: DomainConfig{
			Enabled: boolPtr(true),
			Name:    "epica",
			Type:    "geolod:DrillingSite",
			Collection: CollectionConfig{
				ID:    "EPICA_Site_Collection",
				Label: "EPICA Drilling Site Collection",
			},
			Sites: []SiteConfig{
				{
					ID:       "EpicaDomeC_Site",
					Geometry: "EpicaDomeC_Geometry",
					Label:    "EPICA Dome C, East Antarctica",
					Lon:      float64Ptr(123.35),
					Lat:      float64Ptr(-75.1),
				},
			},
		},
		Speleothem: DomainConfig{
			Enabled: boolPtr(true),
			Name:    "sisal",
			Type:    "geolod:Cave",
			Collection: CollectionConfig{
				ID:    "SISAL_Cave_Collection",
				Label: "SISAL Cave Collection",
			},
		},
		SiteFiles: []string{"sites/**/*.yaml"},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("engine is required")
	}
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("precision must be between 0 and 17")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must list at least one format")
	}
	for _, f := range c.Output.Formats {
		if _, err := export.ParseFormat(f); err != nil {
			return fmt.Errorf("output.formats: %w", err)
		}
	}
	if _, err := storage.ParseMode(c.Output.PublishMode); err != nil {
		return fmt.Errorf("output.publish_mode: %w", err)
	}
	if c.Diagrams.NSites < 0 {
		return fmt.Errorf("diagrams.n_sites must not be negative")
	}
	if err := c.DiagramParams(0).Validate(); err != nil {
		return fmt.Errorf("smoothing: %w", err)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative")
	}
	if err := c.IceCore.validate(DomainIceCore); err != nil {
		return err
	}
	if err := c.Speleothem.validate(DomainSpeleothem); err != nil {
		return err
	}
	if c.IceCore.Name == c.Speleothem.Name {
		return fmt.Errorf("icecore.name and speleothem.name must differ")
	}
	return c.validateSharedSites()
}

// siteRef locates an expanded site in the config.
type siteRef struct {
	domain string
	index  int
	site   *SiteConfig
	geom   string
}

func (r siteRef) String() string { return fmt.Sprintf("%s.sites[%d]", r.domain, r.index) }

// validateSharedSites checks site and geometry identity across both
// domains. Every site goes into the all_sites graph, so a site listed by
// both domains must describe the same location, and a geometry node
// belongs to exactly one site.
func (c *Config) validateSharedSites() error {
	sites := make(map[string]siteRef)
	geoms := make(map[string]string)
	for _, key := range []string{DomainIceCore, DomainSpeleothem} {
		d, _ := c.Domain(key)
		for i := range d.Sites {
			s := &d.Sites[i]
			ref := siteRef{domain: key, index: i, site: s}
			iri, geom, err := s.IRIs()
			if err != nil {
				return fmt.Errorf("%s: %w", ref, err)
			}
			ref.geom = geom

			if owner, ok := geoms[geom]; ok && owner != iri {
				return fmt.Errorf("%s: geometry %s already belongs to site %s", ref, geom, owner)
			}
			geoms[geom] = iri

			prev, ok := sites[iri]
			if !ok {
				sites[iri] = ref
				continue
			}
			if prev.domain == key {
				return fmt.Errorf("%s: duplicate site %s", ref, iri)
			}
			if !sameLocation(prev, ref) {
				return fmt.Errorf("%s: site %s conflicts with %s; shared sites need the same label, geometry and location", ref, iri, prev)
			}
		}
	}
	return nil
}

func sameLocation(a, b siteRef) bool {
	if a.geom != b.geom || a.site.Label != b.site.Label || a.site.WKT != b.site.WKT {
		return false
	}
	return equalCoord(a.site.Lon, b.site.Lon) && equalCoord(a.site.Lat, b.site.Lat)
}

func equalCoord(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (d *DomainConfig) validate(key string) error {
	if d.Name == "" {
		return fmt.Errorf("%s.name is required", key)
	}
	if d.Name != filepath.Base(d.Name) {
		return fmt.Errorf("%s.name must be a plain file name", key)
	}
	if d.Type == "" {
		return fmt.Errorf("%s.type is required", key)
	}
	if d.Collection.ID != "" && d.Collection.Label == "" {
		return fmt.Errorf("%s.collection.label is required when collection.id is set", key)
	}
	for i, s := range d.Sites {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s.sites[%d]: %w", key, i, err)
		}
	}
	return nil
}

// IRIs expands the site ID and its geometry. The geometry defaults to the
// site ID plus GeometrySuffix.
func (s *SiteConfig) IRIs() (site, geom string, err error) {
	site, err = geolod.Expand(s.ID)
	if err != nil {
		return "", "", fmt.Errorf("id: %w", err)
	}
	geomID := s.Geometry
	if geomID == "" {
		geomID = s.ID + GeometrySuffix
	}
	geom, err = geolod.Expand(geomID)
	if err != nil {
		return "", "", fmt.Errorf("geometry: %w", err)
	}
	return site, geom, nil
}

func (s *SiteConfig) validate() error {
	if s.ID == "" {
		return fmt.Errorf("id is required")
	}
	if s.Label == "" {
		return fmt.Errorf("site %s: label is required", s.ID)
	}
	hasCoords := s.Lon != nil || s.Lat != nil
	switch {
	case hasCoords && s.WKT != "":
		return fmt.Errorf("site %s: set either lon/lat or wkt, not both", s.ID)
	case hasCoords && (s.Lon == nil || s.Lat == nil):
		return fmt.Errorf("site %s: lon and lat must both be set", s.ID)
	case !hasCoords && s.WKT == "":
		return fmt.Errorf("site %s: lon/lat or wkt is required", s.ID)
	}
	return nil
}

// IsEnabled reports whether the domain runs (nil = enabled)
func (d *DomainConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// GeoJSONEnabled reports whether GeoJSON sidecars are written (nil = enabled)
func (o *OutputConfig) GeoJSONEnabled() bool {
	return o.GeoJSON == nil || *o.GeoJSON
}

// RDFPath returns the resolved directory of the per-domain graphs
func (o *OutputConfig) RDFPath() string { return o.resolve(o.RDFDir) }

// OntologyPath returns the resolved directory of geo_lod_core.ttl
func (o *OutputConfig) OntologyPath() string { return o.resolve(o.OntologyDir) }

// DiagramPath returns the resolved directory of the Mermaid files
func (o *OutputConfig) DiagramPath() string { return o.resolve(o.DiagramDir) }

func (o *OutputConfig) resolve(sub string) string {
	if filepath.IsAbs(sub) {
		return sub
	}
	return filepath.Join(o.Dir, sub)
}

// ExportFormats returns the parsed output formats
func (o *OutputConfig) ExportFormats() ([]export.Format, error) {
	out := make([]export.Format, 0, len(o.Formats))
	for _, s := range o.Formats {
		f, err := export.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Mode returns the parsed publish mode
func (o *OutputConfig) Mode() (storage.Mode, error) {
	return storage.ParseMode(o.PublishMode)
}

// DiagramParams returns the diagram parameters. speleothemSites is used when
// diagrams.n_sites is 0.
func (c *Config) DiagramParams(speleothemSites int) diagram.Params {
	n := c.Diagrams.NSites
	if n == 0 {
		n = speleothemSites
	}
	return diagram.Params{
		RollingWindow: c.Smoothing.RollingWindow,
		SGWindow:      c.Smoothing.SGWindow,
		SGPoly:        c.Smoothing.SGPoly,
		NSites:        n,
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// decodeFile decodes path onto into. Keys absent from the file keep their
// current values; a sites list replaces the current one.
func decodeFile(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Zero means unset here, so Merge is for programmatic
// overrides such as command-line flags; config files are layered by the
// Loader, which keeps explicit zeros.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Engine != "" {
		c.Engine = other.Engine
	}
	if other.Precision != 0 {
		c.Precision = other.Precision
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.RDFDir != "" {
		c.Output.RDFDir = other.Output.RDFDir
	}
	if other.Output.OntologyDir != "" {
		c.Output.OntologyDir = other.Output.OntologyDir
	}
	if other.Output.DiagramDir != "" {
		c.Output.DiagramDir = other.Output.DiagramDir
	}
	if len(other.Output.Formats) > 0 {
		c.Output.Formats = other.Output.Formats
	}
	if other.Output.GeoJSON != nil {
		c.Output.GeoJSON = other.Output.GeoJSON
	}
	if other.Output.PublishMode != "" {
		c.Output.PublishMode = other.Output.PublishMode
	}

	// Smoothing
	if other.Smoothing.RollingWindow != 0 {
		c.Smoothing.RollingWindow = other.Smoothing.RollingWindow
	}
	if other.Smoothing.SGWindow != 0 {
		c.Smoothing.SGWindow = other.Smoothing.SGWindow
	}
	if other.Smoothing.SGPoly != 0 {
		c.Smoothing.SGPoly = other.Smoothing.SGPoly
	}
	if other.Diagrams.NSites != 0 {
		c.Diagrams.NSites = other.Diagrams.NSites
	}

	// Domains
	c.IceCore.merge(&other.IceCore)
	c.Speleothem.merge(&other.Speleothem)
	if len(other.SiteFiles) > 0 {
		c.SiteFiles = other.SiteFiles
	}

	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}
	if other.Watch.DebounceMS != 0 {
		c.Watch.DebounceMS = other.Watch.DebounceMS
	}
}

func (d *DomainConfig) merge(other *DomainConfig) {
	if other.Enabled != nil {
		d.Enabled = other.Enabled
	}
	if other.Name != "" {
		d.Name = other.Name
	}
	if other.Type != "" {
		d.Type = other.Type
	}
	if other.Collection.ID != "" {
		d.Collection = other.Collection
	}
	// A layer that lists sites replaces the inherited list.
	if len(other.Sites) > 0 {
		d.Sites = other.Sites
	}
}

// Domain returns the block for a site-file domain key
func (c *Config) Domain(key string) (*DomainConfig, bool) {
	switch key {
	case DomainIceCore, c.IceCore.Name:
		return &c.IceCore, true
	case DomainSpeleothem, c.Speleothem.Name:
		return &c.Speleothem, true
	default:
		return nil, false
	}
}

func boolPtr(b bool) *bool { return &b }

func float64Ptr(f float64) *float64 { return &f }
