package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/export"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != "quad" {
		t.Errorf("expected default engine quad, got %s", cfg.Engine)
	}
	if cfg.Precision != 6 {
		t.Errorf("expected default precision 6, got %d", cfg.Precision)
	}
	if len(cfg.IceCore.Sites) != 1 || cfg.IceCore.Sites[0].ID != "EpicaDomeC_Site" {
		t.Errorf("expected EPICA Dome C default site, got %+v", cfg.IceCore.Sites)
	}
	if *cfg.IceCore.Sites[0].Lon != 123.35 || *cfg.IceCore.Sites[0].Lat != -75.1 {
		t.Errorf("unexpected EPICA coordinates")
	}
	if cfg.Speleothem.Collection.ID != "SISAL_Cave_Collection" {
		t.Errorf("expected SISAL_Cave_Collection, got %s", cfg.Speleothem.Collection.ID)
	}
	if !cfg.Output.GeoJSONEnabled() {
		t.Error("expected geojson enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing engine",
			modify:  func(c *Config) { c.Engine = "" },
			wantErr: true,
		},
		{
			name:    "precision too high",
			modify:  func(c *Config) { c.Precision = 18 },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Formats = []string{"rdfxml"} },
			wantErr: true,
		},
		{
			name:    "no formats",
			modify:  func(c *Config) { c.Output.Formats = nil },
			wantErr: true,
		},
		{
			name:    "unknown publish mode",
			modify:  func(c *Config) { c.Output.PublishMode = "append" },
			wantErr: true,
		},
		{
			name:    "poly not below window",
			modify:  func(c *Config) { c.Smoothing.SGPoly = 11 },
			wantErr: true,
		},
		{
			name:    "negative n_sites",
			modify:  func(c *Config) { c.Diagrams.NSites = -1 },
			wantErr: true,
		},
		{
			name:    "same domain names",
			modify:  func(c *Config) { c.Speleothem.Name = c.IceCore.Name },
			wantErr: true,
		},
		{
			name:    "domain name with separator",
			modify:  func(c *Config) { c.IceCore.Name = "out/epica" },
			wantErr: true,
		},
		{
			name: "site with coords and wkt",
			modify: func(c *Config) {
				c.IceCore.Sites[0].WKT = "POINT(1 2)"
			},
			wantErr: true,
		},
		{
			name: "site with only lon",
			modify: func(c *Config) {
				c.IceCore.Sites[0].Lat = nil
			},
			wantErr: true,
		},
		{
			name: "duplicate site id",
			modify: func(c *Config) {
				c.IceCore.Sites = append(c.IceCore.Sites, c.IceCore.Sites[0])
			},
			wantErr: true,
		},
		{
			name: "duplicate site as curie",
			modify: func(c *Config) {
				dup := c.IceCore.Sites[0]
				dup.ID = "geolod:" + dup.ID
				c.IceCore.Sites = append(c.IceCore.Sites, dup)
			},
			wantErr: true,
		},
		{
			name: "two sites share a geometry",
			modify: func(c *Config) {
				c.Speleothem.Sites = []SiteConfig{
					{ID: "Cave_site_0001", Geometry: "Cave_site_0001_Geometry", Label: "Cave 1", WKT: "POINT(1 2)"},
					{ID: "Cave_site_0002", Geometry: "Cave_site_0001_Geometry", Label: "Cave 2", WKT: "POINT(3 4)"},
				}
			},
			wantErr: true,
		},
		{
			name: "default geometry collides with explicit one",
			modify: func(c *Config) {
				c.Speleothem.Sites = []SiteConfig{{ID: "Cave_1", Geometry: "EpicaDomeC_Site_Geometry", Label: "Cave 1", WKT: "POINT(1 2)"}}
				c.IceCore.Sites[0].Geometry = ""
			},
			wantErr: true,
		},
		{
			name: "site in both domains at different locations",
			modify: func(c *Config) {
				c.Speleothem.Sites = []SiteConfig{{ID: "Cave_site_0002", Label: "Cave 2", WKT: "POINT(3 4)"}}
				c.IceCore.Sites = append(c.IceCore.Sites, SiteConfig{ID: "Cave_site_0002", Label: "Cave 2", Lon: float64Ptr(5), Lat: float64Ptr(6)})
			},
			wantErr: true,
		},
		{
			name: "site in both domains with different labels",
			modify: func(c *Config) {
				c.Speleothem.Sites = []SiteConfig{{ID: "Cave_site_0002", Label: "Cave 2", WKT: "POINT(3 4)"}}
				c.IceCore.Sites = append(c.IceCore.Sites, SiteConfig{ID: "Cave_site_0002", Label: "Cave two", WKT: "POINT(3 4)"})
			},
			wantErr: true,
		},
		{
			name: "identical site in both domains",
			modify: func(c *Config) {
				c.Speleothem.Sites = []SiteConfig{c.IceCore.Sites[0]}
			},
			wantErr: false,
		},
		{
			name: "wkt site",
			modify: func(c *Config) {
				c.Speleothem.Sites = []SiteConfig{{ID: "Cave_1", Label: "Cave 1", WKT: "POINT(31.9333 41.4167)"}}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "geolod.yaml")

	content := `
precision: 4
output:
  dir: "/tmp/geolod-out"
  formats: [turtle, jsonld]
  geojson: false
  publish_mode: write_once
smoothing:
  rolling_window: 7
diagrams:
  n_sites: 305
speleothem:
  sites:
    - id: Cave_site_0001
      label: Bittoo Cave
      wkt: POINT(31.9333 41.4167)
      types: [geolod:Cave]
`
	writeFile(t, configPath, content)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Precision != 4 {
		t.Errorf("expected precision 4, got %d", cfg.Precision)
	}
	if cfg.Output.Dir != "/tmp/geolod-out" {
		t.Errorf("expected output dir /tmp/geolod-out, got %s", cfg.Output.Dir)
	}
	if cfg.Output.RDFPath() != "/tmp/geolod-out/rdf" {
		t.Errorf("expected rdf path under output dir, got %s", cfg.Output.RDFPath())
	}
	if cfg.Output.GeoJSONEnabled() {
		t.Error("expected geojson disabled")
	}
	formats, err := cfg.Output.ExportFormats()
	if err != nil {
		t.Fatalf("ExportFormats() error = %v", err)
	}
	if len(formats) != 2 || formats[0] != export.FormatTurtle || formats[1] != export.FormatJSONLD {
		t.Errorf("unexpected formats %v", formats)
	}
	mode, err := cfg.Output.Mode()
	if err != nil || mode != storage.ModeWriteOnce {
		t.Errorf("expected write_once mode, got %v (%v)", mode, err)
	}
	if cfg.Smoothing.RollingWindow != 7 || cfg.Smoothing.SGWindow != 11 {
		t.Errorf("unexpected smoothing %+v", cfg.Smoothing)
	}
	if p := cfg.DiagramParams(12); p.NSites != 305 {
		t.Errorf("explicit n_sites should win, got %d", p.NSites)
	}
	if len(cfg.Speleothem.Sites) != 1 || cfg.Speleothem.Sites[0].WKT != "POINT(31.9333 41.4167)" {
		t.Errorf("unexpected speleothem sites %+v", cfg.Speleothem.Sites)
	}
	// Defaults survive for fields the file does not set.
	if len(cfg.IceCore.Sites) != 1 {
		t.Errorf("expected default icecore site, got %d", len(cfg.IceCore.Sites))
	}
}

func TestDiagramParamsCountsSites(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.DiagramParams(42)
	if p.NSites != 42 {
		t.Errorf("expected n_sites from site count, got %d", p.NSites)
	}
	if p.RollingWindow != 11 || p.SGWindow != 11 || p.SGPoly != 2 {
		t.Errorf("unexpected smoothing params %+v", p)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	disabled := false
	override := &Config{
		Output: OutputConfig{
			Dir: "/override",
		},
		IceCore: DomainConfig{
			Enabled: &disabled,
		},
	}

	base.Merge(override)

	if base.Output.Dir != "/override" {
		t.Errorf("expected output dir /override, got %s", base.Output.Dir)
	}
	// RDFDir should remain from base since override didn't set it
	if base.Output.RDFDir != "rdf" {
		t.Errorf("expected rdf dir to remain default, got %s", base.Output.RDFDir)
	}
	if base.IceCore.IsEnabled() {
		t.Error("expected icecore disabled")
	}
	if base.IceCore.Name != "epica" || len(base.IceCore.Sites) != 1 {
		t.Errorf("expected icecore defaults to survive, got %+v", base.IceCore)
	}
	if !base.Speleothem.IsEnabled() {
		t.Error("expected speleothem to stay enabled")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Dir = "saved-output"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Output.Dir != "saved-output" {
		t.Errorf("expected output dir saved-output, got %s", loaded.Output.Dir)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("saved config invalid: %v", err)
	}
}

func TestResolveSiteFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sites", "a.yaml"), "domain: speleothem\n")
	writeFile(t, filepath.Join(dir, "sites", "nested", "b.yaml"), "domain: speleothem\n")
	writeFile(t, filepath.Join(dir, "sites", "notes.txt"), "ignored")

	files, err := ResolveSiteFiles(dir, []string{"sites/**/*.yaml", "sites/a.yaml"})
	if err != nil {
		t.Fatalf("ResolveSiteFiles() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "sites", "a.yaml"),
		filepath.Join(dir, "sites", "nested", "b.yaml"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], files[i])
		}
	}

	if files, err := ResolveSiteFiles(dir, []string{"missing/**/*.yaml"}); err != nil || len(files) != 0 {
		t.Errorf("unmatched glob should yield nothing, got %v (%v)", files, err)
	}
	if _, err := ResolveSiteFiles(dir, []string{"missing.yaml"}); err == nil {
		t.Error("expected error for missing literal path")
	}
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "deep", "er")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
precision: 3
output:
  dir: user-out
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
output:
  dir: project-out
`)
	writeFile(t, filepath.Join(project, "sites", "sisal.yaml"), `
domain: speleothem
sites:
  - id: Cave_site_0001
    label: Bittoo Cave
    wkt: POINT(31.9333 41.4167)
  - id: Cave_site_0002
    label: Second Cave
    lon: 10
    lat: 20
`)

	l := NewLoader(quietLogger())
	l.HomeDir = home
	l.WorkDir = work

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// User sets precision; project overrides dir without resetting precision.
	if cfg.Precision != 3 {
		t.Errorf("expected user precision 3, got %d", cfg.Precision)
	}
	if cfg.Output.Dir != "project-out" {
		t.Errorf("expected project output dir, got %s", cfg.Output.Dir)
	}
	if len(cfg.Speleothem.Sites) != 2 {
		t.Fatalf("expected 2 sites from site file, got %d", len(cfg.Speleothem.Sites))
	}
	if cfg.Speleothem.Sites[1].ID != "Cave_site_0002" || *cfg.Speleothem.Sites[1].Lon != 10 {
		t.Errorf("unexpected site %+v", cfg.Speleothem.Sites[1])
	}

	sources := l.Sources()
	if len(sources) != 3 {
		t.Errorf("expected user, project and site file sources, got %v", sources)
	}
}

func TestLoaderRejectsUnknownDomain(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectConfigFile), "site_files: [extra.yaml]\n")
	writeFile(t, filepath.Join(project, "extra.yaml"), "domain: lake\nsites: []\n")

	l := NewLoader(quietLogger())
	l.HomeDir = t.TempDir()

	if _, err := l.LoadPath(filepath.Join(project, ProjectConfigFile)); err == nil {
		t.Error("expected unknown domain error")
	}
}

func TestLoaderDomainAlias(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectConfigFile), "site_files: [epica.yaml]\n")
	writeFile(t, filepath.Join(project, "epica.yaml"), `
domain: epica
sites:
  - id: Vostok_Site
    label: Vostok
    lon: 106.8
    lat: -78.46
`)

	l := NewLoader(quietLogger())
	l.HomeDir = t.TempDir()

	cfg, err := l.LoadPath(filepath.Join(project, ProjectConfigFile))
	if err != nil {
		t.Fatalf("LoadPath() error = %v", err)
	}
	if len(cfg.IceCore.Sites) != 2 {
		t.Errorf("expected default plus file site, got %d", len(cfg.IceCore.Sites))
	}
}

func TestLoaderKeepsExplicitZeros(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
precision: 3
diagrams:
  n_sites: 305
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
precision: 0
smoothing:
  sg_poly: 0
diagrams:
  n_sites: 0
`)

	l := NewLoader(quietLogger())
	l.HomeDir = home

	cfg, err := l.LoadPath(filepath.Join(project, ProjectConfigFile))
	if err != nil {
		t.Fatalf("LoadPath() error = %v", err)
	}
	if cfg.Precision != 0 {
		t.Errorf("expected precision 0, got %d", cfg.Precision)
	}
	if cfg.Smoothing.SGPoly != 0 {
		t.Errorf("expected sg_poly 0, got %d", cfg.Smoothing.SGPoly)
	}
	if cfg.Smoothing.SGWindow != 11 {
		t.Errorf("expected default sg_window to survive, got %d", cfg.Smoothing.SGWindow)
	}
	// Project n_sites: 0 undoes the user override and counts sites again.
	if p := cfg.DiagramParams(12); p.NSites != 12 {
		t.Errorf("expected n_sites from site count, got %d", p.NSites)
	}
}

func TestLoaderSkipsBrokenUserConfig(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "precision: [3\n")

	l := NewLoader(quietLogger())
	l.HomeDir = home
	l.WorkDir = t.TempDir()

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Precision != 6 {
		t.Errorf("expected default precision, got %d", cfg.Precision)
	}
	if len(l.Sources()) != 0 {
		t.Errorf("broken user config should not be a source, got %v", l.Sources())
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := NewLoader(quietLogger())
	l.HomeDir = home

	path, err := l.EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	want := filepath.Join(home, UserConfigDir, UserConfigFile)
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated user config invalid: %v", err)
	}

	// An existing file is left alone.
	writeFile(t, path, "precision: 2\n")
	if _, err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "precision: 2\n" {
		t.Errorf("existing user config was rewritten: %q", data)
	}
}
