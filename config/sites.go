package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// SiteFile is a YAML file contributing sites to one domain.
//
//	domain: speleothem
//	sites:
//	  - id: Cave_site_0001
//	    label: Bittoo Cave
//	    wkt: POINT(31.9333 41.4167)
type SiteFile struct {
	Domain string       `yaml:"domain"`
	Sites  []SiteConfig `yaml:"sites"`
}

// ResolveSiteFiles expands patterns to regular files, sorted and without
// duplicates. Relative patterns are resolved against baseDir. Supports both
// single-level wildcards (*) and recursive wildcards (**). A pattern without
// glob characters must name an existing file; a glob matching nothing is not
// an error.
func ResolveSiteFiles(baseDir string, patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(baseDir, pattern)
		}

		var matches []string
		if containsGlob(pattern) {
			m, err := doublestar.FilepathGlob(abs)
			if err != nil {
				return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
			}
			matches = m
		} else {
			if _, err := os.Stat(abs); err != nil {
				return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
			}
			matches = []string{abs}
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() || seen[m] {
				continue
			}
			seen[m] = true
			resolved = append(resolved, m)
		}
	}

	sort.Strings(resolved)
	return resolved, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// LoadSiteFile reads one site file.
func LoadSiteFile(path string) (*SiteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}
	var sf SiteFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse site file %s: %w", path, err)
	}
	if sf.Domain == "" {
		return nil, fmt.Errorf("site file %s: domain is required", path)
	}
	return &sf, nil
}

// LoadSites resolves SiteFiles against baseDir and appends each file's
// sites to its domain block, in file order. It returns the files read.
func (c *Config) LoadSites(baseDir string) ([]string, error) {
	files, err := ResolveSiteFiles(baseDir, c.SiteFiles)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		sf, err := LoadSiteFile(path)
		if err != nil {
			return nil, err
		}
		d, ok := c.Domain(sf.Domain)
		if !ok {
			return nil, fmt.Errorf("site file %s: unknown domain %q", path, sf.Domain)
		}
		d.Sites = append(d.Sites, sf.Sites...)
	}
	return files, nil
}
