// Package pipeline runs the ice-core and speleothem Linked-Data exports.
//
// Each domain builds its own graph of sites and a collection, serializes it
// to <rdf dir>/<domain>.<ext>, and optionally writes a GeoJSON sidecar. A
// combined all_sites graph spans every enabled domain. The shared ontology
// and diagrams are published once per run by the Runner, which is their only
// writer.
package pipeline

import (
	"fmt"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/config"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/feature"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/geometry"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
)

// Site is a resolved sampling location. Exactly one of the coordinate pair
// and WKT is set.
type Site struct {
	IRI      string
	Geometry string
	Label    string
	Lon, Lat *float64
	WKT      string
	// Types are absolute IRIs asserted in addition to the domain type
	Types []string
}

// Domain describes one domain export.
type Domain struct {
	// Name is the base name of the domain's files
	Name string
	// Type is the class IRI asserted on every site
	Type            string
	CollectionIRI   string
	CollectionLabel string
	Sites           []Site
}

// IceCore builds the ice-core domain from cfg.
func IceCore(cfg *config.Config) (*Domain, error) {
	return FromConfig(config.DomainIceCore, &cfg.IceCore)
}

// Speleothem builds the speleothem domain from cfg.
func Speleothem(cfg *config.Config) (*Domain, error) {
	return FromConfig(config.DomainSpeleothem, &cfg.Speleothem)
}

// FromConfig resolves every CURIE and local name in dc to an absolute IRI.
// key names the block in error messages.
func FromConfig(key string, dc *config.DomainConfig) (*Domain, error) {
	typ, err := geolod.Expand(dc.Type)
	if err != nil {
		return nil, fmt.Errorf("%s.type: %w", key, err)
	}
	d := &Domain{
		Name:            dc.Name,
		Type:            typ,
		CollectionLabel: dc.Collection.Label,
		Sites:           make([]Site, 0, len(dc.Sites)),
	}
	if dc.Collection.ID != "" {
		if d.CollectionIRI, err = geolod.Expand(dc.Collection.ID); err != nil {
			return nil, fmt.Errorf("%s.collection.id: %w", key, err)
		}
	}
	for i, sc := range dc.Sites {
		s, err := resolveSite(sc)
		if err != nil {
			return nil, fmt.Errorf("%s.sites[%d]: %w", key, i, err)
		}
		d.Sites = append(d.Sites, s)
	}
	return d, nil
}

func resolveSite(sc config.SiteConfig) (Site, error) {
	iri, geom, err := sc.IRIs()
	if err != nil {
		return Site{}, err
	}
	s := Site{
		IRI:      iri,
		Geometry: geom,
		Label:    sc.Label,
		Lon:      sc.Lon,
		Lat:      sc.Lat,
		WKT:      sc.WKT,
	}
	for _, t := range sc.Types {
		typ, err := geolod.Expand(t)
		if err != nil {
			return Site{}, fmt.Errorf("types: %w", err)
		}
		s.Types = append(s.Types, typ)
	}
	return s, nil
}

// sameLocation reports whether s and o assert the same label and point.
func (s Site) sameLocation(o Site) bool {
	if s.Geometry != o.Geometry || s.Label != o.Label || s.WKT != o.WKT {
		return false
	}
	return sameCoord(s.Lon, o.Lon) && sameCoord(s.Lat, o.Lat)
}

func sameCoord(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// MemberIRIs returns the site IRIs in configuration order.
func (d *Domain) MemberIRIs() []string {
	out := make([]string, len(d.Sites))
	for i, s := range d.Sites {
		out[i] = s.IRI
	}
	return out
}

// AddSites writes every site of d into g.
func (d *Domain) AddSites(g *graph.Graph, precision int) error {
	for _, s := range d.Sites {
		types := append([]string{d.Type}, s.Types...)
		var err error
		if s.WKT != "" {
			err = feature.AddSiteFromWKT(g, s.IRI, s.Geometry, s.Label, s.WKT, types...)
		} else if s.Lon != nil && s.Lat != nil {
			err = feature.AddSiteFromCoordsPrecision(g, s.IRI, s.Geometry, s.Label, *s.Lon, *s.Lat, precision, types...)
		} else {
			err = fmt.Errorf("%w: site %s: no coordinates or wkt", geometry.ErrMalformedInput, s.IRI)
		}
		if err != nil {
			return fmt.Errorf("domain %s: %w", d.Name, err)
		}
	}
	return nil
}

// Build writes the sites of d and, when configured, its collection into g.
func (d *Domain) Build(g *graph.Graph, precision int) error {
	if err := d.AddSites(g, precision); err != nil {
		return err
	}
	if d.CollectionIRI == "" {
		return nil
	}
	if err := feature.AddCollection(g, d.CollectionIRI, d.CollectionLabel, d.MemberIRIs()); err != nil {
		return fmt.Errorf("domain %s: %w", d.Name, err)
	}
	return nil
}
