package geolod

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPrefix is returned by Expand for a CURIE whose prefix has no binding.
var ErrUnknownPrefix = errors.New("unknown namespace prefix")

// Binding maps a short prefix to its namespace IRI.
type Binding struct {
	Prefix string
	IRI    string
}

// bindings is the namespace table, in the order prefixes are declared in
// serialized output.
var bindings = []Binding{
	// W3C standards
	{"rdf", NamespaceRDF},
	{"rdfs", NamespaceRDFS},
	{"owl", NamespaceOWL},
	{"xsd", NamespaceXSD},
	// Geospatial
	{"geo", NamespaceGeo},
	{"sf", NamespaceSF},
	// CIDOC-CRM
	{"crm", NamespaceCRM},
	{"crmsci", NamespaceCRMSci},
	// Observation and measurement
	{"sosa", NamespaceSOSA},
	{"ssn", NamespaceSSN},
	{"qudt", NamespaceQUDT},
	{"unit", NamespaceUnit},
	// Provenance and metadata
	{"prov", NamespacePROV},
	{"dct", NamespaceDCT},
	{"dcat", NamespaceDCAT},
	{"void", NamespaceVOID},
	{"skos", NamespaceSKOS},
	// Project
	{"geolod", Namespace},
}

var byPrefix = func() map[string]string {
	m := make(map[string]string, len(bindings))
	for _, b := range bindings {
		m[b.Prefix] = b.IRI
	}
	return m
}()

// Namespaces returns a copy of the namespace table in declaration order.
func Namespaces() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// Lookup returns the namespace IRI bound to prefix.
func Lookup(prefix string) (string, bool) {
	iri, ok := byPrefix[prefix]
	return iri, ok
}

// Term returns the IRI of local in the geo-lod namespace.
func Term(local string) string {
	return Namespace + local
}

// Expand resolves a term to an absolute IRI. Accepted forms:
//
//	http://example.org/x   absolute IRI, returned unchanged
//	geolod:Cave            CURIE with a bound prefix
//	Cave                   bare local name, resolved under Namespace
func Expand(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", fmt.Errorf("empty term")
	}
	if strings.HasPrefix(term, "http://") || strings.HasPrefix(term, "https://") || strings.HasPrefix(term, "urn:") {
		return term, nil
	}
	if prefix, local, ok := strings.Cut(term, ":"); ok {
		ns, found := byPrefix[prefix]
		if !found {
			return "", fmt.Errorf("%w: %q in %q", ErrUnknownPrefix, prefix, term)
		}
		return ns + local, nil
	}
	return Namespace + term, nil
}
