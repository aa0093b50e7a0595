package ontology_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/ontology"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentIsStable(t *testing.T) {
	a := ontology.Document()
	b := ontology.Document()
	assert.Equal(t, a, b)

	// Mutating a returned copy does not leak into later calls.
	a[0] = 'X'
	assert.NotEqual(t, a[0], ontology.Document()[0])
}

func TestDocumentDeclaresEveryPrefix(t *testing.T) {
	doc := string(ontology.Document())
	for _, b := range geolod.Namespaces() {
		line := "@prefix " + b.Prefix + ":"
		assert.Contains(t, doc, line)
		assert.Contains(t, doc, "<"+b.IRI+"> .")
	}
	assert.Contains(t, doc, "@prefix rdf:     <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .")
	assert.Contains(t, doc, "@prefix geolod:  <http://w3id.org/geo-lod/> .")
}

func TestDocumentContent(t *testing.T) {
	doc := string(ontology.Document())

	assert.Contains(t, doc, "<http://w3id.org/geo-lod/>\n    a owl:Ontology ;")
	assert.Contains(t, doc, `owl:versionInfo "1.0" .`)

	classes := []string{
		"SamplingLocation", "PalaeoclimateSample", "PalaeoclimateObservation",
		"ObservableProperty", "Chronology", "MeasurementType",
		"SmoothingMethod", "RollingMedianFilter", "SavitzkyGolayFilter", "DataSource",
	}
	for _, c := range classes {
		assert.Contains(t, doc, "geolod:"+c+"\n    a owl:Class ;", "class %s", c)
	}
	assert.Contains(t, doc, "geolod:Delta18O\n    a geolod:Delta18OProperty, owl:NamedIndividual ;")
	assert.Contains(t, doc, "geolod:MeasurementType_d18O\n    a geolod:MeasurementType, owl:NamedIndividual ;")
}

func TestDocumentHasNoLineContinuations(t *testing.T) {
	for i, line := range strings.Split(string(ontology.Document()), "\n") {
		assert.False(t, strings.HasSuffix(line, `\`), "line %d ends in a backslash", i+1)
	}
}

func TestRenderVersion(t *testing.T) {
	p := ontology.DefaultParams()
	p.Version = "2.0"
	out, err := ontology.Render(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `owl:versionInfo "2.0" .`)
	assert.NotContains(t, string(out), `owl:versionInfo "1.0" .`)
}

func TestWriteDocumentRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ontology")

	path, err := ontology.WriteDocument(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ontology.FileName), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ontology.Document(), got)

	first, err := os.Stat(path)
	require.NoError(t, err)

	path2, err := ontology.WriteDocument(dir)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	second, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, first.Size(), second.Size())
}

func TestPublishWriteOnce(t *testing.T) {
	dir := t.TempDir()

	_, err := ontology.Publish(dir, storage.ModeWriteOnce)
	require.NoError(t, err)
	_, err = ontology.Publish(dir, storage.ModeWriteOnce)
	require.NoError(t, err, "identical content is not a conflict")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ontology.FileName), []byte("# diverged\n"), 0644))
	_, err = ontology.Publish(dir, storage.ModeWriteOnce)
	assert.True(t, errors.Is(err, storage.ErrContentConflict))

	_, err = ontology.Publish(dir, storage.ModeOverwrite)
	require.NoError(t, err)
}
