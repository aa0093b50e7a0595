package geometry_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/geometry"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crs = "<" + geolod.CRSWGS84 + ">"

func TestPointWKT(t *testing.T) {
	tests := []struct {
		name      string
		lon, lat  float64
		precision int
		want      string
	}{
		{"epica dome c", 123.35, -75.1, 6, crs + " POINT(123.350000 -75.100000)"},
		{"zero precision rounds", 31.9333, 41.4167, 0, crs + " POINT(32 41)"},
		{"two digits", -0.126, 51.5, 2, crs + " POINT(-0.13 51.50)"},
		{"negative precision uses default", 10, 20, -1, crs + " POINT(10.000000 20.000000)"},
		{"origin", 0, 0, 3, crs + " POINT(0.000 0.000)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geometry.PointWKT(tt.lon, tt.lat, tt.precision))
		})
	}
}

func TestPointWKTLongitudeFirst(t *testing.T) {
	w := geometry.PointWKT(123.35, -75.1, geometry.DefaultPrecision)
	assert.True(t, strings.Index(w, "123.350000") < strings.Index(w, "-75.100000"))
}

func TestEnsureCRS(t *testing.T) {
	t.Run("injects prefix exactly once", func(t *testing.T) {
		got := geometry.EnsureCRS("POINT(31.9333 41.4167)")
		assert.Equal(t, crs+" POINT(31.9333 41.4167)", got)
		assert.Equal(t, 1, strings.Count(got, crs))
	})

	t.Run("trims before injecting", func(t *testing.T) {
		assert.Equal(t, crs+" POINT(1 2)", geometry.EnsureCRS("  POINT(1 2)\n"))
	})

	t.Run("idempotent on prefixed input", func(t *testing.T) {
		inputs := []string{
			crs + " POINT(0 0)",
			"<http://www.opengis.net/def/crs/OGC/1.3/CRS84> POINT(10 20)",
		}
		for _, w := range inputs {
			once := geometry.EnsureCRS(w)
			assert.Equal(t, w, once)
			assert.Equal(t, once, geometry.EnsureCRS(once))
		}
	})

	t.Run("idempotent after injection", func(t *testing.T) {
		once := geometry.EnsureCRS("POINT(5 6)")
		assert.Equal(t, once, geometry.EnsureCRS(once))
	})
}

func TestSplitCRS(t *testing.T) {
	c, body, err := geometry.SplitCRS(crs + " POINT(1 2)")
	require.NoError(t, err)
	assert.Equal(t, geolod.CRSWGS84, c)
	assert.Equal(t, "POINT(1 2)", body)

	c, body, err = geometry.SplitCRS("POINT(1 2)")
	require.NoError(t, err)
	assert.Empty(t, c)
	assert.Equal(t, "POINT(1 2)", body)

	_, _, err = geometry.SplitCRS("<http://broken POINT(1 2)")
	assert.True(t, errors.Is(err, geometry.ErrMalformedInput))

	_, _, err = geometry.SplitCRS("<> POINT(1 2)")
	assert.True(t, errors.Is(err, geometry.ErrMalformedInput))
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		wantErr  bool
	}{
		{"valid", 123.35, -75.1, false},
		{"bounds", 180, -90, false},
		{"nan longitude", math.NaN(), 0, true},
		{"inf latitude", 0, math.Inf(1), true},
		{"longitude out of range", 180.5, 0, true},
		{"latitude out of range", 0, -90.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geometry.ValidateCoordinates(tt.lon, tt.lat)
			if tt.wantErr {
				assert.True(t, errors.Is(err, geometry.ErrMalformedInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	t.Run("bare point", func(t *testing.T) {
		p, c, err := geometry.ParsePoint("POINT(31.9333 41.4167)")
		require.NoError(t, err)
		assert.Empty(t, c)
		assert.InDelta(t, 31.9333, p.Lon(), 1e-9)
		assert.InDelta(t, 41.4167, p.Lat(), 1e-9)
	})

	t.Run("prefixed point", func(t *testing.T) {
		p, c, err := geometry.ParsePoint(geometry.PointWKT(123.35, -75.1, 6))
		require.NoError(t, err)
		assert.Equal(t, geolod.CRSWGS84, c)
		assert.InDelta(t, 123.35, p.Lon(), 1e-9)
		assert.InDelta(t, -75.1, p.Lat(), 1e-9)
	})

	t.Run("projected crs skips range check", func(t *testing.T) {
		_, c, err := geometry.ParsePoint("<http://www.opengis.net/def/crs/EPSG/0/3031> POINT(1500000 -900000)")
		require.NoError(t, err)
		assert.Equal(t, "http://www.opengis.net/def/crs/EPSG/0/3031", c)
	})

	for name, input := range map[string]string{
		"empty":          "",
		"prefix only":    crs,
		"linestring":     "LINESTRING(0 0, 1 1)",
		"garbage":        "not wkt at all",
		"out of range":   "POINT(200 10)",
		"wgs84 prefixed": crs + " POINT(10 95)",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := geometry.ParsePoint(input)
			assert.True(t, errors.Is(err, geometry.ErrMalformedInput), "got %v", err)
		})
	}
}
