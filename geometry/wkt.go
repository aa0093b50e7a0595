// Package geometry encodes site locations as CRS-prefixed GeoSPARQL WKT literals.
//
// GeoSPARQL WKT uses (longitude latitude) order, not (latitude longitude).
// Every literal produced or normalised here starts with exactly one CRS IRI
// in angle brackets.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ErrMalformedInput is returned for non-finite or out-of-range coordinates
// and for WKT that is empty or not a single point.
var ErrMalformedInput = errors.New("malformed geometry input")

// DefaultPrecision is the number of decimal digits written per coordinate.
const DefaultPrecision = 6

// crsPrefix is prepended to bare WKT.
const crsPrefix = "<" + geolod.CRSWGS84 + "> "

// PointWKT formats lon/lat as "<CRS> POINT(lon lat)" with both coordinates
// fixed to precision decimal digits. A negative precision selects
// DefaultPrecision.
func PointWKT(lon, lat float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return crsPrefix + "POINT(" +
		strconv.FormatFloat(lon, 'f', precision, 64) + " " +
		strconv.FormatFloat(lat, 'f', precision, 64) + ")"
}

// EnsureCRS trims wkt and prepends the WGS84 CRS prefix unless the string
// already starts with '<'. Already-prefixed input is returned unchanged, so
// EnsureCRS(EnsureCRS(w)) == EnsureCRS(w).
func EnsureCRS(wkt string) string {
	wkt = strings.TrimSpace(wkt)
	if strings.HasPrefix(wkt, "<") {
		return wkt
	}
	return crsPrefix + wkt
}

// SplitCRS separates a leading "<crs>" from the WKT body. crs is empty when
// the input has no prefix.
func SplitCRS(s string) (crs, body string, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return "", s, nil
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", "", fmt.Errorf("%w: unterminated CRS IRI in %q", ErrMalformedInput, s)
	}
	crs = s[1:end]
	if crs == "" {
		return "", "", fmt.Errorf("%w: empty CRS IRI in %q", ErrMalformedInput, s)
	}
	return crs, strings.TrimSpace(s[end+1:]), nil
}

// ValidateCoordinates rejects NaN, infinite and out-of-range longitude/latitude.
func ValidateCoordinates(lon, lat float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: longitude %v is not finite", ErrMalformedInput, lon)
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("%w: latitude %v is not finite", ErrMalformedInput, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrMalformedInput, lon)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrMalformedInput, lat)
	}
	return nil
}

// ParsePoint parses a WKT POINT, with or without a CRS prefix, and returns
// the point and its CRS IRI (empty when absent). Coordinates of WGS84 and
// CRS84 points must be valid longitude/latitude values.
func ParsePoint(s string) (orb.Point, string, error) {
	crs, body, err := SplitCRS(s)
	if err != nil {
		return orb.Point{}, "", err
	}
	if body == "" {
		return orb.Point{}, "", fmt.Errorf("%w: empty WKT", ErrMalformedInput)
	}

	geom, err := wkt.Unmarshal(body)
	if err != nil {
		return orb.Point{}, "", fmt.Errorf("%w: %q: %v", ErrMalformedInput, body, err)
	}
	p, ok := geom.(orb.Point)
	if !ok {
		return orb.Point{}, "", fmt.Errorf("%w: %s is not a POINT", ErrMalformedInput, geom.GeoJSONType())
	}

	if crs == "" || crs == geolod.CRSWGS84 || crs == geolod.CRS84 {
		if err := ValidateCoordinates(p.Lon(), p.Lat()); err != nil {
			return orb.Point{}, "", err
		}
	} else if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
		return orb.Point{}, "", fmt.Errorf("%w: non-finite coordinate in %q", ErrMalformedInput, body)
	}
	return p, crs, nil
}
