package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Base locations are always stored as EPSG:3857. SQLite has no spatial awareness, so the
// point is written as WKB and read back through the geom Scan function on both drivers.

// MaxMercatorLatitude is the latitude limit of the web mercator projection.
const MaxMercatorLatitude = 85.05112878

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseLonLat parses a string in the format "long,lat".
func ParseLonLat(coords string) (lon, lat float64, err error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidCoordinates
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	if !validLonLat(lon, lat) {
		return 0, 0, ErrInvalidCoordinates
	}
	return lon, lat, nil
}

func validLonLat(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return false
	}
	return lon >= -180 && lon <= 180 && math.Abs(lat) <= MaxMercatorLatitude
}

// Point3857From4326 converts a WGS84 longitude and latitude to a web mercator point.
func Point3857From4326(longitude, latitude float64) (geom.Point, error) {
	if !validLonLat(longitude, latitude) {
		return geom.Point{}, ErrInvalidCoordinates
	}
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}}), nil
}

// LonLatFrom3857 converts a web mercator point back to WGS84.
func LonLatFrom3857(p geom.Point) (lon, lat float64, err error) {
	c, ok := p.Coordinates()
	if !ok {
		return 0, 0, ErrInvalidCoordinates
	}
	f := wgs84.EPSG().Transform(3857, 4326)
	lon, lat, _ = f(c.X, c.Y, 0)
	return lon, lat, nil
}
