// Package gis bundles the small amount of geospatial plumbing the boundary
// tools need: polygon shapefiles, UTM conversions and point-in-polygon
// classification.
package gis

import (
	"fmt"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// PolyFeature is one polygon record from a shapefile together with the
// attribute columns that were requested.
type PolyFeature struct {
	geom.Polygonal
	Fields map[string]string
}

// ReadPolygons decodes every polygon from the shapefile at path, carrying
// along the named attribute fields. Non-polygonal records are an error.
func ReadPolygons(path string, fieldNames ...string) (feats []PolyFeature, err error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	for {
		g, fields, more := dec.DecodeRowFields(fieldNames...)
		if !more {
			break
		}
		poly, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("%s: feature %d is a %T, need a polygon", path, len(feats), g)
		}
		feats = append(feats, PolyFeature{Polygonal: poly, Fields: fields})
	}
	if err = dec.Error(); err != nil {
		return nil, err
	}
	return
}

// IntField parses the named attribute of f as an integer.
func (f PolyFeature) IntField(name string) (int, error) {
	s, ok := f.Fields[name]
	if !ok {
		return 0, fmt.Errorf("polygon has no field %q", name)
	}
	// dbf numeric columns may come through as "2" or "2.0"
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return int(v), nil
}
