package convert

import (
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/pesekon2/sos-tools-go/sos"
)

// SeriesToGeoJSON turns fetched observation series into a GeoJSON
// feature collection, one point feature per procedure and property.
// Readings become a properties object keyed by RFC 3339 timestamp.
func SeriesToGeoJSON(series []sos.Series) (*geojson.FeatureCollection, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to convert")
	}

	fc := geojson.NewFeatureCollection()
	for _, s := range series {
		f := geojson.NewFeature(s.Point)
		f.Properties["procedure"] = s.Procedure
		f.Properties["observed_property"] = s.Property
		if s.EPSG != 0 {
			f.Properties["epsg"] = s.EPSG
		}
		if s.Z != 0 {
			f.Properties["z"] = TwoDecimals(s.Z)
		}

		readings := make(map[string]float64, len(s.Readings))
		for _, r := range s.Readings {
			readings[r.Time.UTC().Format(time.RFC3339)] = r.Value
		}
		f.Properties["readings"] = readings

		fc.Append(f)
	}

	return fc, nil
}
