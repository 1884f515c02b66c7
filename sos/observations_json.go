package sos

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// application/json observation collections as emitted by 52North
// endpoints: GML geometry embedded as a string, DataArray values as
// rows of strings.
type jsonCollection struct {
	ObservationCollection struct {
		Member []jsonMember `json:"member"`
	} `json:"ObservationCollection"`
}

type jsonMember struct {
	Name              string `json:"name"`
	FeatureOfInterest struct {
		Geom string `json:"geom"`
	} `json:"featureOfInterest"`
	Result struct {
		DataArray struct {
			ElementCount string `json:"elementCount"`
			Field        []struct {
				Name       string `json:"name"`
				Definition string `json:"definition"`
			} `json:"field"`
			Values [][]string `json:"values"`
		} `json:"DataArray"`
	} `json:"result"`
}

var (
	srsNameRe  = regexp.MustCompile(`srsName=["']([^"']+)["']`)
	gmlCoordRe = regexp.MustCompile(`<gml:(?:pos|coordinates)[^>]*>([^<]+)<`)
)

func parseObservationsJSON(data []byte, properties []string) ([]Series, error) {
	var coll jsonCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("parsing observation collection: %w", err)
	}

	members := coll.ObservationCollection.Member
	if len(members) == 0 {
		return nil, ErrNoObservations
	}

	var out []Series
	for _, prop := range properties {
		found := false
		for _, m := range members {
			s, ok, err := m.series(prop)
			if err != nil {
				return nil, fmt.Errorf("procedure %s: %w", m.Name, err)
			}
			if !ok {
				continue
			}
			found = true
			out = append(out, s)
		}
		if !found {
			return nil, fmt.Errorf("observed property %q was not found in the response, check it for typos", prop)
		}
	}

	return out, nil
}

func (m jsonMember) series(property string) (Series, bool, error) {
	da := m.Result.DataArray

	timeIdx := -1
	valueIdx := -1
	for i, f := range da.Field {
		if strings.EqualFold(f.Name, "Time") || strings.Contains(f.Definition, "isoTime") {
			if timeIdx < 0 {
				timeIdx = i
			}
			continue
		}
		if strings.Contains(f.Definition, property) || strings.Contains(f.Name, property) {
			valueIdx = i
		}
	}
	if valueIdx < 0 {
		return Series{}, false, nil
	}
	if timeIdx < 0 {
		timeIdx = 0
	}

	s := Series{
		Procedure: m.Name,
		Property:  property,
	}

	if srs := srsNameRe.FindStringSubmatch(m.FeatureOfInterest.Geom); srs != nil {
		s.EPSG = parseEPSG(srs[1])
	}
	if coordMatch := gmlCoordRe.FindStringSubmatch(m.FeatureOfInterest.Geom); coordMatch != nil {
		sep := " "
		if strings.Contains(coordMatch[1], ",") {
			sep = ","
		}
		coords := parseCoords(coordMatch[1], sep)
		if len(coords) >= 2 {
			s.Point = orb.Point{coords[0], coords[1]}
		}
		if len(coords) >= 3 {
			s.Z = coords[2]
		}
	}

	for _, row := range da.Values {
		if timeIdx >= len(row) || valueIdx >= len(row) {
			return s, true, fmt.Errorf("values row has fewer columns than declared fields")
		}
		ts, err := temporal.ParseTimestamp(row[timeIdx])
		if err != nil {
			return s, true, err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			continue
		}
		s.Readings = append(s.Readings, Reading{Time: ts, Value: value})
	}

	return s, true, nil
}
