package sos

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// member is one om:member of an O&M 1.0 observation collection in the
// shape needed to build series: station identity, geometry and the
// DataArray text block.
type member struct {
	procedure      string
	srsName        string
	coords         []float64
	fields         []dataField
	tokenSeparator string
	blockSeparator string
	values         string
}

type dataField struct {
	name       string
	definition string
	isTime     bool
}

// parseObservationsXML decodes a text/xml;subtype="om/1.0.0" response.
// One series is produced per member and requested observed property.
func parseObservationsXML(data []byte, properties []string) ([]Series, error) {
	members, err := parseMembers(data)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNoObservations
	}

	var out []Series
	for _, prop := range properties {
		found := false
		for _, m := range members {
			s, ok, err := m.series(prop)
			if err != nil {
				return nil, fmt.Errorf("procedure %s: %w", m.procedure, err)
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

func parseMembers(data []byte) ([]member, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var members []member

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing observation collection: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "member" {
			continue
		}
		m, err := parseMember(dec)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, nil
}

func parseMember(dec *xml.Decoder) (member, error) {
	m := member{tokenSeparator: ",", blockSeparator: ";"}

	depth := 1
	var element string
	var inLocation bool
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return m, fmt.Errorf("parsing member: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			element = t.Name.Local
			switch element {
			case "procedure":
				if href := xlinkHref(t.Attr); href != "" {
					m.procedure = href
				}
			case "field":
				m.fields = append(m.fields, dataField{name: xmlAttr(t.Attr, "name")})
			case "Time":
				if n := len(m.fields); n > 0 {
					m.fields[n-1].isTime = true
					m.fields[n-1].definition = xmlAttr(t.Attr, "definition")
				}
			case "Quantity", "Text", "Category", "Boolean":
				if n := len(m.fields); n > 0 && m.fields[n-1].definition == "" {
					m.fields[n-1].definition = xmlAttr(t.Attr, "definition")
				}
			case "TextBlock":
				if sep := xmlAttr(t.Attr, "tokenSeparator"); sep != "" {
					m.tokenSeparator = sep
				}
				if sep := xmlAttr(t.Attr, "blockSeparator"); sep != "" {
					m.blockSeparator = sep
				}
			case "position", "location":
				inLocation = true
			case "Point":
				if inLocation && m.srsName == "" {
					m.srsName = xmlAttr(t.Attr, "srsName")
				}
			}
		case xml.EndElement:
			depth--
			element = ""
			if t.Name.Local == "position" || t.Name.Local == "location" {
				inLocation = false
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			switch element {
			case "name":
				if m.procedure == "" {
					m.procedure = text
				}
			case "values":
				m.values = text
			case "coordinates":
				if inLocation && m.coords == nil {
					m.coords = parseCoords(text, ",")
				}
			case "pos":
				if inLocation && m.coords == nil {
					m.coords = parseCoords(text, " ")
				}
			}
		}
	}

	return m, nil
}

// series extracts the column of one observed property from the member's
// DataArray. ok is false when the member does not carry the property.
func (m member) series(property string) (Series, bool, error) {
	timeIdx := -1
	valueIdx := -1
	for i, f := range m.fields {
		if f.isTime || strings.EqualFold(f.name, "Time") || strings.Contains(f.definition, "isoTime") {
			if timeIdx < 0 {
				timeIdx = i
			}
			continue
		}
		if strings.Contains(f.definition, property) || strings.Contains(f.name, property) {
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
		Procedure: m.procedure,
		Property:  property,
		EPSG:      parseEPSG(m.srsName),
	}
	if len(m.coords) >= 2 {
		s.Point = orb.Point{m.coords[0], m.coords[1]}
	}
	if len(m.coords) >= 3 {
		s.Z = m.coords[2]
	}

	if m.values == "" {
		return s, true, nil
	}

	for _, block := range strings.Split(m.values, m.blockSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		tokens := strings.Split(block, m.tokenSeparator)
		if timeIdx >= len(tokens) || valueIdx >= len(tokens) {
			return s, true, fmt.Errorf("values row %q has fewer tokens than declared fields", block)
		}

		ts, err := temporal.ParseTimestamp(tokens[timeIdx])
		if err != nil {
			return s, true, err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(tokens[valueIdx]), 64)
		if err != nil {
			// noData markers and the like, nothing to import
			continue
		}
		s.Readings = append(s.Readings, Reading{Time: ts, Value: value})
	}

	return s, true, nil
}

func parseCoords(text, sep string) []float64 {
	var coords []float64
	for _, part := range strings.Split(strings.TrimSpace(text), sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil
		}
		coords = append(coords, v)
	}
	return coords
}

func xmlAttr(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
