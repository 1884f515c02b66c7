package sos

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
)

const sensorMLFormat = `text/xml;subtype="sensorML/1.0.1"`

// Sensor is the station metadata of one procedure, taken from the
// SensorML system description.
type Sensor struct {
	Procedure   string
	Name        string
	Description string
	Keywords    []string
	SensorType  string
	SystemType  string
	EPSG        int
	Point       orb.Point
	Z           float64
}

// DescribeSensor fetches and decodes the SensorML description of one
// procedure.
func (c *Client) DescribeSensor(ctx context.Context, procedure string) (*Sensor, error) {
	params := url.Values{}
	params.Set("request", "DescribeSensor")
	params.Set("version", c.version)
	params.Set("procedure", procedure)
	if c.version == Version200 {
		params.Set("procedureDescriptionFormat", "http://www.opengis.net/sensorML/1.0.1")
	} else {
		params.Set("outputFormat", sensorMLFormat)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	sensor, err := parseSensorML(body)
	if err != nil {
		return nil, fmt.Errorf("parsing sensor description for %s: %w", procedure, err)
	}
	sensor.Procedure = procedure
	return sensor, nil
}

func parseSensorML(data []byte) (*Sensor, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	sensor := &Sensor{}

	var element string
	var classifierName string
	var inLocation bool
	var coords []float64
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			element = t.Name.Local
			switch element {
			case "Classifier":
				classifierName = xmlAttr(t.Attr, "name")
			case "location":
				inLocation = true
			case "Point":
				if inLocation && sensor.EPSG == 0 {
					sensor.EPSG = parseEPSG(xmlAttr(t.Attr, "srsName"))
				}
			}
		case xml.EndElement:
			if t.Name.Local == "location" {
				inLocation = false
			}
			if t.Name.Local == "Classifier" {
				classifierName = ""
			}
			element = ""
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			switch element {
			case "name":
				if sensor.Name == "" {
					sensor.Name = text
				}
			case "description":
				if sensor.Description == "" {
					sensor.Description = text
				}
			case "keyword":
				sensor.Keywords = append(sensor.Keywords, text)
			case "value":
				switch classifierName {
				case "Sensor Type":
					sensor.SensorType = text
				case "System Type":
					sensor.SystemType = text
				}
			case "coordinates":
				if inLocation && coords == nil {
					coords = parseCoords(strings.ReplaceAll(text, "\n", ""), ",")
				}
			case "pos":
				if inLocation && coords == nil {
					coords = parseCoords(text, " ")
				}
			}
		}
	}

	if len(coords) >= 2 {
		sensor.Point = orb.Point{coords[0], coords[1]}
	}
	if len(coords) >= 3 {
		sensor.Z = coords[2]
	}

	if sensor.Name == "" {
		return nil, fmt.Errorf("no system description found")
	}
	return sensor, nil
}
