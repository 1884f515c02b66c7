package sos

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/pesekon2/sos-tools-go/temporal"
)

// ErrNoObservations is returned when the response carries no members at
// all, usually a sign of a too narrow event time or wrong procedures.
var ErrNoObservations = errors.New("no observations returned, check event time, observed properties, procedures and offerings")

// Reading is a single timestamped measurement.
type Reading struct {
	Time  time.Time
	Value float64
}

// Series holds the readings of one observed property at one procedure.
type Series struct {
	Procedure string
	Property  string
	EPSG      int
	Point     orb.Point
	Z         float64
	Readings  []Reading
}

// IsEmpty reports whether the procedure delivered no readings.
func (s Series) IsEmpty() bool {
	return len(s.Readings) == 0
}

type GetObservationRequest struct {
	Offering           string
	ObservedProperties []string
	Procedures         []string
	EventTime          temporal.Window
	ResponseFormat     string
}

// GetObservation fetches the raw observation document for one offering.
func (c *Client) GetObservation(ctx context.Context, req GetObservationRequest) ([]byte, error) {
	format := req.ResponseFormat
	if format == "" {
		format = FormatOM
	}

	params := url.Values{}
	params.Set("request", "GetObservation")
	params.Set("version", c.version)
	params.Set("offering", req.Offering)
	params.Set("responseFormat", format)
	if len(req.ObservedProperties) > 0 {
		params.Set("observedProperty", strings.Join(req.ObservedProperties, ","))
	}
	if len(req.Procedures) > 0 {
		params.Set("procedure", strings.Join(req.Procedures, ","))
	}
	if !req.EventTime.IsZero() {
		params.Set("eventTime", req.EventTime.String())
	}

	return c.get(ctx, params)
}

// FetchSeries fetches and parses observations, one series per
// procedure and observed property.
func (c *Client) FetchSeries(ctx context.Context, req GetObservationRequest) ([]Series, error) {
	body, err := c.GetObservation(ctx, req)
	if err != nil {
		return nil, err
	}

	format := req.ResponseFormat
	if format == "" {
		format = FormatOM
	}

	series, err := ParseObservations(body, format, req.ObservedProperties)
	if err != nil {
		return nil, fmt.Errorf("offering %s: %w", req.Offering, err)
	}
	return series, nil
}

// ParseObservations decodes an observation document in one of the
// supported response formats.
func ParseObservations(data []byte, format string, properties []string) ([]Series, error) {
	switch {
	case strings.EqualFold(format, FormatJSON):
		return parseObservationsJSON(data, properties)
	case strings.HasPrefix(format, "text/xml"):
		return parseObservationsXML(data, properties)
	}
	return nil, fmt.Errorf("unsupported response format %q", format)
}

// parseEPSG extracts the numeric code from srsName values such as
// "EPSG:4326" or "urn:ogc:def:crs:EPSG::4326".
func parseEPSG(srsName string) int {
	parts := strings.Split(srsName, ":")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "" {
			continue
		}
		var code int
		if _, err := fmt.Sscanf(parts[i], "%d", &code); err == nil {
			return code
		}
		return 0
	}
	return 0
}
