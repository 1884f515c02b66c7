package sos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/pesekon2/sos-tools-go/temporal"
)

func testServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Query().Get("request")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(ClientOptions{URL: url + "?"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientValidation(t *testing.T) {
	is := is.New(t)

	_, err := NewClient(ClientOptions{URL: ""})
	is.True(err != nil) // empty url rejected

	_, err = NewClient(ClientOptions{URL: "istsos.org/istsos"})
	is.True(err != nil) // non-http url rejected

	_, err = NewClient(ClientOptions{URL: "http://example.com/sos?", Version: "3.0.0"})
	is.True(err != nil) // unknown version rejected

	c, err := NewClient(ClientOptions{URL: "http://example.com/sos?"})
	is.NoErr(err)
	is.Equal(c.Version(), Version100) // version defaults to 1.0.0
}

func TestGetCapabilities(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, map[string]string{"GetCapabilities": capabilitiesFixture})
	c := newTestClient(t, srv.URL)

	caps, err := c.GetCapabilities(context.Background())
	is.NoErr(err)
	is.Equal(len(caps.Offerings), 1)

	off, err := caps.Offering("WQ2")
	is.NoErr(err)
	is.Equal(off.Procedures, []string{"urn:ogc:object:feature:Sensor:station_1", "urn:ogc:object:feature:Sensor:station_2"})
	is.Equal(off.ObservedProperties, []string{"urn:ogc:def:property:noaa:ndbc:air_temperature"})
	is.Equal(off.Begin, time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC))
	is.Equal(off.End, time.Date(2015, time.June, 3, 0, 0, 0, 0, time.UTC))

	_, err = caps.Offering("nosuch")
	is.True(err != nil) // unknown offering reported
}

func TestGetCapabilitiesServiceException(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, map[string]string{"GetCapabilities": exceptionFixture})
	c := newTestClient(t, srv.URL)

	_, err := c.GetCapabilities(context.Background())
	is.True(err != nil)

	exc, ok := err.(*ServiceException)
	is.True(ok) // exception reports surface as ServiceException
	is.Equal(exc.Code, "InvalidParameterValue")
}

func TestFetchSeriesXML(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, map[string]string{"GetObservation": observationXMLFixture})
	c := newTestClient(t, srv.URL)

	series, err := c.FetchSeries(context.Background(), GetObservationRequest{
		Offering:           "WQ2",
		ObservedProperties: []string{"air_temperature"},
		EventTime: temporal.Window{
			Start: time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2015, time.June, 2, 0, 0, 0, 0, time.UTC),
		},
	})
	is.NoErr(err)
	is.Equal(len(series), 1)

	s := series[0]
	is.Equal(s.Procedure, "urn:ogc:object:feature:Sensor:station_1")
	is.Equal(s.Property, "air_temperature")
	is.Equal(s.EPSG, 4326)
	is.Equal(s.Point[0], 17.39)
	is.Equal(s.Point[1], 62.29)
	is.Equal(len(s.Readings), 3)
	is.Equal(s.Readings[0].Value, 12.5)
	is.Equal(s.Readings[0].Time, time.Date(2015, time.May, 31, 22, 0, 0, 0, time.UTC))
}

func TestParseObservationsXMLTrailingText(t *testing.T) {
	is := is.New(t)

	// Stray character data after a closing tag must not be read as the
	// content of the element that closed before it.
	doc := strings.Replace(observationXMLFixture,
		"</swe:DataArray>", "</swe:DataArray>\n        quality checked", 1)
	series, err := ParseObservations([]byte(doc), FormatOM, []string{"air_temperature"})
	is.NoErr(err)
	is.Equal(len(series), 1)
	is.Equal(len(series[0].Readings), 3)
}

func TestParseObservationsXMLUnknownProperty(t *testing.T) {
	is := is.New(t)

	_, err := ParseObservations([]byte(observationXMLFixture), FormatOM, []string{"sea_surface_salinity"})
	is.True(err != nil) // property missing from response must be reported
}

func TestParseObservationsXMLNoMembers(t *testing.T) {
	is := is.New(t)

	doc := `<?xml version="1.0"?><om:ObservationCollection xmlns:om="http://www.opengis.net/om/1.0"></om:ObservationCollection>`
	_, err := ParseObservations([]byte(doc), FormatOM, []string{"air_temperature"})
	is.Equal(err, ErrNoObservations)
}

func TestParseObservationsJSON(t *testing.T) {
	is := is.New(t)

	series, err := ParseObservations([]byte(observationJSONFixture), FormatJSON, []string{"air_temperature"})
	is.NoErr(err)
	is.Equal(len(series), 1)

	s := series[0]
	is.Equal(s.Procedure, "station_1")
	is.Equal(s.EPSG, 4326)
	is.Equal(s.Point[0], 17.39)
	is.Equal(s.Point[1], 62.29)
	is.Equal(len(s.Readings), 2)
	is.Equal(s.Readings[1].Value, 13.25)
}

func TestDescribeSensor(t *testing.T) {
	is := is.New(t)
	srv := testServer(t, map[string]string{"DescribeSensor": sensorMLFixture})
	c := newTestClient(t, srv.URL)

	sensor, err := c.DescribeSensor(context.Background(), "urn:ogc:object:feature:Sensor:station_1")
	is.NoErr(err)
	is.Equal(sensor.Name, "station_1")
	is.Equal(sensor.SensorType, "thermometer")
	is.Equal(sensor.SystemType, "fixed monitoring station")
	is.Equal(sensor.EPSG, 4326)
	is.Equal(sensor.Point[0], 17.39)
	is.Equal(sensor.Point[1], 62.29)
	is.Equal(sensor.Z, 5.0)
	is.Equal(sensor.Keywords, []string{"weather", "temperature"})
}

func TestFillDefaults(t *testing.T) {
	is := is.New(t)

	off := Offering{
		ID:                 "WQ2",
		Procedures:         []string{"p1", "p2"},
		ObservedProperties: []string{"air_temperature", "humidity"},
		Begin:              time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:                time.Date(2015, time.June, 3, 0, 0, 0, 0, time.UTC),
	}

	req := GetObservationRequest{}.FillDefaults(off)
	is.Equal(req.Offering, "WQ2")
	is.Equal(req.ObservedProperties, off.ObservedProperties)
	is.Equal(req.EventTime, off.Window())
	is.Equal(req.ResponseFormat, FormatOM)
	is.Equal(len(req.Procedures), 0) // no procedure restriction means all of them

	req = GetObservationRequest{
		ObservedProperties: []string{"humidity"},
		EventTime: temporal.Window{
			Start: off.Begin,
			End:   off.Begin.Add(time.Hour),
		},
	}.FillDefaults(off)
	is.Equal(req.ObservedProperties, []string{"humidity"}) // explicit properties kept
	is.Equal(req.EventTime.End, off.Begin.Add(time.Hour))  // explicit window kept
}
