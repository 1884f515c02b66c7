package sos

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pesekon2/sos-tools-go/temporal"
)

// Offering is a named grouping of procedures and observed properties
// with a common temporal extent.
type Offering struct {
	ID                 string
	Name               string
	Procedures         []string
	ObservedProperties []string
	ResponseFormats    []string
	Begin              time.Time
	End                time.Time
}

// Window is the offering's full temporal extent.
func (o Offering) Window() temporal.Window {
	return temporal.Window{Start: o.Begin, End: o.End}
}

type Capabilities struct {
	Offerings []Offering
}

// Offering looks an offering up by its identifier.
func (c *Capabilities) Offering(id string) (Offering, error) {
	for _, off := range c.Offerings {
		if off.ID == id {
			return off, nil
		}
	}
	return Offering{}, fmt.Errorf("offering %q is not advertised by the service", id)
}

func (c *Client) GetCapabilities(ctx context.Context) (*Capabilities, error) {
	params := url.Values{}
	params.Set("request", "GetCapabilities")
	params.Set("acceptVersions", c.version)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	caps, err := parseCapabilities(body)
	if err != nil {
		return nil, fmt.Errorf("parsing capabilities: %w", err)
	}
	return caps, nil
}

// parseCapabilities walks the capabilities document by local element
// names so that both the 1.0.0 and 2.0.0 namespaces are accepted.
func parseCapabilities(data []byte) (*Capabilities, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	caps := &Capabilities{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "ObservationOffering" {
			continue
		}
		off, err := parseOffering(dec, start)
		if err != nil {
			return nil, err
		}
		caps.Offerings = append(caps.Offerings, off)
	}

	if len(caps.Offerings) == 0 {
		return nil, fmt.Errorf("no observation offerings found")
	}
	return caps, nil
}

func parseOffering(dec *xml.Decoder, start xml.StartElement) (Offering, error) {
	var off Offering
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			off.ID = attr.Value
		}
	}

	depth := 1
	var element string
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return off, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			element = t.Name.Local
			switch element {
			case "procedure":
				if href := xlinkHref(t.Attr); href != "" {
					off.Procedures = append(off.Procedures, href)
				}
			case "observedProperty":
				if href := xlinkHref(t.Attr); href != "" {
					off.ObservedProperties = append(off.ObservedProperties, href)
				}
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			switch element {
			case "name":
				if off.Name == "" {
					off.Name = text
				}
			case "identifier":
				if off.ID == "" {
					off.ID = text
				}
			case "beginPosition":
				if ts, err := temporal.ParseTimestamp(text); err == nil {
					off.Begin = ts
				}
			case "endPosition":
				if ts, err := temporal.ParseTimestamp(text); err == nil {
					off.End = ts
				}
			case "procedure":
				off.Procedures = append(off.Procedures, text)
			case "observedProperty":
				off.ObservedProperties = append(off.ObservedProperties, text)
			case "responseFormat":
				off.ResponseFormats = append(off.ResponseFormats, text)
			}
			element = ""
		}
	}

	if off.ID == "" {
		off.ID = off.Name
	}
	return off, nil
}

func xlinkHref(attrs []xml.Attr) string {
	for _, attr := range attrs {
		if attr.Name.Local == "href" {
			return attr.Value
		}
	}
	return ""
}

// parseServiceException reports an OWS exception document as an error,
// or nil when the body is not an exception report.
func parseServiceException(data []byte) *ServiceException {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return nil
	}
	if !bytes.Contains(trimmed[:min(len(trimmed), 512)], []byte("ExceptionReport")) {
		return nil
	}

	dec := xml.NewDecoder(bytes.NewReader(trimmed))
	exc := &ServiceException{}
	var inText bool
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Exception", "ServiceException":
				for _, attr := range t.Attr {
					if attr.Name.Local == "exceptionCode" || attr.Name.Local == "code" {
						exc.Code = attr.Value
					}
				}
				inText = t.Name.Local == "ServiceException"
			case "ExceptionText":
				inText = true
			}
		case xml.EndElement:
			inText = false
		case xml.CharData:
			if inText {
				exc.Text += strings.TrimSpace(string(t))
			}
		}
	}

	if exc.Code == "" && exc.Text == "" {
		exc.Code = "NoApplicableCode"
	}
	return exc
}
