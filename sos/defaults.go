package sos

// FillDefaults completes a request the way the command line tools treat
// omitted options: no procedures means all of them, no properties means
// every property of the offering, and an empty event time falls back to
// the offering's full temporal extent.
func (req GetObservationRequest) FillDefaults(off Offering) GetObservationRequest {
	if req.Offering == "" {
		req.Offering = off.ID
	}
	if len(req.ObservedProperties) == 0 {
		req.ObservedProperties = off.ObservedProperties
	}
	if req.EventTime.IsZero() {
		req.EventTime = off.Window()
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatOM
	}
	return req
}
