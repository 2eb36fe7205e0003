package models

type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
)

// Criteria is the normalized search state derived from the raw query string.
// An empty string means the field is unset; Guests is always at least 1.
// A Criteria is created per navigation event and discarded on the next
// search, never mutated in place.
type Criteria struct {
	From       string
	To         string
	DepartDate string
	ReturnDate string
	Guests     int
	Trip       TripType
}

func (c Criteria) RoundTrip() bool {
	return c.Trip != TripOneWay
}

// DisplayedSearch is the "what you searched for" projection with
// human-facing defaults substituted for unset fields. It is derived from a
// Criteria and never written back to it.
type DisplayedSearch struct {
	From       string `json:"from"`
	To         string `json:"to"`
	DepartDate string `json:"depart_date"`
	Guests     string `json:"guests"`
}
