package models

// Airport is the {code, id, name} triple the backend uses for both ends of a
// flight and for the autocomplete list.
type Airport struct {
	Code string `json:"code"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Flight is immutable once fetched; views derive fresh slices instead of
// mutating the result set.
type Flight struct {
	ID               string  `json:"id"`
	FlightNum        string  `json:"flight_num"`
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	DepartureTime    string  `json:"departure_time"`
	ArrivalTime      string  `json:"arrival_time"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Cost             string  `json:"cost"`
	DurationMinutes  int     `json:"duration"`
}

// FlightResultSet holds the outgoing and returning lists from one search
// call. It is owned by the results view for the lifetime of that search.
type FlightResultSet struct {
	Outgoing  []Flight `json:"outgoing_flights"`
	Returning []Flight `json:"returning_flights"`
}
