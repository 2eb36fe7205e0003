package models

// PassengerRecord is one guest seat's worth of traveller details. Every
// field is required; the email must be a well-formed address.
type PassengerRecord struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	DOB       string `json:"dob" validate:"required"`
	Gender    string `json:"gender" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// BookingRequest is assembled once per user confirmation click and
// submitted exactly one time. The owner is always passengers[0].
type BookingRequest struct {
	Passengers      []PassengerRecord `json:"passengers"`
	Owner           PassengerRecord   `json:"owner"`
	FlightID        string            `json:"flight_id"`
	ReturnDate      string            `json:"return_date,omitempty"`
	PaymentReceived bool              `json:"payment_received"`
}

func (r *BookingRequest) Validate() error {
	if len(r.Passengers) == 0 {
		return ErrNoPassengers
	}
	if r.FlightID == "" {
		return ErrMissingFlightID
	}
	return nil
}

// BookingResult is created by the backend and read-only thereafter.
type BookingResult struct {
	ReferenceNumber string            `json:"reference_number"`
	DepartureFlight *Flight           `json:"departure_flight,omitempty"`
	ReturningFlight *Flight           `json:"returning_flight,omitempty"`
	Passengers      []PassengerRecord `json:"passengers,omitempty"`
	Status          string            `json:"status,omitempty"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrNoPassengers    ValidationError = "at least one passenger is required"
	ErrMissingFlightID ValidationError = "flight id is required"
)
