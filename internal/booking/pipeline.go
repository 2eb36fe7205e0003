package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/internal/skyway"
)

// State of one booking attempt.
type State string

const (
	StateCollecting  State = "collecting"
	StateSubmitting  State = "submitting"
	StateConfirmed   State = "confirmed"
	StateAlreadyPaid State = "already_paid"
	StateAuthExpired State = "auth_expired"
	StateFailed      State = "failed"
)

// ErrSubmissionInFlight marks a submit issued while one is already pending.
// The duplicate is ignored: it must not produce a second booking request.
var ErrSubmissionInFlight = errors.New("submission already in flight")

var errMissingRecord = errors.New("passenger details missing")

// ValidationError reports the slot that failed field validation. It never
// reaches the network; a submit that trips it leaves the pipeline collecting.
type ValidationError struct {
	Slot int
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("passenger %d: %v", e.Slot+1, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Submitter is the slice of the backend client the pipeline needs.
type Submitter interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error)
	ConfirmPayment(ctx context.Context, bookingID string) (*models.BookingResult, error)
}

// Outcome is the result of driving the pipeline one step.
type Outcome struct {
	State     State
	BookingID string
	Err       error
}

// Pipeline collects exactly guestCount passenger records for one flight and
// submits them at most once per confirmation click. Flight id and guest
// count are fixed for its lifetime; a different flight or guest count means
// a fresh instance.
type Pipeline struct {
	flightID   string
	guests     int
	returnDate string
	client     Submitter
	validate   *validator.Validate

	mu        sync.Mutex
	state     State
	slots     []*models.PassengerRecord
	reference string
}

func NewPipeline(client Submitter, flightID string, guests int, returnDate string) (*Pipeline, error) {
	if flightID == "" {
		return nil, models.ErrMissingFlightID
	}
	if guests < 1 {
		guests = 1
	}
	return &Pipeline{
		flightID:   flightID,
		guests:     guests,
		returnDate: returnDate,
		client:     client,
		validate:   validator.New(),
		state:      StateCollecting,
		slots:      make([]*models.PassengerRecord, guests),
	}, nil
}

func (p *Pipeline) FlightID() string {
	return p.flightID
}

func (p *Pipeline) GuestCount() int {
	return p.guests
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Reference is the backend's reference number once the attempt confirmed.
func (p *Pipeline) Reference() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reference
}

// Completed reports which slots hold a validated record.
func (p *Pipeline) Completed() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	done := make([]bool, len(p.slots))
	for i, slot := range p.slots {
		done[i] = slot != nil
	}
	return done
}

// SetPassenger validates and stores one guest's record. Rejected records
// leave the slot as it was.
func (p *Pipeline) SetPassenger(index int, rec models.PassengerRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.slots) {
		return fmt.Errorf("passenger slot %d out of range", index)
	}
	if p.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	if err := p.validate.Struct(rec); err != nil {
		return &ValidationError{Slot: index, Err: err}
	}
	p.slots[index] = &rec
	return nil
}

// Submit assembles and sends the booking request. It is rejected while any
// slot is missing or invalid (the pipeline stays collecting and nothing
// goes on the wire) and ignored while a previous submit is still pending.
// On success the form is cleared and the caller routes to the payment
// summary keyed by the returned reference; on 401 and on transport failure
// the form is retained.
func (p *Pipeline) Submit(ctx context.Context) Outcome {
	p.mu.Lock()
	if p.state == StateSubmitting {
		p.mu.Unlock()
		return Outcome{State: StateSubmitting, Err: ErrSubmissionInFlight}
	}
	if p.state == StateConfirmed || p.state == StateAlreadyPaid {
		state, ref := p.state, p.reference
		p.mu.Unlock()
		return Outcome{State: state, BookingID: ref}
	}

	req, err := p.assemble()
	if err != nil {
		p.state = StateCollecting
		p.mu.Unlock()
		return Outcome{State: StateCollecting, Err: err}
	}

	p.state = StateSubmitting
	p.mu.Unlock()

	result, err := p.client.CreateBooking(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case err == nil:
		p.state = StateConfirmed
		p.reference = result.ReferenceNumber
		p.slots = make([]*models.PassengerRecord, p.guests)
		return Outcome{State: StateConfirmed, BookingID: result.ReferenceNumber}
	case errors.Is(err, skyway.ErrAuthExpired):
		p.state = StateAuthExpired
		return Outcome{State: StateAuthExpired, Err: err}
	default:
		p.state = StateFailed
		return Outcome{State: StateFailed, Err: err}
	}
}

// assemble builds the write-once booking request, owner = passengers[0].
func (p *Pipeline) assemble() (models.BookingRequest, error) {
	passengers := make([]models.PassengerRecord, 0, len(p.slots))
	for i, slot := range p.slots {
		if slot == nil {
			return models.BookingRequest{}, &ValidationError{Slot: i, Err: errMissingRecord}
		}
		if err := p.validate.Struct(*slot); err != nil {
			return models.BookingRequest{}, &ValidationError{Slot: i, Err: err}
		}
		passengers = append(passengers, *slot)
	}

	req := models.BookingRequest{
		Passengers: passengers,
		Owner:      passengers[0],
		FlightID:   p.flightID,
		ReturnDate: p.returnDate,
	}
	if err := req.Validate(); err != nil {
		return models.BookingRequest{}, err
	}
	return req, nil
}

// ConfirmPayment drives the payment step for a created booking. A conflict
// means someone already paid: the caller routes straight to the
// confirmation view with the same booking id and shows no error.
func ConfirmPayment(ctx context.Context, client Submitter, bookingID string) Outcome {
	_, err := client.ConfirmPayment(ctx, bookingID)
	switch {
	case err == nil:
		return Outcome{State: StateConfirmed, BookingID: bookingID}
	case errors.Is(err, skyway.ErrAlreadyPaid):
		return Outcome{State: StateAlreadyPaid, BookingID: bookingID}
	case errors.Is(err, skyway.ErrAuthExpired):
		return Outcome{State: StateAuthExpired, Err: err}
	default:
		return Outcome{State: StateFailed, Err: err}
	}
}
