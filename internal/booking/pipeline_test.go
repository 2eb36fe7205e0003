package booking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/internal/skyway"
)

type fakeSubmitter struct {
	createCalls  atomic.Int64
	confirmCalls atomic.Int64
	createFn     func(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error)
	confirmFn    func(ctx context.Context, bookingID string) (*models.BookingResult, error)
}

func (f *fakeSubmitter) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
	f.createCalls.Add(1)
	if f.createFn == nil {
		return &models.BookingResult{ReferenceNumber: "SKY-REF"}, nil
	}
	return f.createFn(ctx, req)
}

func (f *fakeSubmitter) ConfirmPayment(ctx context.Context, bookingID string) (*models.BookingResult, error) {
	f.confirmCalls.Add(1)
	if f.confirmFn == nil {
		return &models.BookingResult{ReferenceNumber: bookingID, Status: "Paid"}, nil
	}
	return f.confirmFn(ctx, bookingID)
}

func validPassenger(email string) models.PassengerRecord {
	return models.PassengerRecord{
		FirstName: "Ada",
		LastName:  "Lovelace",
		DOB:       "1990-12-10",
		Gender:    "female",
		Email:     email,
		Phone:     "555-0100",
	}
}

func TestNewPipelineDefaultsGuests(t *testing.T) {
	p, err := NewPipeline(&fakeSubmitter{}, "FL-1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, p.GuestCount())

	_, err = NewPipeline(&fakeSubmitter{}, "", 1, "")
	assert.Error(t, err)
}

func TestSetPassengerRejectsInvalidRecord(t *testing.T) {
	p, err := NewPipeline(&fakeSubmitter{}, "FL-1", 1, "")
	require.NoError(t, err)

	rec := validPassenger("not-an-email")
	err = p.SetPassenger(0, rec)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, vErr.Slot)
	assert.Equal(t, []bool{false}, p.Completed(), "rejected record leaves the slot empty")
}

func TestSetPassengerRejectsMissingFields(t *testing.T) {
	p, err := NewPipeline(&fakeSubmitter{}, "FL-1", 1, "")
	require.NoError(t, err)

	rec := validPassenger("ada@example.com")
	rec.Phone = ""

	assert.Error(t, p.SetPassenger(0, rec))
}

func TestSetPassengerOutOfRange(t *testing.T) {
	p, err := NewPipeline(&fakeSubmitter{}, "FL-1", 2, "")
	require.NoError(t, err)

	assert.Error(t, p.SetPassenger(2, validPassenger("ada@example.com")))
	assert.Error(t, p.SetPassenger(-1, validPassenger("ada@example.com")))
}

func TestSubmitIncompleteMakesNoNetworkCall(t *testing.T) {
	client := &fakeSubmitter{}
	p, err := NewPipeline(client, "FL-1", 2, "")
	require.NoError(t, err)

	require.NoError(t, p.SetPassenger(0, validPassenger("ada@example.com")))

	out := p.Submit(context.Background())

	assert.Equal(t, StateCollecting, out.State)
	assert.Error(t, out.Err)
	assert.EqualValues(t, 0, client.createCalls.Load(), "validation failures never reach the network")
	assert.Equal(t, StateCollecting, p.State())
}

func TestSubmitSuccessConfirmsAndClearsForm(t *testing.T) {
	client := &fakeSubmitter{
		createFn: func(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
			assert.Len(t, req.Passengers, 2)
			assert.Equal(t, req.Passengers[0], req.Owner, "owner is always the first passenger")
			assert.Equal(t, "FL-1", req.FlightID)
			assert.False(t, req.PaymentReceived)
			return &models.BookingResult{ReferenceNumber: "SKY-42"}, nil
		},
	}
	p, err := NewPipeline(client, "FL-1", 2, "2026-09-10")
	require.NoError(t, err)

	require.NoError(t, p.SetPassenger(0, validPassenger("ada@example.com")))
	require.NoError(t, p.SetPassenger(1, validPassenger("grace@example.com")))

	out := p.Submit(context.Background())

	assert.Equal(t, StateConfirmed, out.State)
	assert.Equal(t, "SKY-42", out.BookingID)
	assert.Equal(t, "SKY-42", p.Reference())
	assert.Equal(t, []bool{false, false}, p.Completed(), "form is cleared on success")
}

func TestSecondSubmitWhileInFlightIsIgnored(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	client := &fakeSubmitter{
		createFn: func(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
			close(entered)
			<-release
			return &models.BookingResult{ReferenceNumber: "SKY-1"}, nil
		},
	}
	p, err := NewPipeline(client, "FL-1", 1, "")
	require.NoError(t, err)
	require.NoError(t, p.SetPassenger(0, validPassenger("ada@example.com")))

	done := make(chan Outcome, 1)
	go func() {
		done <- p.Submit(context.Background())
	}()
	<-entered

	second := p.Submit(context.Background())
	assert.Equal(t, StateSubmitting, second.State)
	assert.ErrorIs(t, second.Err, ErrSubmissionInFlight)

	close(release)
	first := <-done
	assert.Equal(t, StateConfirmed, first.State)
	assert.EqualValues(t, 1, client.createCalls.Load(), "exactly one booking request on the wire")
}

func TestSubmitAuthExpiredRetainsForm(t *testing.T) {
	client := &fakeSubmitter{
		createFn: func(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
			return nil, skyway.ErrAuthExpired
		},
	}
	p, err := NewPipeline(client, "FL-1", 1, "")
	require.NoError(t, err)
	require.NoError(t, p.SetPassenger(0, validPassenger("ada@example.com")))

	out := p.Submit(context.Background())

	assert.Equal(t, StateAuthExpired, out.State)
	assert.ErrorIs(t, out.Err, skyway.ErrAuthExpired)
	assert.Equal(t, []bool{true}, p.Completed(), "form retained for after re-login")
}

func TestSubmitFailureRetainsFormAndAllowsRetry(t *testing.T) {
	boom := errors.New("backend down")
	client := &fakeSubmitter{
		createFn: func(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
			return nil, boom
		},
	}
	p, err := NewPipeline(client, "FL-1", 1, "")
	require.NoError(t, err)
	require.NoError(t, p.SetPassenger(0, validPassenger("ada@example.com")))

	out := p.Submit(context.Background())
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, []bool{true}, p.Completed())

	// A user-initiated repeat is the only retry there is.
	client.createFn = nil
	out = p.Submit(context.Background())
	assert.Equal(t, StateConfirmed, out.State)
	assert.EqualValues(t, 2, client.createCalls.Load())
}

func TestConfirmPaymentSuccess(t *testing.T) {
	client := &fakeSubmitter{}

	out := ConfirmPayment(context.Background(), client, "BK-9")

	assert.Equal(t, StateConfirmed, out.State)
	assert.Equal(t, "BK-9", out.BookingID)
}

func TestConfirmPaymentConflictMeansAlreadyPaid(t *testing.T) {
	client := &fakeSubmitter{
		confirmFn: func(ctx context.Context, bookingID string) (*models.BookingResult, error) {
			return nil, skyway.ErrAlreadyPaid
		},
	}

	out := ConfirmPayment(context.Background(), client, "BK-9")

	assert.Equal(t, StateAlreadyPaid, out.State)
	assert.Equal(t, "BK-9", out.BookingID, "routes to confirmation with the existing booking id")
	assert.NoError(t, out.Err, "already paid is not surfaced as an error")
}

func TestConfirmPaymentAuthExpired(t *testing.T) {
	client := &fakeSubmitter{
		confirmFn: func(ctx context.Context, bookingID string) (*models.BookingResult, error) {
			return nil, skyway.ErrAuthExpired
		},
	}

	out := ConfirmPayment(context.Background(), client, "BK-9")

	assert.Equal(t, StateAuthExpired, out.State)
	assert.ErrorIs(t, out.Err, skyway.ErrAuthExpired)
}

func TestRegistryReusesAndDropsPipelines(t *testing.T) {
	r := NewRegistry(&fakeSubmitter{})

	p1, err := r.Get("sess", "FL-1", 2, "")
	require.NoError(t, err)
	p2, err := r.Get("sess", "FL-1", 2, "")
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	p3, err := r.Get("sess", "FL-1", 3, "")
	require.NoError(t, err)
	assert.NotSame(t, p1, p3, "a different guest count means a fresh instance")

	r.Drop("sess", "FL-1", 2)
	p4, err := r.Get("sess", "FL-1", 2, "")
	require.NoError(t, err)
	assert.NotSame(t, p1, p4)
}
