package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skywayair/skyway-web/internal/booking"
	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/internal/skyway"
	"github.com/skywayair/skyway-web/pkg/currency"
)

// BookingClient is the read side of the booking surface.
type BookingClient interface {
	BookingByID(ctx context.Context, bookingID string) (*models.BookingResult, error)
}

type BookingHandler struct {
	registry *booking.Registry
	client   BookingClient
	payments booking.Submitter
}

func NewBookingHandler(registry *booking.Registry, client BookingClient, payments booking.Submitter) *BookingHandler {
	return &BookingHandler{
		registry: registry,
		client:   client,
		payments: payments,
	}
}

func (h *BookingHandler) Register(g *echo.Group) {
	g.GET("/booking/:flightId/:guests", h.collect)
	g.PUT("/booking/:flightId/:guests/passengers/:index", h.setPassenger)
	g.POST("/booking/:flightId/:guests", h.submit)
	g.GET("/payment/summary/:bookingId", h.paymentSummary)
	g.POST("/payment/summary/:bookingId", h.confirmPayment)
	g.GET("/booking/confirmation/:bookingId", h.confirmation)
}

type pipelineView struct {
	FlightID  string        `json:"flight_id"`
	Guests    int           `json:"guests"`
	State     booking.State `json:"state"`
	Completed []bool        `json:"completed"`
	Reference string        `json:"reference,omitempty"`
}

func viewOf(p *booking.Pipeline) pipelineView {
	return pipelineView{
		FlightID:  p.FlightID(),
		Guests:    p.GuestCount(),
		State:     p.State(),
		Completed: p.Completed(),
		Reference: p.Reference(),
	}
}

// pipeline resolves the session's pipeline for the route's flight/guest
// pair. Guest count comes from the route and is fixed for the instance.
func (h *BookingHandler) pipeline(c echo.Context) (*booking.Pipeline, error) {
	flightID := c.Param("flightId")
	guests, err := strconv.Atoi(c.Param("guests"))
	if err != nil || guests < 1 {
		guests = 1
	}
	returnDate := strings.TrimSpace(c.QueryParam("return"))
	return h.registry.Get(sessionID(c), flightID, guests, returnDate)
}

func (h *BookingHandler) collect(c echo.Context) error {
	p, err := h.pipeline(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
	}
	return c.JSON(http.StatusOK, viewOf(p))
}

func (h *BookingHandler) setPassenger(c echo.Context) error {
	p, err := h.pipeline(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", "passenger index must be a number")
	}

	var rec models.PassengerRecord
	if err := c.Bind(&rec); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", "failed to parse passenger details")
	}

	if err := p.SetPassenger(index, rec); err != nil {
		var vErr *booking.ValidationError
		switch {
		case errors.As(err, &vErr):
			return respondError(c, http.StatusUnprocessableEntity, "validation_error", vErr.Error())
		case errors.Is(err, booking.ErrSubmissionInFlight):
			return respondError(c, http.StatusConflict, "submission_in_flight", "a submission is already pending")
		default:
			return respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		}
	}
	return c.JSON(http.StatusOK, viewOf(p))
}

func (h *BookingHandler) submit(c echo.Context) error {
	p, err := h.pipeline(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
	}

	out := p.Submit(c.Request().Context())
	switch out.State {
	case booking.StateConfirmed:
		h.registry.Drop(sessionID(c), p.FlightID(), p.GuestCount())
		return c.Redirect(http.StatusSeeOther, "/sw/payment/summary/"+out.BookingID)
	case booking.StateAuthExpired:
		// Form stays retained in the pipeline; the guard routes to login.
		return out.Err
	case booking.StateSubmitting:
		// Duplicate click while the first submit is in flight: ignored.
		return c.JSON(http.StatusAccepted, viewOf(p))
	case booking.StateCollecting:
		return respondError(c, http.StatusUnprocessableEntity, "validation_error", out.Err.Error())
	default:
		return respondError(c, http.StatusBadGateway, "booking_failed", "the booking could not be submitted; your details are retained")
	}
}

type paymentSummaryView struct {
	Booking *models.BookingResult `json:"booking"`
	Total   string                `json:"total,omitempty"`
}

func (h *BookingHandler) paymentSummary(c echo.Context) error {
	b, err := h.client.BookingByID(c.Request().Context(), c.Param("bookingId"))
	if err != nil {
		return bookingFetchError(c, err)
	}

	view := paymentSummaryView{Booking: b}
	if fare, ok := bookingFare(b); ok {
		seats := len(b.Passengers)
		if seats == 0 {
			seats = 1
		}
		view.Total = currency.FormatUSD(fare * float64(seats))
	}
	return c.JSON(http.StatusOK, view)
}

// bookingFare is the per-seat fare: the departure leg plus the returning leg
// when the booking is a round trip.
func bookingFare(b *models.BookingResult) (float64, bool) {
	if b.DepartureFlight == nil {
		return 0, false
	}
	fare, err := currency.ParseUSD(b.DepartureFlight.Cost)
	if err != nil {
		return 0, false
	}
	if b.ReturningFlight != nil {
		ret, err := currency.ParseUSD(b.ReturningFlight.Cost)
		if err != nil {
			return 0, false
		}
		fare += ret
	}
	return fare, true
}

func (h *BookingHandler) confirmPayment(c echo.Context) error {
	bookingID := c.Param("bookingId")

	out := booking.ConfirmPayment(c.Request().Context(), h.payments, bookingID)
	switch out.State {
	case booking.StateConfirmed, booking.StateAlreadyPaid:
		// Already-paid is a success: same confirmation view, same id, no
		// error shown.
		return c.Redirect(http.StatusSeeOther, "/sw/booking/confirmation/"+out.BookingID)
	case booking.StateAuthExpired:
		return out.Err
	default:
		return respondError(c, http.StatusBadGateway, "payment_failed", "payment could not be confirmed")
	}
}

func (h *BookingHandler) confirmation(c echo.Context) error {
	b, err := h.client.BookingByID(c.Request().Context(), c.Param("bookingId"))
	if err != nil {
		return bookingFetchError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func bookingFetchError(c echo.Context, err error) error {
	if errors.Is(err, skyway.ErrAuthExpired) {
		return err
	}
	return respondError(c, http.StatusBadGateway, "booking_unavailable", "could not fetch booking details")
}
