package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/internal/session"
	"github.com/skywayair/skyway-web/internal/skyway"
)

// TripsClient lists a traveller's bookings.
type TripsClient interface {
	BookingsByEmail(ctx context.Context, email, reference string) ([]models.BookingResult, error)
}

type TripsHandler struct {
	client TripsClient
}

func NewTripsHandler(client TripsClient) *TripsHandler {
	return &TripsHandler{client: client}
}

func (h *TripsHandler) Register(g *echo.Group) {
	g.GET("/trips", h.trips)
}

type tripsResponse struct {
	Email    string                 `json:"email"`
	Bookings []models.BookingResult `json:"bookings"`
}

// trips shows the session's booking history, looked up by the email inside
// the access token.
func (h *TripsHandler) trips(c echo.Context) error {
	ctx := c.Request().Context()

	token := session.TokenFromContext(ctx)
	if token == "" {
		return skyway.ErrAuthExpired
	}
	claims, err := session.Peek(token)
	if err != nil || claims.Email == "" {
		return skyway.ErrAuthExpired
	}

	reference := strings.TrimSpace(c.QueryParam("reference"))
	bookings, err := h.client.BookingsByEmail(ctx, claims.Email, reference)
	if err != nil {
		if errors.Is(err, skyway.ErrAuthExpired) {
			return err
		}
		return respondError(c, http.StatusBadGateway, "trips_unavailable", "could not fetch trip history")
	}

	return c.JSON(http.StatusOK, tripsResponse{
		Email:    claims.Email,
		Bookings: bookings,
	})
}
