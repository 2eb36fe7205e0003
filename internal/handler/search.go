package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/internal/query"
	"github.com/skywayair/skyway-web/internal/results"
	"github.com/skywayair/skyway-web/internal/session"
	"github.com/skywayair/skyway-web/internal/skyway"
)

// SearchClient is the search slice of the backend client.
type SearchClient interface {
	Search(ctx context.Context, criteria models.Criteria) (*models.FlightResultSet, error)
	Airports(ctx context.Context) ([]models.Airport, error)
}

// searchView is one session's results-screen state: its own stale-response
// sequencer and the last projection it showed. One session's searches must
// never mark another session's as stale.
type searchView struct {
	seq results.Sequencer

	mu        sync.Mutex
	displayed models.DisplayedSearch
}

func newSearchView() *searchView {
	return &searchView{displayed: query.DefaultDisplayed()}
}

// refresh overlays the criteria's set fields onto the stored projection and
// remembers the result, so unset keys on the next search fall back to what
// was last displayed.
func (v *searchView) refresh(c models.Criteria) models.DisplayedSearch {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.displayed = query.Refresh(v.displayed, c)
	return v.displayed
}

type SearchHandler struct {
	client SearchClient

	mu    sync.Mutex
	views map[string]*searchView
}

func NewSearchHandler(client SearchClient) *SearchHandler {
	return &SearchHandler{
		client: client,
		views:  make(map[string]*searchView),
	}
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.GET("/explore", h.explore)
	g.GET("/home", h.home)
	g.GET("/airports", h.airports)
}

// view resolves the session's results-screen state. Without a session there
// is nothing to race against or fall back to, so each request gets a fresh
// view of its own.
func (h *SearchHandler) view(sessionID string) *searchView {
	if sessionID == "" {
		return newSearchView()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if v, ok := h.views[sessionID]; ok {
		return v
	}
	v := newSearchView()
	h.views[sessionID] = v
	return v
}

type exploreResponse struct {
	Searched  models.DisplayedSearch `json:"searched"`
	Flights   []models.Flight        `json:"flights"`
	Returning []models.Flight        `json:"returning_flights,omitempty"`
	Guests    int                    `json:"guests"`
}

// explore runs one search: normalize the query, fetch, then derive the
// displayed list. A response that lost the race to a newer search from the
// same session is dropped so it cannot overwrite the newer view.
func (h *SearchHandler) explore(c echo.Context) error {
	criteria := query.Normalize(c.QueryParams())
	view := h.view(sessionID(c))
	seq := view.seq.Next()

	set, err := h.client.Search(c.Request().Context(), criteria)
	if err != nil {
		if errors.Is(err, skyway.ErrAuthExpired) {
			return err
		}
		// Non-fatal: the view keeps whatever results it already shows.
		return respondError(c, http.StatusBadGateway, "search_failed", "could not fetch flights")
	}

	if !view.seq.Latest(seq) {
		return c.NoContent(http.StatusNoContent)
	}

	strategy := results.ParseStrategy(c.QueryParam("rank"))
	var flights []models.Flight
	if strategy != results.RankNone {
		flights = results.Rank(set, strategy)
	} else {
		flights = results.Derive(set, criteria)
	}

	resp := exploreResponse{
		Searched: view.refresh(criteria),
		Flights:  flights,
		Guests:   criteria.Guests,
	}
	if criteria.RoundTrip() {
		resp.Returning = set.Returning
	}
	return c.JSON(http.StatusOK, resp)
}

type homeResponse struct {
	Email    string           `json:"email,omitempty"`
	Airports []models.Airport `json:"airports"`
}

func (h *SearchHandler) home(c echo.Context) error {
	ctx := c.Request().Context()

	airports, err := h.client.Airports(ctx)
	if err != nil {
		if errors.Is(err, skyway.ErrAuthExpired) {
			return err
		}
		return respondError(c, http.StatusBadGateway, "airports_failed", "could not fetch airports")
	}

	resp := homeResponse{Airports: airports}
	if token := session.TokenFromContext(ctx); token != "" {
		if claims, err := session.Peek(token); err == nil {
			resp.Email = claims.Email
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) airports(c echo.Context) error {
	airports, err := h.client.Airports(c.Request().Context())
	if err != nil {
		if errors.Is(err, skyway.ErrAuthExpired) {
			return err
		}
		return respondError(c, http.StatusBadGateway, "airports_failed", "could not fetch airports")
	}
	return c.JSON(http.StatusOK, airports)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
