package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/skywayair/skyway-web/internal/models"
)

// Query keys accepted on the explore route.
const (
	KeyFrom   = "from"
	KeyTo     = "to"
	KeyDepart = "depart"
	KeyReturn = "return"
	KeyGuests = "guests"
	KeyTrip   = "trip"
)

// Normalize turns raw query parameters into a typed, defaulted Criteria.
// A key counts only when present and non-empty after trimming; anything
// malformed becomes unset rather than an error. Guests falls back to 1,
// trip type to round-trip.
func Normalize(values url.Values) models.Criteria {
	c := models.Criteria{
		From:       clean(values.Get(KeyFrom)),
		To:         clean(values.Get(KeyTo)),
		DepartDate: clean(values.Get(KeyDepart)),
		ReturnDate: clean(values.Get(KeyReturn)),
		Guests:     1,
		Trip:       models.TripRoundTrip,
	}

	if g, err := strconv.Atoi(clean(values.Get(KeyGuests))); err == nil && g >= 1 {
		c.Guests = g
	}
	if models.TripType(clean(values.Get(KeyTrip))) == models.TripOneWay {
		c.Trip = models.TripOneWay
	}

	return c
}

// DefaultDisplayed is the projection shown before any search has happened.
func DefaultDisplayed() models.DisplayedSearch {
	return models.DisplayedSearch{
		From:       "Anywhere",
		To:         "Anywhere",
		DepartDate: "Any time",
		Guests:     "1",
	}
}

// Refresh overlays the set fields of a criteria onto a prior projection.
// Unset fields keep their prior displayed value.
func Refresh(prior models.DisplayedSearch, c models.Criteria) models.DisplayedSearch {
	next := prior
	if c.From != "" {
		next.From = c.From
	}
	if c.To != "" {
		next.To = c.To
	}
	if c.DepartDate != "" {
		next.DepartDate = c.DepartDate
	}
	next.Guests = strconv.Itoa(c.Guests)
	return next
}

// Displayed projects a criteria over the human-facing defaults.
func Displayed(c models.Criteria) models.DisplayedSearch {
	return Refresh(DefaultDisplayed(), c)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
