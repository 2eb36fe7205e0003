package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skywayair/skyway-web/internal/models"
)

func TestNormalizeDefaults(t *testing.T) {
	c := Normalize(url.Values{})

	assert.Equal(t, "", c.From)
	assert.Equal(t, "", c.To)
	assert.Equal(t, "", c.DepartDate)
	assert.Equal(t, "", c.ReturnDate)
	assert.Equal(t, 1, c.Guests)
	assert.Equal(t, models.TripRoundTrip, c.Trip)
}

func TestNormalizeGuests(t *testing.T) {
	tests := []struct {
		name   string
		guests string
		want   int
	}{
		{"absent", "", 1},
		{"blank", "   ", 1},
		{"non-numeric", "two", 1},
		{"zero", "0", 1},
		{"negative", "-3", 1},
		{"valid", "4", 4},
		{"valid with spaces", " 2 ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.guests != "" {
				values.Set(KeyGuests, tt.guests)
			}
			c := Normalize(values)
			assert.Equal(t, tt.want, c.Guests)
		})
	}
}

func TestNormalizeTrimsAndDropsBlanks(t *testing.T) {
	values := url.Values{}
	values.Set(KeyFrom, "  Denver ")
	values.Set(KeyTo, "   ")
	values.Set(KeyDepart, "2026-09-01")
	values.Set(KeyReturn, "")

	c := Normalize(values)

	assert.Equal(t, "Denver", c.From)
	assert.Equal(t, "", c.To, "blank counts as unset")
	assert.Equal(t, "2026-09-01", c.DepartDate)
	assert.Equal(t, "", c.ReturnDate)
}

func TestNormalizeTripType(t *testing.T) {
	values := url.Values{}
	values.Set(KeyTrip, "oneway")
	assert.Equal(t, models.TripOneWay, Normalize(values).Trip)

	values.Set(KeyTrip, "something-else")
	assert.Equal(t, models.TripRoundTrip, Normalize(values).Trip)
}

func TestDisplayedSubstitutesDefaults(t *testing.T) {
	got := Displayed(models.Criteria{Guests: 1})

	assert.Equal(t, "Anywhere", got.From)
	assert.Equal(t, "Anywhere", got.To)
	assert.Equal(t, "Any time", got.DepartDate)
	assert.Equal(t, "1", got.Guests)
}

func TestDisplayedUsesSetFields(t *testing.T) {
	got := Displayed(models.Criteria{From: "Denver", DepartDate: "2026-09-01", Guests: 3})

	assert.Equal(t, "Denver", got.From)
	assert.Equal(t, "Anywhere", got.To)
	assert.Equal(t, "2026-09-01", got.DepartDate)
	assert.Equal(t, "3", got.Guests)
}

func TestRefreshKeepsPriorForUnsetFields(t *testing.T) {
	prior := models.DisplayedSearch{From: "Denver", To: "Tokyo", DepartDate: "2026-09-01", Guests: "2"}

	got := Refresh(prior, models.Criteria{To: "Osaka", Guests: 2})

	assert.Equal(t, "Denver", got.From, "unset field falls back to prior displayed value")
	assert.Equal(t, "Osaka", got.To)
	assert.Equal(t, "2026-09-01", got.DepartDate)
	assert.Equal(t, "2", got.Guests)
}
