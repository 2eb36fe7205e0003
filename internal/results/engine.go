package results

import (
	"math"
	"sort"
	"strings"

	"github.com/skywayair/skyway-web/internal/models"
	"github.com/skywayair/skyway-web/pkg/currency"
)

// Strategy selects how the outgoing list is ordered on explicit user action.
type Strategy string

const (
	RankNone      Strategy = ""
	RankCheapest  Strategy = "cheapest"
	RankFastest   Strategy = "fastest"
	RankBestValue Strategy = "bestValue"
)

// ParseStrategy maps a query value to a strategy; anything unknown keeps
// the input order.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.TrimSpace(s)) {
	case RankCheapest:
		return RankCheapest
	case RankFastest:
		return RankFastest
	case RankBestValue:
		return RankBestValue
	default:
		return RankNone
	}
}

// Derive produces the displayed list from a result set: flights whose
// airport names contain the criteria's origin/destination terms, original
// order preserved. The result is always a fresh slice.
func Derive(set *models.FlightResultSet, c models.Criteria) []models.Flight {
	if set == nil {
		return nil
	}
	return Filter(set.Outgoing, c)
}

// Filter keeps flights matching the destination and origin name filters,
// case-insensitively. Filtering an already filtered list with the same
// criteria is a no-op.
func Filter(flights []models.Flight, c models.Criteria) []models.Flight {
	result := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if matches(f, c) {
			result = append(result, f)
		}
	}
	return result
}

func matches(f models.Flight, c models.Criteria) bool {
	if c.To != "" && !containsFold(f.ArrivalAirport.Name, c.To) {
		return false
	}
	if c.From != "" && !containsFold(f.DepartureAirport.Name, c.From) {
		return false
	}
	return true
}

// Rank orders a copy of the full outgoing list by the given strategy.
// Ranking deliberately starts from the unfiltered set, not the filtered
// view: that is the shipped behavior of the results screen, so a ranked
// list can show flights a name filter would have hidden. All sorts are
// stable, so equal keys keep their original relative order.
func Rank(set *models.FlightResultSet, strategy Strategy) []models.Flight {
	if set == nil {
		return nil
	}

	sorted := make([]models.Flight, len(set.Outgoing))
	copy(sorted, set.Outgoing)

	switch strategy {
	case RankCheapest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return costOf(sorted[i]) < costOf(sorted[j])
		})
	case RankFastest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DurationMinutes < sorted[j].DurationMinutes
		})
	case RankBestValue:
		sort.SliceStable(sorted, func(i, j int) bool {
			return valueOf(sorted[i]) < valueOf(sorted[j])
		})
	}

	return sorted
}

func costOf(f models.Flight) float64 {
	amount, err := currency.ParseUSD(f.Cost)
	if err != nil {
		// Unparseable costs sort last rather than failing the view.
		return math.Inf(1)
	}
	return amount
}

// valueOf is cost per minute in the air. A zero duration makes the ratio
// undefined, so such flights rank strictly last.
func valueOf(f models.Flight) float64 {
	if f.DurationMinutes <= 0 {
		return math.Inf(1)
	}
	return costOf(f) / float64(f.DurationMinutes)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
