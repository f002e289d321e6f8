package geo

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// ReasonCoordinatesUnavailable is attached to sites excluded from ranking
const ReasonCoordinatesUnavailable = "coordinates unavailable"

// Site is a candidate location identified by an opaque ID.
// A nil Location marks the site as unscoreable.
type Site struct {
	ID       uuid.UUID
	Location *Coordinates
}

// RankedSite is a site annotated with its distance from the origin
type RankedSite struct {
	ID         uuid.UUID
	DistanceKM float64
}

// ExcludedSite is a site that could not be ranked, with the reason why
type ExcludedSite struct {
	ID     uuid.UUID
	Reason string
}

// Ranking is the output of Rank
type Ranking struct {
	// Ranked is sorted ascending by distance, ties broken by ID
	Ranked []RankedSite
	// Unscoreable holds sites without usable coordinates, in input order
	Unscoreable []ExcludedSite
}

// Rank computes the distance from origin to every site and orders them nearest first.
// Sites lacking a valid location are reported in Ranking.Unscoreable instead of being dropped.
func Rank(origin Coordinates, sites []Site) Ranking {
	ranking := Ranking{
		Ranked:      make([]RankedSite, 0, len(sites)),
		Unscoreable: []ExcludedSite{},
	}

	for _, site := range sites {
		if site.Location == nil || site.Location.Validate() != nil {
			ranking.Unscoreable = append(ranking.Unscoreable, ExcludedSite{
				ID:     site.ID,
				Reason: ReasonCoordinatesUnavailable,
			})
			continue
		}
		ranking.Ranked = append(ranking.Ranked, RankedSite{
			ID:         site.ID,
			DistanceKM: Distance(origin, *site.Location),
		})
	}

	slices.SortStableFunc(ranking.Ranked, func(a, b RankedSite) int {
		if c := cmp.Compare(a.DistanceKM, b.DistanceKM); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return ranking
}
