package app

import (
	"context"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"costafeed/internal/domain"
)

// GolfCourse is one entry of the fixed course table used for golf landing
// pages and proximity queries.
type GolfCourse struct {
	Slug   string        `json:"slug"`
	Name   string        `json:"name"`
	Town   string        `json:"town"`
	Region domain.Region `json:"region"`
	Coords domain.Coords `json:"coords"`
}

// The courses the site features. Coordinates are clubhouse positions.
var golfCourses = []GolfCourse{
	{Slug: "la-finca", Name: "La Finca Golf Resort", Town: "Algorfa", Region: domain.RegionSouth, Coords: domain.Coords{Lat: 38.0647, Lon: -0.7928}},
	{Slug: "villamartin", Name: "Villamartín Golf", Town: "Villamartín", Region: domain.RegionSouth, Coords: domain.Coords{Lat: 37.9402, Lon: -0.7645}},
	{Slug: "las-colinas", Name: "Las Colinas Golf & Country Club", Town: "Dehesa de Campoamor", Region: domain.RegionSouth, Coords: domain.Coords{Lat: 37.9192, Lon: -0.8103}},
	{Slug: "lo-romero", Name: "Lo Romero Golf", Town: "Pilar de la Horadada", Region: domain.RegionSouth, Coords: domain.Coords{Lat: 37.8852, Lon: -0.8378}},
	{Slug: "la-marquesa", Name: "La Marquesa Golf", Town: "Ciudad Quesada", Region: domain.RegionSouth, Coords: domain.Coords{Lat: 38.0514, Lon: -0.7367}},
	{Slug: "javea-golf", Name: "Club de Golf Jávea", Town: "Jávea", Region: domain.RegionNorth, Coords: domain.Coords{Lat: 38.7794, Lon: 0.1428}},
}

// towns whose listings count as golf stock even without coordinates
var golfTowns = []string{"algorfa", "orihuela costa", "campoamor", "ciudad quesada", "villamartin"}

// GolfCourses returns the course table.
func (q *QueryService) GolfCourses() []GolfCourse { return golfCourses }

func courseBySlug(slug string) (GolfCourse, bool) {
	for _, c := range golfCourses {
		if c.Slug == slug {
			return c, true
		}
	}
	return GolfCourse{}, false
}

// NearGolf returns the listings within maxKm of a course, nearest first.
// Listings without coordinates can't be ranked by distance and are skipped.
func (q *QueryService) NearGolf(ctx context.Context, courseSlug string, maxKm float64) ([]domain.Property, bool) {
	course, ok := courseBySlug(courseSlug)
	if !ok {
		return nil, false
	}
	if maxKm <= 0 {
		maxKm = 10
	}
	origin := orb.Point{course.Coords.Lon, course.Coords.Lat}

	snap := q.cache.Snapshot(ctx)
	type ranked struct {
		p domain.Property
		d float64
	}
	var within []ranked
	for _, p := range snap.Properties {
		if p.Coords == nil || p.Category == domain.CategoryPlot {
			continue
		}
		d := geo.Distance(origin, orb.Point{p.Coords.Lon, p.Coords.Lat})
		if d <= maxKm*1000 {
			within = append(within, ranked{p, d})
		}
	}
	sort.SliceStable(within, func(i, j int) bool { return within[i].d < within[j].d })

	out := make([]domain.Property, 0, len(within))
	for _, r := range within {
		out = append(out, r.p)
	}
	return out, true
}

// GolfDevelopments picks the developments marketed on golf: located in a golf
// town, or carrying "golf" in the project name or zone.
func (q *QueryService) GolfDevelopments(ctx context.Context) []domain.Development {
	var out []domain.Development
	for _, d := range q.Developments(ctx) {
		town := strings.ToLower(d.Town)
		name := strings.ToLower(d.Name)
		zone := strings.ToLower(d.Zone)

		isGolf := strings.Contains(name, "golf") || strings.Contains(zone, "golf")
		if !isGolf {
			for _, t := range golfTowns {
				if strings.Contains(town, t) {
					isGolf = true
					break
				}
			}
		}
		if isGolf {
			out = append(out, d)
		}
	}
	return out
}
