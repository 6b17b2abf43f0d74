package mapsync

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/samber/lo"
	"tripmap/internal/models/geo_models"
)

// Segment is the leg between two consecutive markers of one day. Its ID only
// depends on the day and the leg index, so it survives marker re-resolution.
type Segment struct {
	ID                 string               `json:"id"`
	Day                int                  `json:"day"`
	Index              int                  `json:"index"`
	From               Marker               `json:"from"`
	To                 Marker               `json:"to"`
	Path               [2]geo_models.LatLng `json:"path"`
	StraightLineMeters float64              `json:"straightLineMeters"`
}

func SegmentID(day, index int) string {
	return fmt.Sprintf("%d-%d", day, index)
}

func BuildSegments(markers []Marker) []Segment {
	byDay := lo.GroupBy(markers, func(m Marker) int { return m.Day })
	days := lo.Keys(byDay)
	slices.Sort(days)

	var segments []Segment
	for _, day := range days {
		dayMarkers := slices.Clone(byDay[day])
		slices.SortFunc(dayMarkers, func(a, b Marker) int { return a.OrderInDay - b.OrderInDay })
		for i := 0; i+1 < len(dayMarkers); i++ {
			from, to := dayMarkers[i], dayMarkers[i+1]
			segments = append(segments, Segment{
				ID:                 SegmentID(day, i),
				Day:                day,
				Index:              i,
				From:               from,
				To:                 to,
				Path:               [2]geo_models.LatLng{from.Coordinate, to.Coordinate},
				StraightLineMeters: geo.DistanceHaversine(toPoint(from.Coordinate), toPoint(to.Coordinate)),
			})
		}
	}
	return segments
}

func findSegment(segments []Segment, id string) (Segment, bool) {
	return lo.Find(segments, func(s Segment) bool { return s.ID == id })
}

func toPoint(c geo_models.LatLng) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}
