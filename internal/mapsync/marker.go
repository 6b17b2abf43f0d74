// Package mapsync reconciles an itinerary with geocoded markers and owns the
// selection state shared by the itinerary list and the map.
package mapsync

import (
	"tripmap/internal/models/geo_models"
	"tripmap/internal/models/response_models"
)

// Marker is one geocoded itinerary item. OrderInDay is dense and zero based
// among the resolved markers of its day; ItemIndex is the item's position in
// the plan and may have gaps.
type Marker struct {
	Coordinate   geo_models.LatLng        `json:"coordinate"`
	DisplayName  string                   `json:"displayName"`
	ResolvedName string                   `json:"resolvedName"`
	Address      string                   `json:"address,omitempty"`
	PlaceID      string                   `json:"placeId,omitempty"`
	Rating       *float64                 `json:"rating,omitempty"`
	RatingCount  *int                     `json:"ratingCount,omitempty"`
	PhotoRef     string                   `json:"photoRef,omitempty"`
	Day          int                      `json:"day"`
	OrderInDay   int                      `json:"orderInDay"`
	ItemIndex    int                      `json:"itemIndex"`
	Time         response_models.TimeSlot `json:"time,omitempty"`
	Category     response_models.Category `json:"category,omitempty"`
	Note         string                   `json:"note,omitempty"`
}

// MarkerKey addresses a marker the way the itinerary list does.
type MarkerKey struct {
	Day   int `json:"day"`
	Order int `json:"order"`
}

func (m Marker) Key() MarkerKey {
	return MarkerKey{Day: m.Day, Order: m.OrderInDay}
}

// Resolution is the outcome of resolving one plan. CityCenter is nil when the
// plan's city could not be geocoded.
type Resolution struct {
	Markers    []Marker
	CityCenter *geo_models.LatLng
}

func findMarker(markers []Marker, key MarkerKey) (Marker, bool) {
	for _, m := range markers {
		if m.Day == key.Day && m.OrderInDay == key.Order {
			return m, true
		}
	}
	return Marker{}, false
}
