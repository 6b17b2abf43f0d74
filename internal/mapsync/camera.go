package mapsync

import (
	"github.com/paulmach/orb"
	"tripmap/internal/models/geo_models"
)

const (
	FocusZoom   = 15
	DefaultZoom = 12
)

// DefaultCenter is used when neither markers nor the city are known.
var DefaultCenter = geo_models.LatLng{Lat: 23.7, Lng: 121}

// Camera either fits Bounds or centers on Center at Zoom.
type Camera struct {
	Center *geo_models.LatLng `json:"center,omitempty"`
	Zoom   int                `json:"zoom,omitempty"`
	Bounds *geo_models.Bounds `json:"bounds,omitempty"`
}

// DeriveCamera picks, in order: the route of the selected segment, the
// selected marker, the visible markers, the city center, the default center.
func DeriveCamera(s State) Camera {
	sel := s.Selection
	if sel.Segment != nil && sel.RouteBounds != nil {
		return Camera{Bounds: sel.RouteBounds}
	}
	if sel.Marker != nil {
		return focusOn(sel.Marker.Coordinate)
	}

	visible := VisibleMarkers(s)
	switch len(visible) {
	case 0:
	case 1:
		return focusOn(visible[0].Coordinate)
	default:
		coords := make([]geo_models.LatLng, len(visible))
		for i, m := range visible {
			coords[i] = m.Coordinate
		}
		return Camera{Bounds: boundsOf(coords)}
	}

	if s.CityCenter != nil {
		center := *s.CityCenter
		return Camera{Center: &center, Zoom: DefaultZoom}
	}
	center := DefaultCenter
	return Camera{Center: &center, Zoom: DefaultZoom}
}

func focusOn(c geo_models.LatLng) Camera {
	return Camera{Center: &c, Zoom: FocusZoom}
}

func boundsOf(coords []geo_models.LatLng) *geo_models.Bounds {
	if len(coords) == 0 {
		return nil
	}
	mp := make(orb.MultiPoint, len(coords))
	for i, c := range coords {
		mp[i] = toPoint(c)
	}
	b := mp.Bound()
	return &geo_models.Bounds{
		NorthEast: geo_models.LatLng{Lat: b.Max.Lat(), Lng: b.Max.Lon()},
		SouthWest: geo_models.LatLng{Lat: b.Min.Lat(), Lng: b.Min.Lon()},
	}
}
