package geo_models

import "fmt"

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) IsZero() bool {
	return l.Lat == 0 && l.Lng == 0
}

// String renders "lat,lng", the form Google map services take as a location parameter.
func (l LatLng) String() string {
	return fmt.Sprintf("%f,%f", l.Lat, l.Lng)
}

// Bounds is a bounding box in the northeast/southwest form map providers return.
type Bounds struct {
	NorthEast LatLng `json:"northeast"`
	SouthWest LatLng `json:"southwest"`
}
