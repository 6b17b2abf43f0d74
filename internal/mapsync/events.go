package mapsync

import (
	"tripmap/internal/models/geo_models"
	"tripmap/internal/models/response_models"
)

// Event is an input to the Machine. Each one is applied to completion before
// the next.
type Event interface {
	event()
}

type PlanReceived struct {
	Plan *response_models.Plan
}

// MarkersResolved carries a finished resolution tagged with the plan version
// that started it.
type MarkersResolved struct {
	Version    uint64
	Resolution Resolution
}

// DaySelected sets the day filter; a nil Day means all days.
type DaySelected struct {
	Day *int
}

type MarkerClicked struct {
	Key MarkerKey
}

type ListItemClicked struct {
	Key MarkerKey
}

// MarkerDeselected is sent when the marker's info window is closed.
type MarkerDeselected struct{}

type SegmentClicked struct {
	SegmentID string
}

type TravelModeChanged struct {
	Mode TravelMode
}

type SegmentClosed struct{}

type DirectionsResolved struct {
	RequestID uint64
	Response  *response_models.DirectionsResponse
	Err       error
}

func (PlanReceived) event()       {}
func (MarkersResolved) event()    {}
func (DaySelected) event()        {}
func (MarkerClicked) event()      {}
func (ListItemClicked) event()    {}
func (MarkerDeselected) event()   {}
func (SegmentClicked) event()     {}
func (TravelModeChanged) event()  {}
func (SegmentClosed) event()      {}
func (DirectionsResolved) event() {}

// Effect is work the Machine asks its owner to perform outside the transition.
type Effect interface {
	effect()
}

type ResolveMarkers struct {
	Version uint64
	Plan    *response_models.Plan
}

// CancelResolution stops any in-flight marker resolution.
type CancelResolution struct{}

type FetchDirections struct {
	RequestID uint64
	Origin    geo_models.LatLng
	Dest      geo_models.LatLng
	Mode      TravelMode
}

type CancelDirections struct{}

func (ResolveMarkers) effect()   {}
func (CancelResolution) effect() {}
func (FetchDirections) effect()  {}
func (CancelDirections) effect() {}
