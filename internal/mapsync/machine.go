package mapsync

import (
	"strings"

	"github.com/twpayne/go-polyline"
	"tripmap/internal/models/geo_models"
	"tripmap/internal/models/response_models"
	"tripmap/pkg/utils"
)

type TravelMode string

const (
	ModeDriving TravelMode = "DRIVING"
	ModeTransit TravelMode = "TRANSIT"
	ModeWalking TravelMode = "WALKING"

	DefaultTravelMode = ModeTransit
)

const directionsFailedMessage = "failed to retrieve directions"

// ParseTravelMode accepts any letter case.
func ParseTravelMode(s string) (TravelMode, bool) {
	switch mode := TravelMode(strings.ToUpper(strings.TrimSpace(s))); mode {
	case ModeDriving, ModeTransit, ModeWalking:
		return mode, true
	default:
		return "", false
	}
}

// DirectionsResult is either a route summary or a user facing error.
type DirectionsResult struct {
	Summary *response_models.RouteSummary `json:"summary,omitempty"`
	Error   string                        `json:"error,omitempty"`
}

type Selection struct {
	Day               *int
	Marker            *Marker
	Segment           *Segment
	TravelMode        TravelMode
	LoadingDirections bool
	Directions        *DirectionsResult
	DirectionsPath    []geo_models.LatLng
	RouteBounds       *geo_models.Bounds
}

type State struct {
	Plan        *response_models.Plan
	PlanVersion uint64
	Resolving   bool
	Markers     []Marker
	Segments    []Segment
	CityCenter  *geo_models.LatLng
	Selection   Selection
}

// Machine holds the selection state and applies events to it. It does no I/O;
// anything asynchronous is returned as an Effect.
type Machine struct {
	state         State
	directionsSeq uint64
}

func NewMachine() *Machine {
	return &Machine{
		state: State{Selection: Selection{TravelMode: DefaultTravelMode}},
	}
}

// State returns a snapshot. Slices are replaced, never mutated in place, so
// sharing them is safe.
func (m *Machine) State() State {
	return m.state
}

// DirectionsRequestID is the id of the most recently issued directions fetch.
func (m *Machine) DirectionsRequestID() uint64 {
	return m.directionsSeq
}

func (m *Machine) Apply(ev Event) []Effect {
	switch e := ev.(type) {
	case PlanReceived:
		return m.planReceived(e)
	case MarkersResolved:
		m.markersResolved(e)
	case DaySelected:
		return m.daySelected(e)
	case MarkerClicked:
		return m.selectMarker(e.Key)
	case ListItemClicked:
		return m.selectMarker(e.Key)
	case MarkerDeselected:
		m.state.Selection.Marker = nil
	case SegmentClicked:
		return m.segmentClicked(e)
	case TravelModeChanged:
		return m.travelModeChanged(e)
	case SegmentClosed:
		if m.state.Selection.Segment == nil {
			return nil
		}
		return m.clearRoute()
	case DirectionsResolved:
		m.directionsResolved(e)
	}
	return nil
}

func (m *Machine) planReceived(e PlanReceived) []Effect {
	effects := m.clearRoute()

	mode := m.state.Selection.TravelMode
	m.state = State{
		Plan:        e.Plan,
		PlanVersion: m.state.PlanVersion + 1,
		Selection:   Selection{TravelMode: mode},
	}
	// Late directions answers for the old plan must never match.
	m.directionsSeq++

	if e.Plan == nil || len(e.Plan.Days) == 0 {
		return append(effects, CancelResolution{})
	}
	m.state.Resolving = true
	return append(effects, ResolveMarkers{Version: m.state.PlanVersion, Plan: e.Plan})
}

func (m *Machine) markersResolved(e MarkersResolved) {
	if e.Version != m.state.PlanVersion {
		return
	}
	m.state.Markers = e.Resolution.Markers
	m.state.Segments = BuildSegments(e.Resolution.Markers)
	m.state.CityCenter = e.Resolution.CityCenter
	m.state.Resolving = false
}

func (m *Machine) daySelected(e DaySelected) []Effect {
	sel := &m.state.Selection
	if e.Day == nil {
		sel.Day = nil
	} else {
		d := *e.Day
		sel.Day = &d
	}
	if sel.Marker != nil && (sel.Day == nil || sel.Marker.Day != *sel.Day) {
		sel.Marker = nil
	}
	return m.clearRoute()
}

func (m *Machine) selectMarker(key MarkerKey) []Effect {
	marker, ok := findMarker(m.state.Markers, key)
	if !ok {
		return nil
	}
	day := marker.Day
	m.state.Selection.Day = &day
	m.state.Selection.Marker = &marker
	return m.clearRoute()
}

func (m *Machine) segmentClicked(e SegmentClicked) []Effect {
	sel := &m.state.Selection
	segment, ok := findSegment(m.state.Segments, e.SegmentID)
	if !ok || sel.Day == nil || *sel.Day != segment.Day {
		return nil
	}
	sel.Segment = &segment
	sel.Marker = nil
	return []Effect{m.issueDirections()}
}

func (m *Machine) travelModeChanged(e TravelModeChanged) []Effect {
	mode, ok := ParseTravelMode(string(e.Mode))
	if !ok || mode == m.state.Selection.TravelMode {
		return nil
	}
	m.state.Selection.TravelMode = mode
	if m.state.Selection.Segment == nil {
		return nil
	}
	return []Effect{m.issueDirections()}
}

// issueDirections bumps the request counter; only the answer carrying the new
// id will be applied.
func (m *Machine) issueDirections() Effect {
	m.directionsSeq++
	sel := &m.state.Selection
	sel.LoadingDirections = true
	sel.Directions = nil
	sel.DirectionsPath = nil
	sel.RouteBounds = nil
	return FetchDirections{
		RequestID: m.directionsSeq,
		Origin:    sel.Segment.From.Coordinate,
		Dest:      sel.Segment.To.Coordinate,
		Mode:      sel.TravelMode,
	}
}

func (m *Machine) clearRoute() []Effect {
	sel := &m.state.Selection
	active := sel.Segment != nil || sel.LoadingDirections
	sel.Segment = nil
	sel.LoadingDirections = false
	sel.Directions = nil
	sel.DirectionsPath = nil
	sel.RouteBounds = nil
	if !active {
		return nil
	}
	m.directionsSeq++
	return []Effect{CancelDirections{}}
}

func (m *Machine) directionsResolved(e DirectionsResolved) {
	sel := &m.state.Selection
	if e.RequestID != m.directionsSeq || sel.Segment == nil {
		return
	}
	sel.LoadingDirections = false

	if e.Err != nil || e.Response == nil {
		sel.Directions = &DirectionsResult{Error: directionsErrorMessage(e.Err)}
		return
	}

	summary := e.Response.Summary
	sel.Directions = &DirectionsResult{Summary: &summary}
	sel.DirectionsPath = decodePath(e.Response.EncodedPath)
	sel.RouteBounds = e.Response.Bounds
	if sel.RouteBounds == nil {
		sel.RouteBounds = boundsOf(sel.DirectionsPath)
	}
}

func directionsErrorMessage(err error) string {
	if upstream, ok := utils.AsUpstreamError(err); ok {
		if msg := upstream.UserMessage(); msg != "" {
			return msg
		}
	}
	return directionsFailedMessage
}

// decodePath returns nil for an empty or undecodable polyline.
func decodePath(encoded string) []geo_models.LatLng {
	if encoded == "" {
		return nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil
	}
	path := make([]geo_models.LatLng, 0, len(coords))
	for _, c := range coords {
		path = append(path, geo_models.LatLng{Lat: c[0], Lng: c[1]})
	}
	return path
}
