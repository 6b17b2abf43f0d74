package mapsync

import (
	"net/url"
	"strconv"

	"github.com/samber/lo"
	"tripmap/internal/models/geo_models"
	"tripmap/internal/models/response_models"
)

var dayColors = []string{"#ef4444", "#3b82f6", "#22c55e", "#eab308", "#a855f7"}

const fallbackColor = "#6366f1"

func DayColor(day int) string {
	if day < 1 {
		return fallbackColor
	}
	return dayColors[(day-1)%len(dayColors)]
}

// VisibleMarkers applies the day filter, then narrows to the two endpoints
// while a segment is selected.
func VisibleMarkers(s State) []Marker {
	sel := s.Selection
	if sel.Segment != nil {
		from, to := sel.Segment.From.Key(), sel.Segment.To.Key()
		return lo.Filter(s.Markers, func(m Marker, _ int) bool {
			return m.Key() == from || m.Key() == to
		})
	}
	if sel.Day == nil {
		return s.Markers
	}
	return lo.Filter(s.Markers, func(m Marker, _ int) bool { return m.Day == *sel.Day })
}

// VisibleSegments is empty in all-days mode.
func VisibleSegments(s State) []Segment {
	if s.Selection.Day == nil {
		return nil
	}
	day := *s.Selection.Day
	return lo.Filter(s.Segments, func(seg Segment, _ int) bool { return seg.Day == day })
}

type MarkerView struct {
	Marker
	Label    string `json:"label"`
	Color    string `json:"color"`
	PhotoURL string `json:"photoUrl,omitempty"`
	MapsURL  string `json:"mapsUrl"`
	Selected bool   `json:"selected"`
}

type SegmentView struct {
	Segment
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

type RouteCard struct {
	SegmentID  string                        `json:"segmentId"`
	From       string                        `json:"from"`
	To         string                        `json:"to"`
	TravelMode TravelMode                    `json:"travelMode"`
	Loading    bool                          `json:"loading"`
	Summary    *response_models.RouteSummary `json:"summary,omitempty"`
	Error      string                        `json:"error,omitempty"`
	Path       []geo_models.LatLng           `json:"path,omitempty"`
}

type SelectionView struct {
	Day        *int       `json:"day"`
	Marker     *MarkerKey `json:"marker"`
	SegmentID  *string    `json:"segmentId"`
	TravelMode TravelMode `json:"travelMode"`
}

// View is everything the list and the map render from.
type View struct {
	PlanVersion uint64                `json:"planVersion"`
	Plan        *response_models.Plan `json:"plan"`
	Resolving   bool                  `json:"resolving"`
	Markers     []MarkerView          `json:"markers"`
	Segments    []SegmentView         `json:"segments"`
	Selection   SelectionView         `json:"selection"`
	Route       *RouteCard            `json:"route,omitempty"`
	Camera      Camera                `json:"camera"`
	CityCenter  *geo_models.LatLng    `json:"cityCenter,omitempty"`
}

type ViewOptions struct {
	// PhotoURL maps a photo reference to a fetchable URL. Nil leaves PhotoURL empty.
	PhotoURL func(ref string) string
}

func Derive(s State, opts ViewOptions) View {
	sel := s.Selection

	markers := lo.Map(VisibleMarkers(s), func(m Marker, _ int) MarkerView {
		mv := MarkerView{
			Marker:   m,
			Label:    strconv.Itoa(m.OrderInDay + 1),
			Color:    DayColor(m.Day),
			MapsURL:  MapsURL(m),
			Selected: sel.Marker != nil && sel.Marker.Key() == m.Key(),
		}
		if m.PhotoRef != "" && opts.PhotoURL != nil {
			mv.PhotoURL = opts.PhotoURL(m.PhotoRef)
		}
		return mv
	})

	segments := lo.Map(VisibleSegments(s), func(seg Segment, _ int) SegmentView {
		return SegmentView{
			Segment:  seg,
			Color:    DayColor(seg.Day),
			Selected: sel.Segment != nil && sel.Segment.ID == seg.ID,
		}
	})

	view := View{
		PlanVersion: s.PlanVersion,
		Plan:        s.Plan,
		Resolving:   s.Resolving,
		Markers:     markers,
		Segments:    segments,
		Selection: SelectionView{
			Day:        sel.Day,
			TravelMode: sel.TravelMode,
		},
		Camera:     DeriveCamera(s),
		CityCenter: s.CityCenter,
	}
	if sel.Marker != nil {
		key := sel.Marker.Key()
		view.Selection.Marker = &key
	}
	if sel.Segment != nil {
		id := sel.Segment.ID
		view.Selection.SegmentID = &id
		view.Route = routeCard(sel)
	}
	return view
}

func routeCard(sel Selection) *RouteCard {
	card := &RouteCard{
		SegmentID:  sel.Segment.ID,
		From:       sel.Segment.From.DisplayName,
		To:         sel.Segment.To.DisplayName,
		TravelMode: sel.TravelMode,
		Loading:    sel.LoadingDirections,
		Path:       sel.DirectionsPath,
	}
	if sel.Directions != nil {
		card.Summary = sel.Directions.Summary
		card.Error = sel.Directions.Error
	}
	return card
}

// MapsURL links to the place on Google Maps, pinned to the place id when known.
func MapsURL(m Marker) string {
	q := url.Values{}
	q.Set("api", "1")
	name := m.ResolvedName
	if name == "" {
		name = m.DisplayName
	}
	q.Set("query", name)
	if m.PlaceID != "" {
		q.Set("query_place_id", m.PlaceID)
	}
	return "https://www.google.com/maps/search/?" + q.Encode()
}
