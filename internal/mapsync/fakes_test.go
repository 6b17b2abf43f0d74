package mapsync

import (
	"context"
	"errors"
	"sync"

	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
)

var errNotFound = errors.New("not found")

// fakeGeocoder answers from a fixed table. before and after, when set, run
// around every answer and may block to force a completion order.
type fakeGeocoder struct {
	mu       sync.Mutex
	places   map[string]response_models.Place
	failures map[string]error
	before   func(ctx context.Context, query string)
	after    func(query string)
	requests []request_models.PlaceSearchRequest
	answered []string
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		places:   make(map[string]response_models.Place),
		failures: make(map[string]error),
	}
}

func (f *fakeGeocoder) add(name string, lat, lng float64) *fakeGeocoder {
	f.places[name] = response_models.Place{
		Name:    name + " (resolved)",
		Address: name + " street",
		Lat:     lat,
		Lng:     lng,
		PlaceID: "pid-" + name,
	}
	return f
}

func (f *fakeGeocoder) SearchPlaces(ctx context.Context, req request_models.PlaceSearchRequest) ([]response_models.Place, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	before, after := f.before, f.after
	f.mu.Unlock()

	if before != nil {
		before(ctx, req.Query)
	}
	if after != nil {
		defer after(req.Query)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, req.Query)
	if err, ok := f.failures[req.Query]; ok {
		return nil, err
	}
	place, ok := f.places[req.Query]
	if !ok {
		return nil, nil
	}
	return []response_models.Place{place}, nil
}

func (f *fakeGeocoder) Requests() []request_models.PlaceSearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request_models.PlaceSearchRequest(nil), f.requests...)
}

func (f *fakeGeocoder) Answered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.answered...)
}

func item(name string) response_models.PlanItem {
	return response_models.PlanItem{
		Time:     response_models.TimeMorning,
		Name:     name,
		Category: response_models.CategorySight,
	}
}

func planOf(city string, days ...[]string) *response_models.Plan {
	plan := &response_models.Plan{Summary: "trip", City: city}
	for i, names := range days {
		day := response_models.PlanDay{Day: i + 1}
		for _, n := range names {
			day.Items = append(day.Items, item(n))
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

func markerNames(markers []Marker, day int) []string {
	var names []string
	for _, m := range markers {
		if m.Day == day {
			names = append(names, m.DisplayName)
		}
	}
	return names
}

func ptr[T any](v T) *T {
	return &v
}
