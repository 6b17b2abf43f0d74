package mapsync

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"
	"tripmap/internal/models/geo_models"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
)

// Geocoder resolves a free-text place name to ranked candidates.
type Geocoder interface {
	SearchPlaces(ctx context.Context, req request_models.PlaceSearchRequest) ([]response_models.Place, error)
}

type Resolver struct {
	geocoder    Geocoder
	concurrency int
}

func NewResolver(geocoder Geocoder, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{
		geocoder:    geocoder,
		concurrency: concurrency,
	}
}

type lookup struct {
	day       int
	itemIndex int
	name      string
	item      response_models.PlanItem
}

type dedupKey struct {
	day  int
	name string
}

// Resolve turns the plan items into markers. It never fails: items that cannot
// be geocoded are left out. Lookups run concurrently, but per-day ordering is
// assigned afterwards from the plan's item order.
func (r *Resolver) Resolve(ctx context.Context, plan *response_models.Plan) Resolution {
	if plan == nil || len(plan.Days) == 0 {
		return Resolution{}
	}

	city := strings.TrimSpace(plan.City)
	var center *geo_models.LatLng
	if city != "" {
		center = r.resolveCity(ctx, city)
	}

	lookups := collectLookups(plan)
	results := make([]*response_models.Place, len(lookups))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, lk := range lookups {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = r.lookup(ctx, city, lk.name, center)
			return nil
		})
	}
	_ = g.Wait()

	return Resolution{
		Markers:    assemble(lookups, results),
		CityCenter: center,
	}
}

func (r *Resolver) resolveCity(ctx context.Context, city string) *geo_models.LatLng {
	places, err := r.geocoder.SearchPlaces(ctx, request_models.PlaceSearchRequest{Query: city})
	if err != nil {
		log.Printf("mapsync: city %q not resolved, continuing without proximity bias: %v", city, err)
		return nil
	}
	if len(places) == 0 || isZero(places[0]) {
		return nil
	}
	return &geo_models.LatLng{Lat: places[0].Lat, Lng: places[0].Lng}
}

func (r *Resolver) lookup(ctx context.Context, city, name string, center *geo_models.LatLng) *response_models.Place {
	places, err := r.geocoder.SearchPlaces(ctx, request_models.PlaceSearchRequest{
		Query:     name,
		City:      city,
		Proximity: center,
	})
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("mapsync: dropping %q: %v", name, err)
		}
		return nil
	}
	if len(places) == 0 || isZero(places[0]) {
		return nil
	}
	top := places[0]
	return &top
}

func collectLookups(plan *response_models.Plan) []lookup {
	seen := make(map[dedupKey]struct{})
	var lookups []lookup
	for _, day := range plan.Days {
		for idx, item := range day.Items {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				continue
			}
			key := dedupKey{day: day.Day, name: name}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			lookups = append(lookups, lookup{day: day.Day, itemIndex: idx, name: name, item: item})
		}
	}
	return lookups
}

// assemble walks lookups in plan order so OrderInDay ignores completion order.
func assemble(lookups []lookup, results []*response_models.Place) []Marker {
	next := make(map[int]int)
	markers := make([]Marker, 0, len(lookups))
	for i, lk := range lookups {
		place := results[i]
		if place == nil {
			continue
		}
		address := place.Address
		if address == place.Name {
			address = ""
		}
		markers = append(markers, Marker{
			Coordinate:   geo_models.LatLng{Lat: place.Lat, Lng: place.Lng},
			DisplayName:  lk.name,
			ResolvedName: place.Name,
			Address:      address,
			PlaceID:      place.PlaceID,
			Rating:       place.Rating,
			RatingCount:  place.RatingCount,
			PhotoRef:     place.PhotoRef,
			Day:          lk.day,
			OrderInDay:   next[lk.day],
			ItemIndex:    lk.itemIndex,
			Time:         lk.item.Time,
			Category:     lk.item.Category,
			Note:         lk.item.Note,
		})
		next[lk.day]++
	}
	return markers
}

func isZero(p response_models.Place) bool {
	return p.Lat == 0 && p.Lng == 0
}
