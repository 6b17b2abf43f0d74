package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"tripmap/internal/config"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/pkg/metrics"
	"tripmap/pkg/utils"
)

const (
	googleMapsBaseURL   = "https://maps.googleapis.com/maps/api"
	maxPlaceResults     = 3
	defaultPhotoWidth   = 400
	maxPhotoBytes       = 10 << 20
	placesServiceName   = "places"
	placesCacheTTL      = 24 * time.Hour
	placesCacheCleanup  = 1 * time.Hour
	defaultPhotoType    = "image/jpeg"
	upstreamHTTPTimeout = 15 * time.Second
)

type PlacesServiceInterface interface {
	SearchPlaces(ctx context.Context, req request_models.PlaceSearchRequest) ([]response_models.Place, error)
	FetchPhoto(ctx context.Context, req request_models.PlacePhotoRequest) (*response_models.Photo, error)
	PhotoURL(ref string) string
}

// GooglePlacesClient talks to the Places text search and photo endpoints.
type GooglePlacesClient struct {
	HTTP          *http.Client
	APIKey        string
	BaseURL       string
	Language      string
	Region        string
	RadiusMeters  int
	PublicBaseURL string
	Cache         *cache.Cache
}

func NewGooglePlacesClient(cfg *config.Config) *GooglePlacesClient {
	return &GooglePlacesClient{
		HTTP:          &http.Client{Timeout: upstreamHTTPTimeout},
		APIKey:        cfg.PlacesAPIKey,
		BaseURL:       googleMapsBaseURL,
		Language:      cfg.Language,
		Region:        cfg.Region,
		RadiusMeters:  cfg.ProximityRadiusMeters,
		PublicBaseURL: cfg.PublicBaseURL,
		Cache:         cache.New(placesCacheTTL, placesCacheCleanup),
	}
}

type textSearchResult struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	PlaceID          string   `json:"place_id"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

type textSearchPayload struct {
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	Results      []textSearchResult `json:"results"`
}

// SearchPlaces returns at most three candidates, best first. ZERO_RESULTS is an
// empty list; any other provider status is an *utils.UpstreamError.
func (c *GooglePlacesClient) SearchPlaces(ctx context.Context, req request_models.PlaceSearchRequest) ([]response_models.Place, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", utils.ErrInvalidInput)
	}
	city := strings.TrimSpace(req.City)
	if city != "" {
		query = city + " " + query
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("key", c.APIKey)
	if c.Language != "" {
		q.Set("language", c.Language)
	}
	if c.Region != "" {
		q.Set("region", c.Region)
	}
	if req.Proximity != nil {
		q.Set("location", req.Proximity.String())
		q.Set("radius", strconv.Itoa(c.RadiusMeters))
	}

	cacheKey := "textsearch|" + q.Get("query") + "|" + q.Get("location")
	if v, ok := c.Cache.Get(cacheKey); ok {
		return append([]response_models.Place(nil), v.([]response_models.Place)...), nil
	}

	started := time.Now()
	places, err := c.textSearch(ctx, q)
	metrics.ObserveUpstream(placesServiceName, started, err)
	if upstream, ok := utils.AsUpstreamError(err); ok {
		// Provider-level refusals read as "no match"; they are not cached.
		log.Printf("places search %q: %v", req.Query, upstream)
		return []response_models.Place{}, nil
	}
	if err != nil {
		return nil, err
	}

	c.Cache.Set(cacheKey, places, cache.DefaultExpiration)
	return append([]response_models.Place(nil), places...), nil
}

func (c *GooglePlacesClient) textSearch(ctx context.Context, q url.Values) ([]response_models.Place, error) {
	u := c.BaseURL + "/place/textsearch/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places http error: %w: %v", utils.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("places bad status %s: %w", resp.Status, utils.ErrUpstreamUnavailable)
	}

	var payload textSearchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places decode: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []response_models.Place{}, nil
	default:
		return nil, utils.NewUpstreamError(placesServiceName, payload.Status, payload.ErrorMessage)
	}

	top := payload.Results
	if len(top) > maxPlaceResults {
		top = top[:maxPlaceResults]
	}
	places := lo.Map(top, func(r textSearchResult, _ int) response_models.Place {
		place := response_models.Place{
			Name:        r.Name,
			Address:     r.FormattedAddress,
			Lat:         r.Geometry.Location.Lat,
			Lng:         r.Geometry.Location.Lng,
			PlaceID:     r.PlaceID,
			Rating:      r.Rating,
			RatingCount: r.UserRatingsTotal,
		}
		if len(r.Photos) > 0 {
			place.PhotoRef = r.Photos[0].PhotoReference
		}
		return place
	})
	return places, nil
}

func (c *GooglePlacesClient) FetchPhoto(ctx context.Context, req request_models.PlacePhotoRequest) (*response_models.Photo, error) {
	ref := strings.TrimSpace(req.Ref)
	if ref == "" {
		return nil, fmt.Errorf("ref is required: %w", utils.ErrInvalidInput)
	}
	width := req.MaxWidth
	if width <= 0 {
		width = defaultPhotoWidth
	}

	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(width))
	q.Set("photo_reference", ref)
	q.Set("key", c.APIKey)

	started := time.Now()
	photo, err := c.fetchPhoto(ctx, c.BaseURL+"/place/photo?"+q.Encode())
	metrics.ObserveUpstream("photo", started, err)
	return photo, err
}

func (c *GooglePlacesClient) fetchPhoto(ctx context.Context, u string) (*response_models.Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("photo request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo http error: %w: %v", utils.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, utils.NewUpstreamError("photo", strconv.Itoa(resp.StatusCode), "Failed to fetch photo")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("photo read: %w: %v", utils.ErrUpstreamUnavailable, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultPhotoType
	}
	return &response_models.Photo{ContentType: contentType, Data: data}, nil
}

// PhotoURL points at the photo proxy endpoint rather than at Google.
func (c *GooglePlacesClient) PhotoURL(ref string) string {
	if ref == "" {
		return ""
	}
	q := url.Values{}
	q.Set("ref", ref)
	q.Set("maxwidth", strconv.Itoa(defaultPhotoWidth))
	return c.PublicBaseURL + "/api/places/photo?" + q.Encode()
}
