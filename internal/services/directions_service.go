package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripmap/internal/config"
	"tripmap/internal/models/geo_models"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/pkg/metrics"
	"tripmap/pkg/utils"
)

const directionsServiceName = "directions"

var directionsModes = map[string]bool{
	"driving":   true,
	"transit":   true,
	"walking":   true,
	"bicycling": true,
}

type DirectionsServiceInterface interface {
	GetDirections(ctx context.Context, req request_models.DirectionsRequest) (*response_models.DirectionsResponse, error)
}

type GoogleDirectionsClient struct {
	HTTP     *http.Client
	APIKey   string
	BaseURL  string
	Language string
	Region   string
}

func NewGoogleDirectionsClient(cfg *config.Config) *GoogleDirectionsClient {
	return &GoogleDirectionsClient{
		HTTP:     &http.Client{Timeout: upstreamHTTPTimeout},
		APIKey:   cfg.DirectionsAPIKey,
		BaseURL:  googleMapsBaseURL,
		Language: cfg.Language,
		Region:   cfg.Region,
	}
}

type textValue struct {
	Text string `json:"text"`
}

type directionsPayload struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Bounds           *geo_models.Bounds `json:"bounds"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance     textValue `json:"distance"`
			Duration     textValue `json:"duration"`
			StartAddress string    `json:"start_address"`
			EndAddress   string    `json:"end_address"`
			Steps        []struct {
				HTMLInstructions string    `json:"html_instructions"`
				Distance         textValue `json:"distance"`
				Duration         textValue `json:"duration"`
				TravelMode       string    `json:"travel_mode"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetDirections routes between two points, leaving now. Any provider status
// other than OK comes back as an *utils.UpstreamError.
func (c *GoogleDirectionsClient) GetDirections(ctx context.Context, req request_models.DirectionsRequest) (*response_models.DirectionsResponse, error) {
	if req.Origin == nil || req.Destination == nil {
		return nil, fmt.Errorf("origin and destination are required: %w", utils.ErrInvalidInput)
	}
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = "transit"
	}
	if !directionsModes[mode] {
		return nil, fmt.Errorf("unsupported travel mode %q: %w", req.Mode, utils.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("origin", req.Origin.String())
	q.Set("destination", req.Destination.String())
	q.Set("mode", mode)
	q.Set("departure_time", "now")
	q.Set("key", c.APIKey)
	if c.Language != "" {
		q.Set("language", c.Language)
	}
	if c.Region != "" {
		q.Set("region", c.Region)
	}

	started := time.Now()
	out, err := c.fetch(ctx, c.BaseURL+"/directions/json?"+q.Encode())
	metrics.ObserveUpstream(directionsServiceName, started, err)
	return out, err
}

func (c *GoogleDirectionsClient) fetch(ctx context.Context, u string) (*response_models.DirectionsResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("directions http error: %w: %v", utils.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("directions bad status %s: %w", resp.Status, utils.ErrUpstreamUnavailable)
	}

	var payload directionsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("directions decode: %w", err)
	}
	if payload.Status != "OK" {
		return nil, utils.NewUpstreamError(directionsServiceName, payload.Status, payload.ErrorMessage)
	}
	if len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return nil, utils.NewUpstreamError(directionsServiceName, "ZERO_RESULTS", "")
	}

	route := payload.Routes[0]
	leg := route.Legs[0]
	steps := make([]response_models.DirectionsStep, 0, len(leg.Steps))
	for _, s := range leg.Steps {
		steps = append(steps, response_models.DirectionsStep{
			InstructionHTML: s.HTMLInstructions,
			DistanceText:    s.Distance.Text,
			DurationText:    s.Duration.Text,
			TravelMode:      s.TravelMode,
		})
	}

	return &response_models.DirectionsResponse{
		Summary: response_models.RouteSummary{
			DistanceText: leg.Distance.Text,
			DurationText: leg.Duration.Text,
			StartAddress: leg.StartAddress,
			EndAddress:   leg.EndAddress,
			Steps:        steps,
		},
		EncodedPath: route.OverviewPolyline.Points,
		Bounds:      route.Bounds,
	}, nil
}
