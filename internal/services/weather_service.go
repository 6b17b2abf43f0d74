package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/ringsaturn/tzf"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/pkg/metrics"
	"tripmap/pkg/utils"
)

const (
	openMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1"
	openMeteoForecastURL  = "https://api.open-meteo.com/v1"

	forecastHorizonDays = 14
	forecastWindowDays  = 7
	forecastLastDay     = 15
	weatherCacheTTL     = 1 * time.Hour
	weatherServiceName  = "weather"
)

type WeatherServiceInterface interface {
	GetForecast(ctx context.Context, req request_models.WeatherRequest) (*response_models.WeatherResponse, error)
}

// TimezoneFinder maps a coordinate to an IANA zone name, "" when unknown.
type TimezoneFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

type OpenMeteoClient struct {
	HTTP         *http.Client
	GeocodingURL string
	ForecastURL  string
	Timezones    TimezoneFinder
	Cache        *cache.Cache
	now          func() time.Time
}

func NewOpenMeteoClient() (*OpenMeteoClient, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load timezone finder: %w", err)
	}
	return &OpenMeteoClient{
		HTTP:         &http.Client{Timeout: upstreamHTTPTimeout},
		GeocodingURL: openMeteoGeocodingURL,
		ForecastURL:  openMeteoForecastURL,
		Timezones:    finder,
		Cache:        cache.New(weatherCacheTTL, weatherCacheTTL),
		now:          time.Now,
	}, nil
}

type cityLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// GetForecast never reports provider trouble as an error: it answers with a
// nil Daily and a Reason instead. Errors are only returned for bad input.
func (c *OpenMeteoClient) GetForecast(ctx context.Context, req request_models.WeatherRequest) (*response_models.WeatherResponse, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, fmt.Errorf("city is required: %w", utils.ErrInvalidInput)
	}

	today := utils.StartOfDay(c.now().UTC())
	start := today
	if strings.TrimSpace(req.StartDate) != "" {
		parsed, err := utils.ParseDate(req.StartDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("startDate %q: %w", req.StartDate, utils.ErrInvalidInput)
		}
		if parsed.After(start) {
			start = parsed
		}
	}

	out := &response_models.WeatherResponse{City: city}
	if start.After(today.AddDate(0, 0, forecastHorizonDays)) {
		out.Reason = response_models.WeatherReasonTooFar
		return out, nil
	}

	end := start.AddDate(0, 0, forecastWindowDays-1)
	if last := today.AddDate(0, 0, forecastLastDay); end.After(last) {
		end = last
	}

	cacheKey := strings.ToLower(city) + "|" + utils.FormatDate(start) + "|" + utils.FormatDate(end)
	if v, ok := c.Cache.Get(cacheKey); ok {
		out.Daily = v.(*response_models.DailyForecast)
		return out, nil
	}

	loc, err := c.geocode(ctx, city)
	if err != nil {
		log.Printf("weather: geocoding %q failed: %v", city, err)
		out.Reason = response_models.WeatherReasonUnavailable
		return out, nil
	}
	if loc == nil {
		out.Reason = response_models.WeatherReasonCityUnknown
		return out, nil
	}

	daily, err := c.forecast(ctx, loc, start, end)
	if err != nil {
		log.Printf("weather: forecast for %q failed: %v", city, err)
		out.Reason = response_models.WeatherReasonUnavailable
		return out, nil
	}

	c.Cache.Set(cacheKey, daily, cache.DefaultExpiration)
	out.Daily = daily
	return out, nil
}

func (c *OpenMeteoClient) geocode(ctx context.Context, city string) (*cityLocation, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")

	var payload struct {
		Results []cityLocation `json:"results"`
	}
	started := time.Now()
	err := c.getJSON(ctx, c.GeocodingURL+"/search?"+q.Encode(), &payload)
	metrics.ObserveUpstream("weather_geocoding", started, err)
	if err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	return &payload.Results[0], nil
}

func (c *OpenMeteoClient) forecast(ctx context.Context, loc *cityLocation, start, end time.Time) (*response_models.DailyForecast, error) {
	tz := c.Timezones.GetTimezoneName(loc.Longitude, loc.Latitude)
	if tz == "" {
		tz = loc.Timezone
	}
	if tz == "" {
		tz = "auto"
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", tz)
	q.Set("start_date", utils.FormatDate(start))
	q.Set("end_date", utils.FormatDate(end))

	var payload struct {
		Timezone string `json:"timezone"`
		Daily    *struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weathercode"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	started := time.Now()
	err := c.getJSON(ctx, c.ForecastURL+"/forecast?"+q.Encode(), &payload)
	metrics.ObserveUpstream(weatherServiceName, started, err)
	if err != nil {
		return nil, err
	}
	if payload.Daily == nil || len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("forecast has no daily data")
	}

	return &response_models.DailyForecast{
		Dates:        payload.Daily.Time,
		WeatherCodes: payload.Daily.WeatherCode,
		TempsMax:     payload.Daily.TempMax,
		TempsMin:     payload.Daily.TempMin,
		Timezone:     payload.Timezone,
	}, nil
}

func (c *OpenMeteoClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("open-meteo request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("open-meteo http error: %w: %v", utils.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("open-meteo bad status %s: %w", resp.Status, utils.ErrUpstreamUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("open-meteo decode: %w", err)
	}
	return nil
}
