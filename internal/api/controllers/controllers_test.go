package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tripmap/internal/mapsync"
	"tripmap/internal/models/db_models"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/pkg/middleware"
	"tripmap/pkg/utils"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type stubChat struct {
	resp *response_models.ChatResponse
	err  error
	got  request_models.ChatRequest
}

func (s *stubChat) Chat(ctx context.Context, req request_models.ChatRequest) (*response_models.ChatResponse, error) {
	s.got = req
	return s.resp, s.err
}

func (s *stubChat) Interactions(ctx context.Context, sessionID string) ([]db_models.ChatInteraction, error) {
	return []db_models.ChatInteraction{{SessionID: sessionID, Provider: "fake"}}, nil
}

type stubPlaces struct {
	places []response_models.Place
	err    error
}

func (s *stubPlaces) SearchPlaces(ctx context.Context, req request_models.PlaceSearchRequest) ([]response_models.Place, error) {
	return s.places, s.err
}

func (s *stubPlaces) FetchPhoto(ctx context.Context, req request_models.PlacePhotoRequest) (*response_models.Photo, error) {
	return &response_models.Photo{ContentType: "image/webp", Data: []byte(req.Ref)}, nil
}

func (s *stubPlaces) PhotoURL(ref string) string { return "/photo/" + ref }

type stubDirections struct {
	err error
}

func (s *stubDirections) GetDirections(ctx context.Context, req request_models.DirectionsRequest) (*response_models.DirectionsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.DirectionsResponse{EncodedPath: "abc"}, nil
}

type stubWeather struct{}

func (stubWeather) GetForecast(ctx context.Context, req request_models.WeatherRequest) (*response_models.WeatherResponse, error) {
	return &response_models.WeatherResponse{City: req.City, Reason: response_models.WeatherReasonTooFar}, nil
}

type stubSessions struct {
	lastEvent request_models.MapEventRequest
}

func (s *stubSessions) Create(ctx context.Context) (string, error) { return "sess-1", nil }

func (s *stubSessions) View(ctx context.Context, id string) (*mapsync.View, error) {
	if id != "sess-1" {
		return nil, utils.ErrSessionNotFound
	}
	return &mapsync.View{PlanVersion: 3}, nil
}

func (s *stubSessions) SetPlan(ctx context.Context, id string, plan *response_models.Plan) (*mapsync.View, error) {
	return &mapsync.View{Plan: plan}, nil
}

func (s *stubSessions) Dispatch(ctx context.Context, id string, req request_models.MapEventRequest) (*mapsync.View, error) {
	s.lastEvent = req
	if req.Type == "bogus" {
		return nil, utils.ErrInvalidInput
	}
	return &mapsync.View{}, nil
}

func (s *stubSessions) Close(id string) error { return nil }

func (s *stubSessions) Shutdown() {}

func TestHealth(t *testing.T) {
	r := newEngine()
	r.GET("/api/health", NewHealthController().Health)

	w, _ := do(t, r, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"backend is running"}`, w.Body.String())
}

func TestChatEndpoint(t *testing.T) {
	chat := &stubChat{resp: &response_models.ChatResponse{Content: "How many days?"}}
	r := newEngine()
	ctrl := NewChatController(chat)
	r.POST("/api/chat", ctrl.Chat)
	r.GET("/api/sessions/:id/interactions", ctrl.Interactions)

	w, env := do(t, r, http.MethodPost, "/api/chat", map[string]any{
		"messages":   []map[string]string{{"role": "user", "content": "Taipei trip"}},
		"session_id": "sess-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.TraceID)
	assert.JSONEq(t, `{"content":"How many days?","plan":null}`, string(env.Data))
	assert.Equal(t, "sess-1", chat.got.SessionID)

	w, env = do(t, r, http.MethodPost, "/api/chat", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "messages is required", env.Message)

	chat.err = utils.ErrUnexpectedBehaviorOfAI
	w, env = do(t, r, http.MethodPost, "/api/chat", map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to get AI response", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/sessions/sess-1/interactions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"provider":"fake"`)
}

func TestPlacesEndpoints(t *testing.T) {
	places := &stubPlaces{places: []response_models.Place{{Name: "Taipei 101", Lat: 25.03, Lng: 121.56}}}
	r := newEngine()
	ctrl := NewPlacesController(places)
	r.POST("/api/places/search", ctrl.Search)
	r.GET("/api/places/photo", ctrl.Photo)

	w, env := do(t, r, http.MethodPost, "/api/places/search", map[string]any{"query": "101", "city": "Taipei"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"Taipei 101"`)

	w, _ = do(t, r, http.MethodPost, "/api/places/search", map[string]any{"city": "Taipei"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	places.err = fmt.Errorf("places http error: %w", utils.ErrUpstreamUnavailable)
	w, env = do(t, r, http.MethodPost, "/api/places/search", map[string]any{"query": "101"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Upstream service unavailable", env.Message)

	w, _ = do(t, r, http.MethodGet, "/api/places/photo?ref=xyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.Equal(t, "xyz", w.Body.String())

	w, _ = do(t, r, http.MethodGet, "/api/places/photo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectionsEndpoint(t *testing.T) {
	directions := &stubDirections{}
	r := newEngine()
	r.POST("/api/directions", NewDirectionsController(directions).GetDirections)
	body := map[string]any{
		"origin":      map[string]float64{"lat": 25.03, "lng": 121.56},
		"destination": map[string]float64{"lat": 25.04, "lng": 121.51},
		"mode":        "walking",
	}

	w, env := do(t, r, http.MethodPost, "/api/directions", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"encodedPath":"abc"`)

	directions.err = utils.NewUpstreamError("directions", "NOT_FOUND", "At least one waypoint could not be geocoded.")
	w, env = do(t, r, http.MethodPost, "/api/directions", body)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t,
		`{"error":"Directions status not OK","status":"NOT_FOUND","errorMessage":"At least one waypoint could not be geocoded."}`,
		string(env.Data))

	w, _ = do(t, r, http.MethodPost, "/api/directions", map[string]any{"mode": "walking"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeatherEndpoint(t *testing.T) {
	r := newEngine()
	r.POST("/api/weather", NewWeatherController(stubWeather{}).GetForecast)

	w, env := do(t, r, http.MethodPost, "/api/weather", map[string]any{"city": "Hualien", "startDate": "2030-01-01"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"city":"Hualien","daily":null,"reason":"Date too far"}`, string(env.Data))
}

func TestSessionEndpoints(t *testing.T) {
	sessions := &stubSessions{}
	ctrl := NewSessionController(sessions)
	r := newEngine()
	r.POST("/api/sessions", ctrl.Create)
	r.GET("/api/sessions/:id", ctrl.View)
	r.DELETE("/api/sessions/:id", ctrl.Delete)
	r.POST("/api/sessions/:id/plan", ctrl.SetPlan)
	r.POST("/api/sessions/:id/events", ctrl.Dispatch)

	w, env := do(t, r, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session_id":"sess-1"}`, string(env.Data))

	w, env = do(t, r, http.MethodGet, "/api/sessions/sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"planVersion":3`)

	w, env = do(t, r, http.MethodGet, "/api/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Map session not found", env.Message)

	w, _ = do(t, r, http.MethodPost, "/api/sessions/sess-1/events", map[string]any{"type": "day_selected", "day": 2})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sessions.lastEvent.Day)
	assert.Equal(t, 2, *sessions.lastEvent.Day)

	w, _ = do(t, r, http.MethodPost, "/api/sessions/sess-1/events", map[string]any{"type": "segment_clicked", "segment_id": "1-0"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1-0", sessions.lastEvent.SegmentID)

	w, _ = do(t, r, http.MethodPost, "/api/sessions/sess-1/events", map[string]any{"type": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/sessions/sess-1/plan", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/sessions/sess-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
