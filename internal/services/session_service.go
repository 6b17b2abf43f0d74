package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"tripmap/internal/config"
	"tripmap/internal/mapsync"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	mem "tripmap/pkg/memcache"
	"tripmap/pkg/metrics"
	"tripmap/pkg/utils"
)

type MapSessionServiceInterface interface {
	Create(ctx context.Context) (string, error)
	View(ctx context.Context, id string) (*mapsync.View, error)
	SetPlan(ctx context.Context, id string, plan *response_models.Plan) (*mapsync.View, error)
	Dispatch(ctx context.Context, id string, req request_models.MapEventRequest) (*mapsync.View, error)
	Close(id string) error
	Shutdown()
}

type mapSession struct {
	controller *mapsync.Controller
	stop       context.CancelFunc
}

// MapSessionService keeps one mapsync.Controller per browser map, expiring
// idle ones after the configured TTL.
type MapSessionService struct {
	resolver   mapsync.MarkerResolver
	directions mapsync.DirectionsResolver
	viewOpts   mapsync.ViewOptions
	store      *mem.SessionStore[*mapSession]
}

func NewMapSessionService(
	cfg *config.Config,
	places PlacesServiceInterface,
	directions DirectionsServiceInterface,
) MapSessionServiceInterface {
	return newMapSessionService(
		mapsync.NewResolver(places, cfg.MarkerConcurrency),
		directions,
		mapsync.ViewOptions{PhotoURL: places.PhotoURL},
		cfg.SessionTTL,
	)
}

func newMapSessionService(
	resolver mapsync.MarkerResolver,
	directions mapsync.DirectionsResolver,
	opts mapsync.ViewOptions,
	ttl time.Duration,
) *MapSessionService {
	s := &MapSessionService{
		resolver:   resolver,
		directions: directions,
		viewOpts:   opts,
	}
	s.store = mem.NewSessionStore(ttl, func(id string, sess *mapSession) {
		sess.stop()
		metrics.ActiveMapSessions.Dec()
		log.Printf("map session %s closed", id)
	})
	return s
}

func (s *MapSessionService) Create(ctx context.Context) (string, error) {
	id := uuid.New().String()
	runCtx, stop := context.WithCancel(context.Background())
	controller := mapsync.NewController(s.resolver, s.directions, s.viewOpts)
	go controller.Run(runCtx)

	s.store.Put(id, &mapSession{controller: controller, stop: stop})
	metrics.ActiveMapSessions.Inc()
	return id, nil
}

func (s *MapSessionService) View(ctx context.Context, id string) (*mapsync.View, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess)
}

func (s *MapSessionService) SetPlan(ctx context.Context, id string, plan *response_models.Plan) (*mapsync.View, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required: %w", utils.ErrInvalidInput)
	}
	normalized := plan.Clone()
	normalized.Normalize()
	if err := normalized.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, utils.ErrInvalidInput)
	}
	return s.dispatch(ctx, id, mapsync.PlanReceived{Plan: normalized})
}

func (s *MapSessionService) Dispatch(ctx context.Context, id string, req request_models.MapEventRequest) (*mapsync.View, error) {
	ev, err := toEvent(req)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, id, ev)
}

func (s *MapSessionService) Close(id string) error {
	if !s.store.Delete(id) {
		return utils.ErrSessionNotFound
	}
	return nil
}

func (s *MapSessionService) Shutdown() {
	s.store.DeleteAll()
}

func (s *MapSessionService) dispatch(ctx context.Context, id string, ev mapsync.Event) (*mapsync.View, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := sess.controller.Dispatch(ctx, ev); err != nil {
		return nil, sessionError(err)
	}
	return s.view(ctx, sess)
}

func (s *MapSessionService) view(ctx context.Context, sess *mapSession) (*mapsync.View, error) {
	v, err := sess.controller.View(ctx)
	if err != nil {
		return nil, sessionError(err)
	}
	return &v, nil
}

func (s *MapSessionService) get(id string) (*mapSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return sess, nil
}

func sessionError(err error) error {
	if errors.Is(err, mapsync.ErrStopped) {
		return utils.ErrSessionClosed
	}
	return err
}

func toEvent(req request_models.MapEventRequest) (mapsync.Event, error) {
	switch req.Type {
	case request_models.MapEventDaySelected:
		return mapsync.DaySelected{Day: req.Day}, nil
	case request_models.MapEventMarkerClicked, request_models.MapEventListItemClicked:
		if req.Day == nil || req.Order == nil {
			return nil, fmt.Errorf("%s needs day and order: %w", req.Type, utils.ErrInvalidInput)
		}
		key := mapsync.MarkerKey{Day: *req.Day, Order: *req.Order}
		if req.Type == request_models.MapEventMarkerClicked {
			return mapsync.MarkerClicked{Key: key}, nil
		}
		return mapsync.ListItemClicked{Key: key}, nil
	case request_models.MapEventMarkerDeselected:
		return mapsync.MarkerDeselected{}, nil
	case request_models.MapEventSegmentClicked:
		if req.SegmentID == "" {
			return nil, fmt.Errorf("segment_clicked needs segment_id: %w", utils.ErrInvalidInput)
		}
		return mapsync.SegmentClicked{SegmentID: req.SegmentID}, nil
	case request_models.MapEventTravelModeChanged:
		mode, ok := mapsync.ParseTravelMode(req.Mode)
		if !ok {
			return nil, fmt.Errorf("unsupported travel mode %q: %w", req.Mode, utils.ErrInvalidInput)
		}
		return mapsync.TravelModeChanged{Mode: mode}, nil
	case request_models.MapEventSegmentClosed:
		return mapsync.SegmentClosed{}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q: %w", req.Type, utils.ErrInvalidInput)
	}
}
