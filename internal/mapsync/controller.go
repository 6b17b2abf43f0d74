package mapsync

import (
	"context"
	"errors"
	"log"

	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
)

var ErrStopped = errors.New("map controller stopped")

type MarkerResolver interface {
	Resolve(ctx context.Context, plan *response_models.Plan) Resolution
}

type DirectionsResolver interface {
	GetDirections(ctx context.Context, req request_models.DirectionsRequest) (*response_models.DirectionsResponse, error)
}

type message struct {
	event Event
	reply chan View
}

// Controller serializes every event for one map through a single goroutine
// that owns the Machine. Effects run in their own goroutines and report back
// as events, so the Machine never sees concurrent writers.
type Controller struct {
	machine    *Machine
	markers    MarkerResolver
	directions DirectionsResolver
	opts       ViewOptions

	inbox chan message
	done  chan struct{}

	cancelResolve    context.CancelFunc
	cancelDirections context.CancelFunc
}

func NewController(markers MarkerResolver, directions DirectionsResolver, opts ViewOptions) *Controller {
	return &Controller{
		machine:    NewMachine(),
		markers:    markers,
		directions: directions,
		opts:       opts,
		inbox:      make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled. It must be called exactly once.
func (c *Controller) Run(ctx context.Context) {
	defer func() {
		c.cancelResolution()
		c.cancelFetch()
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.inbox:
			if msg.reply != nil {
				msg.reply <- Derive(c.machine.State(), c.opts)
				continue
			}
			for _, eff := range c.machine.Apply(msg.event) {
				c.execute(ctx, eff)
			}
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Dispatch queues an event. Events are applied in the order they are queued.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	if c.stopped() {
		return ErrStopped
	}
	select {
	case c.inbox <- message{event: ev}:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View returns the derived view after every event queued before the call.
func (c *Controller) View(ctx context.Context) (View, error) {
	if c.stopped() {
		return View{}, ErrStopped
	}
	reply := make(chan View, 1)
	select {
	case c.inbox <- message{reply: reply}:
	case <-c.done:
		return View{}, ErrStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}

	select {
	case v := <-reply:
		return v, nil
	case <-c.done:
		return View{}, ErrStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (c *Controller) execute(ctx context.Context, eff Effect) {
	switch e := eff.(type) {
	case ResolveMarkers:
		c.cancelResolution()
		rctx, cancel := context.WithCancel(ctx)
		c.cancelResolve = cancel
		go func() {
			defer cancel()
			res := c.markers.Resolve(rctx, e.Plan)
			log.Printf("mapsync: plan v%d resolved %d markers", e.Version, len(res.Markers))
			c.post(MarkersResolved{Version: e.Version, Resolution: res})
		}()
	case CancelResolution:
		c.cancelResolution()
	case FetchDirections:
		c.cancelFetch()
		dctx, cancel := context.WithCancel(ctx)
		c.cancelDirections = cancel
		go func() {
			defer cancel()
			origin, dest := e.Origin, e.Dest
			resp, err := c.directions.GetDirections(dctx, request_models.DirectionsRequest{
				Origin:      &origin,
				Destination: &dest,
				Mode:        string(e.Mode),
			})
			if dctx.Err() != nil {
				return
			}
			c.post(DirectionsResolved{RequestID: e.RequestID, Response: resp, Err: err})
		}()
	case CancelDirections:
		c.cancelFetch()
	}
}

func (c *Controller) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Controller) post(ev Event) {
	select {
	case c.inbox <- message{event: ev}:
	case <-c.done:
	}
}

func (c *Controller) cancelResolution() {
	if c.cancelResolve != nil {
		c.cancelResolve()
		c.cancelResolve = nil
	}
}

func (c *Controller) cancelFetch() {
	if c.cancelDirections != nil {
		c.cancelDirections()
		c.cancelDirections = nil
	}
}
