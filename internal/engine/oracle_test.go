package engine_test

import (
	"context"
	"fmt"
	"time"

	"caltransit/internal/model"
)

// stubOracle implements engine.RouteOracle from two callbacks. Route is only
// ever consulted for walking checks in these tests.
type stubOracle struct {
	legFn  func(origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error)
	walkFn func(origin, destination string) (*model.RouteResult, error)
}

func (o *stubOracle) QueryLeg(ctx context.Context, origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error) {
	if o.legFn == nil {
		return nil, nil
	}
	return o.legFn(origin, destination, forceDrive, departure)
}

func (o *stubOracle) Route(ctx context.Context, origin, destination string, mode model.TravelMode, departure time.Time) (*model.RouteResult, error) {
	if mode != model.ModeWalk {
		return nil, fmt.Errorf("unexpected %s query in test", mode)
	}
	if o.walkFn == nil {
		return nil, nil
	}
	return o.walkFn(origin, destination)
}

// transitOracle answers every leg with a fixed transit duration per
// origin/destination pair, keyed "origin|destination".
func transitOracle(minutes map[string]int) *stubOracle {
	return &stubOracle{
		legFn: func(origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error) {
			m, ok := minutes[origin+"|"+destination]
			if !ok {
				return nil, nil
			}
			mode := model.ModeTransit
			if forceDrive {
				mode = model.ModeDrive
			}
			return &model.RouteResult{Minutes: m, Mode: mode}, nil
		},
	}
}
