package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kitamove/kitamove/internal/api/handler"
	"github.com/kitamove/kitamove/internal/api/models"
	"github.com/kitamove/kitamove/internal/config"
	"github.com/kitamove/kitamove/internal/geo"
	"github.com/kitamove/kitamove/internal/provider/resilience"
	"github.com/kitamove/kitamove/internal/routing"
	"github.com/kitamove/kitamove/internal/routing/openrouteservice"
	"github.com/kitamove/kitamove/internal/routing/osrm"
	"github.com/kitamove/kitamove/internal/telemetry"
)

// routeSetup is the route handler wiring for one mode.
type routeSetup struct {
	handler handler.RouteHandlerConfig
	// upstreamRequired is true when the mode has no fallback.
	upstreamRequired bool
}

// buildRoutes wires the providers for cfg.Mode.
func buildRoutes(cfg config.Config, log zerolog.Logger, registry *resilience.Registry, metrics *telemetry.RoutingMetrics) (routeSetup, error) {
	switch cfg.Mode {
	case config.ModeMock:
		svc := routing.NewService(routing.ServiceConfig{
			Fallback: routing.NewStraightLineProvider(routing.StraightLineConfig{}),
			Delay:    cfg.MockDelay,
			Metrics:  metrics,
			Logger:   log,
		})
		return routeSetup{handler: handler.RouteHandlerConfig{Service: svc}}, nil

	case config.ModeMalaysia:
		upstream := osrm.NewClient(osrm.ClientConfig{
			BaseURL:    cfg.OSRMBaseURL,
			Timeout:    cfg.UpstreamTimeout,
			MaxRetries: cfg.UpstreamMaxRetries,
			Registry:   registry,
			Logger:     log,
		})
		svc := routing.NewService(routing.ServiceConfig{
			Upstream:           upstream,
			Fallback:           routing.NewRoadSnapProvider(),
			Bounds:             geo.MalaysiaBounds(),
			OutsideAreaMessage: models.MessageOutsideMalaysia,
			UpstreamTimeout:    cfg.UpstreamTimeout,
			Metrics:            metrics,
			Logger:             log,
		})
		return routeSetup{handler: handler.RouteHandlerConfig{Service: svc}}, nil

	case config.ModeProxy:
		relay := openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey:   cfg.ORSAPIKey,
			BaseURL:  cfg.ORSBaseURL,
			Timeout:  cfg.UpstreamTimeout,
			Registry: registry,
			Logger:   log,
		})
		return routeSetup{
			handler:          handler.RouteHandlerConfig{Relay: relay},
			upstreamRequired: true,
		}, nil

	default:
		return routeSetup{}, fmt.Errorf("unknown route mode %q", cfg.Mode)
	}
}
