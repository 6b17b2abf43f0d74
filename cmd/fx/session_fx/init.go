package session_fx

import (
	"context"

	"go.uber.org/fx"
	"tripmap/internal/api/controllers"
	"tripmap/internal/config"
	"tripmap/internal/services"
)

var Module = fx.Provide(
	provideSessionService,
	controllers.NewSessionController)

func provideSessionService(
	lc fx.Lifecycle,
	cfg *config.Config,
	places services.PlacesServiceInterface,
	directions services.DirectionsServiceInterface,
) services.MapSessionServiceInterface {
	sessions := services.NewMapSessionService(cfg, places, directions)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sessions.Shutdown()
			return nil
		},
	})
	return sessions
}
