package directions_fx

import (
	"go.uber.org/fx"
	"tripmap/internal/api/controllers"
	"tripmap/internal/config"
	"tripmap/internal/services"
)

var Module = fx.Provide(
	provideDirectionsService,
	controllers.NewDirectionsController)

func provideDirectionsService(cfg *config.Config) services.DirectionsServiceInterface {
	return services.NewGoogleDirectionsClient(cfg)
}
