package places_fx

import (
	"go.uber.org/fx"
	"tripmap/internal/api/controllers"
	"tripmap/internal/config"
	"tripmap/internal/services"
)

var Module = fx.Provide(
	providePlacesService,
	controllers.NewPlacesController)

func providePlacesService(cfg *config.Config) services.PlacesServiceInterface {
	return services.NewGooglePlacesClient(cfg)
}
