package weather_fx

import (
	"go.uber.org/fx"
	"tripmap/internal/api/controllers"
	"tripmap/internal/services"
)

var Module = fx.Provide(
	provideWeatherService,
	controllers.NewWeatherController)

func provideWeatherService() (services.WeatherServiceInterface, error) {
	return services.NewOpenMeteoClient()
}
