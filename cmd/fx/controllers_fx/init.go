package controllers_fx

import (
	"go.uber.org/fx"
	"tripmap/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewHealthController))
