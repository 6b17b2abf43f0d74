package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"tripmap/cmd/fx/chat_fx"
	"tripmap/cmd/fx/config_fx"
	"tripmap/cmd/fx/controllers_fx"
	"tripmap/cmd/fx/db_fx"
	"tripmap/cmd/fx/directions_fx"
	"tripmap/cmd/fx/places_fx"
	"tripmap/cmd/fx/session_fx"
	"tripmap/cmd/fx/weather_fx"
	"tripmap/internal/api/controllers"
	"tripmap/internal/config"
	"tripmap/pkg/metrics"
	"tripmap/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		places_fx.Module,
		directions_fx.Module,
		weather_fx.Module,
		session_fx.Module,
		chat_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Health     *controllers.HealthController
	Chat       *controllers.ChatController
	Places     *controllers.PlacesController
	Directions *controllers.DirectionsController
	Weather    *controllers.WeatherController
	Sessions   *controllers.SessionController
}

func ProvideRouter(p routerParams) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p routerParams) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", p.Health.Health)
	api.POST("/chat", p.Chat.Chat)
	api.POST("/directions", p.Directions.GetDirections)
	api.POST("/weather", p.Weather.GetForecast)

	placesGroup := api.Group("/places")
	placesGroup.POST("/search", p.Places.Search)
	placesGroup.GET("/photo", p.Places.Photo)

	sessionsGroup := api.Group("/sessions")
	sessionsGroup.POST("", p.Sessions.Create)
	sessionsGroup.GET("/:id", p.Sessions.View)
	sessionsGroup.DELETE("/:id", p.Sessions.Delete)
	sessionsGroup.POST("/:id/plan", p.Sessions.SetPlan)
	sessionsGroup.POST("/:id/events", p.Sessions.Dispatch)
	sessionsGroup.GET("/:id/interactions", p.Chat.Interactions)
}
