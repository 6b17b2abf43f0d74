package config_fx

import (
	"log"

	"go.uber.org/fx"
	"tripmap/internal/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Missing configuration: %v", err)
		return nil, err
	}
	return cfg, nil
}
