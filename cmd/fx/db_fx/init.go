package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripmap/internal/config"
	"tripmap/internal/infra"
	"tripmap/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	provideChatInteractionRepo)

// provideDB yields a nil *gorm.DB when POSTGRES_URL is unset.
func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}

func provideChatInteractionRepo(db *gorm.DB) repositories.ChatInteractionRepository {
	return repositories.NewChatInteractionRepository(db)
}
