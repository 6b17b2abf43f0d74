package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"tripmap/internal/models/db_models"
	"tripmap/pkg/utils"
)

type ChatInteractionRepository interface {
	Insert(ctx context.Context, interaction *db_models.ChatInteraction) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]db_models.ChatInteraction, error)
}

type chatInteractionRepository struct {
	db *gorm.DB
}

// NewChatInteractionRepository accepts a nil db, in which case every call is a no-op.
func NewChatInteractionRepository(db *gorm.DB) ChatInteractionRepository {
	return &chatInteractionRepository{
		db: db,
	}
}

func (r *chatInteractionRepository) Insert(ctx context.Context, interaction *db_models.ChatInteraction) error {
	if r.db == nil {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("insert chat interaction: %w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *chatInteractionRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]db_models.ChatInteraction, error) {
	if r.db == nil {
		return nil, nil
	}
	var interactions []db_models.ChatInteraction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("list chat interactions: %w: %v", utils.ErrDatabaseError, err)
	}
	return interactions, nil
}
