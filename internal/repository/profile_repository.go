package repository

import (
	"context"

	"github.com/bagdasarian/study-groups/internal/domain"
)

type ProfileRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Profile, error)
}
