package repository

import (
	"context"

	"github.com/bagdasarian/study-groups/internal/domain"
)

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	// GetByIDForUpdate блокирует строку группы до конца текущей транзакции
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Group, error)
	GetActiveByInviteCode(ctx context.Context, code string) (*domain.Group, error)
	List(ctx context.Context, filter domain.GroupFilter) ([]*domain.Group, error)
	Count(ctx context.Context, status *domain.StoredStatus) (int, error)
	SearchPublic(ctx context.Context, filter domain.PublicSearchFilter) ([]*domain.Group, error)
	Update(ctx context.Context, id string, update domain.GroupUpdate) error
}
