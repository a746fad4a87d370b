package service

import (
	"context"

	"github.com/bagdasarian/study-groups/internal/domain"
)

type GroupService interface {
	ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.GroupView, int, error)
	SearchPublicGroups(ctx context.Context, filter domain.PublicSearchFilter) ([]*domain.GroupView, error)
	GetGroupByID(ctx context.Context, id string) (*domain.GroupView, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*domain.GroupView, error)
	ListUserGroups(ctx context.Context, userID string, status *domain.StoredStatus) ([]*domain.UserGroup, error)
	ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error)
	GetGroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error)
	UpdateGroup(ctx context.Context, groupID, actorID string, update domain.GroupUpdate) (*domain.GroupView, error)
}
