package repository

import (
	"context"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) error
	GetActive(ctx context.Context, groupID, userID string) (*domain.Membership, error)
	CountActive(ctx context.Context, groupID string) (int, error)
	CountActiveByGroupIDs(ctx context.Context, groupIDs []string) (map[string]int, error)
	ListActiveMembers(ctx context.Context, groupID string) ([]*domain.Member, error)
	ListUserGroups(ctx context.Context, userID string, status *domain.StoredStatus) ([]*domain.UserGroup, error)
	UpdateRole(ctx context.Context, membershipID string, role domain.MemberRole) error
	Deactivate(ctx context.Context, membershipID string, status domain.MembershipStatus, at time.Time) (*domain.Membership, error)
	GetStats(ctx context.Context, groupID string) (*domain.GroupStats, error)
}
