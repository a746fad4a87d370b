package service

import (
	"context"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
)

type CreateGroupInput struct {
	Name           string
	Description    string
	Subject        string
	Faculty        string
	Course         string
	YearOfStudy    string
	CreatorID      string
	MaxMembers     *int
	IsPrivate      bool
	IsScheduled    bool
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	MeetingTimes   []string
}

type MembershipService interface {
	CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error)
	JoinGroup(ctx context.Context, groupID, userID string, invitedBy *string) (*domain.Membership, error)
	JoinByInviteCode(ctx context.Context, code, userID string) (*domain.Group, *domain.Membership, error)
	ChangeMemberRole(ctx context.Context, groupID, actorID, targetUserID string, newRole domain.MemberRole) (*domain.Membership, error)
	LeaveGroup(ctx context.Context, groupID, userID string) (*domain.Membership, error)
	RemoveMember(ctx context.Context, groupID, actorID, targetUserID string) (*domain.Membership, error)
}
