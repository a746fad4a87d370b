package server

import (
	"context"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.GroupView, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.GroupView), args.Int(1), args.Error(2)
}

func (m *MockGroupService) SearchPublicGroups(ctx context.Context, filter domain.PublicSearchFilter) ([]*domain.GroupView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GroupView), args.Error(1)
}

func (m *MockGroupService) GetGroupByID(ctx context.Context, id string) (*domain.GroupView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupView), args.Error(1)
}

func (m *MockGroupService) GetGroupByInviteCode(ctx context.Context, code string) (*domain.GroupView, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupView), args.Error(1)
}

func (m *MockGroupService) ListUserGroups(ctx context.Context, userID string, status *domain.StoredStatus) ([]*domain.UserGroup, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserGroup), args.Error(1)
}

func (m *MockGroupService) ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockGroupService) GetGroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupStats), args.Error(1)
}

func (m *MockGroupService) UpdateGroup(ctx context.Context, groupID, actorID string, update domain.GroupUpdate) (*domain.GroupView, error) {
	args := m.Called(ctx, groupID, actorID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupView), args.Error(1)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) CreateGroup(ctx context.Context, input service.CreateGroupInput) (*domain.Group, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockMembershipService) JoinGroup(ctx context.Context, groupID, userID string, invitedBy *string) (*domain.Membership, error) {
	args := m.Called(ctx, groupID, userID, invitedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipService) JoinByInviteCode(ctx context.Context, code, userID string) (*domain.Group, *domain.Membership, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Group), args.Get(1).(*domain.Membership), args.Error(2)
}

func (m *MockMembershipService) ChangeMemberRole(ctx context.Context, groupID, actorID, targetUserID string, newRole domain.MemberRole) (*domain.Membership, error) {
	args := m.Called(ctx, groupID, actorID, targetUserID, newRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipService) LeaveGroup(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipService) RemoveMember(ctx context.Context, groupID, actorID, targetUserID string) (*domain.Membership, error) {
	args := m.Called(ctx, groupID, actorID, targetUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}
