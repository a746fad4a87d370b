package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/repository"
	"golang.org/x/sync/errgroup"
)

type groupService struct {
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	profileRepo    repository.ProfileRepository
	tx             repository.Transactor
	now            func() time.Time
}

// NewGroupService создает новый экземпляр GroupService
func NewGroupService(
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	profileRepo repository.ProfileRepository,
	tx repository.Transactor,
) GroupService {
	return &groupService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		profileRepo:    profileRepo,
		tx:             tx,
		now:            time.Now,
	}
}

// ListGroups возвращает страницу групп (новые первыми) и общее количество
func (s *groupService) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.GroupView, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, domain.NewValidationError("invalid status: %s", *filter.Status)
	}
	filter = NormalizeGroupFilter(filter)

	var groups []*domain.Group
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.groupRepo.Count(gctx, filter.Status)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	views, err := s.attachDerived(ctx, groups)
	if err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

// SearchPublicGroups ищет публичные группы, которые активны прямо сейчас
func (s *groupService) SearchPublicGroups(ctx context.Context, filter domain.PublicSearchFilter) ([]*domain.GroupView, error) {
	groups, err := s.groupRepo.SearchPublic(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	current := make([]*domain.Group, 0, len(groups))
	for _, group := range groups {
		if group.IsScheduled && !filter.IncludeActiveScheduled {
			continue
		}
		if domain.EffectiveStatusAt(group, now) != domain.EffectiveStatusActive {
			continue
		}
		current = append(current, group)
	}

	return s.attachDerived(ctx, current)
}

// GetGroupByID получает группу с профилем создателя и производными полями
func (s *groupService) GetGroupByID(ctx context.Context, id string) (*domain.GroupView, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, groupLookupError(err, id)
	}

	views, err := s.attachDerived(ctx, []*domain.Group{group})
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

// GetGroupByInviteCode ищет активную группу по коду без учета регистра
func (s *groupService) GetGroupByInviteCode(ctx context.Context, code string) (*domain.GroupView, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, domain.NewValidationError("invite_code is required")
	}

	group, err := s.groupRepo.GetActiveByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError("group with invite code " + code)
		}
		return nil, err
	}

	views, err := s.attachDerived(ctx, []*domain.Group{group})
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

func (s *groupService) ListUserGroups(ctx context.Context, userID string, status *domain.StoredStatus) ([]*domain.UserGroup, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if status != nil && !status.Valid() {
		return nil, domain.NewValidationError("invalid status: %s", *status)
	}

	userGroups, err := s.membershipRepo.ListUserGroups(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	groups := make([]*domain.Group, 0, len(userGroups))
	for _, ug := range userGroups {
		groups = append(groups, ug.Group)
	}

	views, err := s.attachDerived(ctx, groups)
	if err != nil {
		return nil, err
	}

	for i, view := range views {
		userGroups[i].GroupView = *view
	}

	return userGroups, nil
}

func (s *groupService) ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, groupLookupError(err, groupID)
	}

	return s.membershipRepo.ListActiveMembers(ctx, groupID)
}

func (s *groupService) GetGroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, groupLookupError(err, groupID)
	}

	return s.membershipRepo.GetStats(ctx, groupID)
}

// UpdateGroup меняет описательные поля группы. Доступно создателю и администраторам.
func (s *groupService) UpdateGroup(ctx context.Context, groupID, actorID string, update domain.GroupUpdate) (*domain.GroupView, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, domain.NewValidationError("name cannot be empty")
	}
	if update.MaxMembers != nil && *update.MaxMembers <= 0 {
		return nil, domain.NewValidationError("max_members must be a positive integer")
	}
	if update.MeetingTimes != nil {
		update.MeetingTimes = cleanMeetingTimes(update.MeetingTimes)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.groupRepo.GetByIDForUpdate(ctx, groupID); err != nil {
			return groupLookupError(err, groupID)
		}

		actor, err := s.membershipRepo.GetActive(ctx, groupID, actorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewForbiddenError("only the group creator or an admin can update the group")
			}
			return err
		}
		if actor.Role != domain.RoleCreator && actor.Role != domain.RoleAdmin {
			return domain.NewForbiddenError("only the group creator or an admin can update the group")
		}

		if update.MaxMembers != nil {
			count, err := s.membershipRepo.CountActive(ctx, groupID)
			if err != nil {
				return err
			}
			if *update.MaxMembers < count {
				return domain.NewValidationError("max_members cannot be lower than the current member count (%d)", count)
			}
		}

		return s.groupRepo.Update(ctx, groupID, update)
	})
	if err != nil {
		return nil, err
	}

	return s.GetGroupByID(ctx, groupID)
}

// attachDerived подгружает количество участников и профили создателей, вычисляет текущий статус
func (s *groupService) attachDerived(ctx context.Context, groups []*domain.Group) ([]*domain.GroupView, error) {
	views := make([]*domain.GroupView, 0, len(groups))
	if len(groups) == 0 {
		return views, nil
	}

	groupIDs := make([]string, 0, len(groups))
	creatorIDs := make([]string, 0, len(groups))
	seenCreators := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
		if _, ok := seenCreators[group.CreatorID]; !ok {
			seenCreators[group.CreatorID] = struct{}{}
			creatorIDs = append(creatorIDs, group.CreatorID)
		}
	}

	var counts map[string]int
	var profiles map[string]*domain.Profile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.membershipRepo.CountActiveByGroupIDs(gctx, groupIDs)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profileRepo.GetByIDs(gctx, creatorIDs)
		if err != nil {
			return fmt.Errorf("load creator profiles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	for _, group := range groups {
		views = append(views, domain.NewGroupView(group, profiles[group.CreatorID], counts[group.ID], now))
	}

	return views, nil
}

func groupLookupError(err error, groupID string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("group with id " + groupID)
	}
	return err
}

func cleanMeetingTimes(times []string) []string {
	cleaned := make([]string, 0, len(times))
	for _, t := range times {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
