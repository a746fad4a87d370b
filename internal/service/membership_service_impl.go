package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/repository"
)

// maxInviteCodeAttempts - сколько раз генерируется новый код при конфликте уникальности
const maxInviteCodeAttempts = 5

type membershipService struct {
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	tx             repository.Transactor
	now            func() time.Time
	generateCode   func() (string, error)
}

// NewMembershipService создает новый экземпляр MembershipService
func NewMembershipService(
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	tx repository.Transactor,
) MembershipService {
	return &membershipService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		tx:             tx,
		now:            time.Now,
		generateCode:   GenerateInviteCode,
	}
}

// CreateGroup создает группу и членство создателя в одной транзакции.
// При конфликте invite code генерирует новый код, но не более maxInviteCodeAttempts раз.
func (s *membershipService) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	group, err := newGroupFromInput(input)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, err
		}

		candidate := *group
		candidate.InviteCode = code

		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.groupRepo.Create(ctx, &candidate); err != nil {
				return err
			}
			return s.membershipRepo.Create(ctx, &domain.Membership{
				GroupID:  candidate.ID,
				UserID:   candidate.CreatorID,
				Role:     domain.RoleCreator,
				Status:   domain.MembershipActive,
				JoinedAt: s.now(),
			})
		})
		if errors.Is(err, repository.ErrInviteCodeConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return &candidate, nil
	}

	return nil, domain.ErrInviteCodeExhausted
}

// JoinGroup добавляет пользователя в группу.
// Все проверки и вставка выполняются под блокировкой строки группы.
func (s *membershipService) JoinGroup(ctx context.Context, groupID, userID string, invitedBy *string) (*domain.Membership, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if invitedBy != nil && strings.TrimSpace(*invitedBy) == "" {
		invitedBy = nil
	}

	var membership *domain.Membership
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		group, err := s.groupRepo.GetByIDForUpdate(ctx, groupID)
		if err != nil {
			return groupLookupError(err, groupID)
		}

		membership, err = s.admit(ctx, group, userID, invitedBy, invitedBy == nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// JoinByInviteCode добавляет пользователя по коду приглашения.
// Код сам по себе дает право входа в закрытую группу.
func (s *membershipService) JoinByInviteCode(ctx context.Context, code, userID string) (*domain.Group, *domain.Membership, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, nil, domain.NewValidationError("invite_code is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, nil, domain.NewValidationError("user_id is required")
	}

	var group *domain.Group
	var membership *domain.Membership
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.groupRepo.GetActiveByInviteCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFoundError("group with invite code " + code)
			}
			return err
		}

		group, err = s.groupRepo.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return groupLookupError(err, found.ID)
		}

		membership, err = s.admit(ctx, group, userID, nil, false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return group, membership, nil
}

// admit проверяет доступность группы, закрытость, дубликат и лимит, затем вставляет членство
func (s *membershipService) admit(
	ctx context.Context,
	group *domain.Group,
	userID string,
	invitedBy *string,
	enforcePrivateGate bool,
) (*domain.Membership, error) {
	now := s.now()
	if !domain.IsJoinableAt(group, now) {
		return nil, domain.ErrNotJoinable
	}

	count, err := s.membershipRepo.CountActive(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	// TODO: проверять связи запрашивающего пользователя с участниками, когда появится сервис связей.
	// Пока достаточно, чтобы в группе был хотя бы один активный участник.
	if enforcePrivateGate && group.IsPrivate && count == 0 {
		return nil, domain.ErrPrivateGroup
	}

	_, err = s.membershipRepo.GetActive(ctx, group.ID, userID)
	if err == nil {
		return nil, domain.ErrAlreadyMember
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if count >= group.MaxMembers {
		return nil, domain.ErrGroupFull
	}

	membership := &domain.Membership{
		GroupID:   group.ID,
		UserID:    userID,
		Role:      domain.RoleMember,
		Status:    domain.MembershipActive,
		JoinedAt:  now,
		InvitedBy: invitedBy,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, err
	}

	return membership, nil
}

// ChangeMemberRole меняет роль участника. Разрешено только создателю группы.
func (s *membershipService) ChangeMemberRole(
	ctx context.Context,
	groupID, actorID, targetUserID string,
	newRole domain.MemberRole,
) (*domain.Membership, error) {
	if !newRole.Assignable() {
		return nil, domain.NewValidationError("invalid role %q: must be admin or member", newRole)
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}

	var target *domain.Membership
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.groupRepo.GetByIDForUpdate(ctx, groupID); err != nil {
			return groupLookupError(err, groupID)
		}

		actor, err := s.membershipRepo.GetActive(ctx, groupID, actorID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if actor == nil || actor.Role != domain.RoleCreator {
			return domain.NewForbiddenError("only the group creator can change member roles")
		}

		target, err = s.membershipRepo.GetActive(ctx, groupID, targetUserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFoundError("member " + targetUserID + " in group " + groupID)
			}
			return err
		}
		if target.Role == domain.RoleCreator {
			return domain.NewValidationError("the creator's role cannot be changed")
		}

		if err := s.membershipRepo.UpdateRole(ctx, target.ID, newRole); err != nil {
			return err
		}
		target.Role = newRole
		return nil
	})
	if err != nil {
		return nil, err
	}

	return target, nil
}

// LeaveGroup помечает членство пользователя как left. Строка не удаляется.
func (s *membershipService) LeaveGroup(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}

	var membership *domain.Membership
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.groupRepo.GetByIDForUpdate(ctx, groupID); err != nil {
			return groupLookupError(err, groupID)
		}

		current, err := s.membershipRepo.GetActive(ctx, groupID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFoundError("member " + userID + " in group " + groupID)
			}
			return err
		}
		if current.Role == domain.RoleCreator {
			return domain.NewValidationError("the group creator cannot leave the group")
		}

		membership, err = s.membershipRepo.Deactivate(ctx, current.ID, domain.MembershipLeft, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// RemoveMember исключает участника. Создатель может исключить любого, администратор - только обычных участников.
func (s *membershipService) RemoveMember(ctx context.Context, groupID, actorID, targetUserID string) (*domain.Membership, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	if actorID == targetUserID {
		return nil, domain.NewValidationError("use leave to exit the group")
	}

	var membership *domain.Membership
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.groupRepo.GetByIDForUpdate(ctx, groupID); err != nil {
			return groupLookupError(err, groupID)
		}

		actor, err := s.membershipRepo.GetActive(ctx, groupID, actorID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if actor == nil || (actor.Role != domain.RoleCreator && actor.Role != domain.RoleAdmin) {
			return domain.NewForbiddenError("only the group creator or an admin can remove members")
		}

		target, err := s.membershipRepo.GetActive(ctx, groupID, targetUserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFoundError("member " + targetUserID + " in group " + groupID)
			}
			return err
		}
		if target.Role == domain.RoleCreator {
			return domain.NewForbiddenError("the group creator cannot be removed")
		}
		if actor.Role == domain.RoleAdmin && target.Role == domain.RoleAdmin {
			return domain.NewForbiddenError("admins cannot remove other admins")
		}

		membership, err = s.membershipRepo.Deactivate(ctx, target.ID, domain.MembershipRemoved, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

func newGroupFromInput(input CreateGroupInput) (*domain.Group, error) {
	name := strings.TrimSpace(input.Name)
	subject := strings.TrimSpace(input.Subject)
	creatorID := strings.TrimSpace(input.CreatorID)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if subject == "" {
		missing = append(missing, "subject")
	}
	if creatorID == "" {
		missing = append(missing, "creator_id")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}

	maxMembers := domain.DefaultMaxMembers
	if input.MaxMembers != nil {
		if *input.MaxMembers <= 0 {
			return nil, domain.NewValidationError("max_members must be a positive integer")
		}
		maxMembers = *input.MaxMembers
	}

	group := &domain.Group{
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		Subject:      subject,
		Faculty:      strings.TrimSpace(input.Faculty),
		Course:       strings.TrimSpace(input.Course),
		YearOfStudy:  strings.TrimSpace(input.YearOfStudy),
		CreatorID:    creatorID,
		MaxMembers:   maxMembers,
		IsPrivate:    input.IsPrivate,
		Status:       domain.StoredStatusActive,
		MeetingTimes: cleanMeetingTimes(input.MeetingTimes),
	}

	if input.IsScheduled {
		if input.ScheduledStart == nil || input.ScheduledEnd == nil {
			return nil, domain.NewValidationError("scheduled_start and scheduled_end are required for scheduled groups")
		}
		if !input.ScheduledStart.Before(*input.ScheduledEnd) {
			return nil, domain.NewValidationError("scheduled_start must be before scheduled_end")
		}
		start, end := input.ScheduledStart.UTC(), input.ScheduledEnd.UTC()
		group.IsScheduled = true
		group.ScheduledStart = &start
		group.ScheduledEnd = &end
		group.Status = domain.StoredStatusScheduled
	}

	return group, nil
}
