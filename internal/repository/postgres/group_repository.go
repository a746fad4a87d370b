package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/repository"
	"github.com/google/uuid"
)

const groupColumns = `g.id, g.name, g.description, g.subject, g.faculty, g.course, g.year_of_study,
	g.creator_id, g.max_members, g.is_private, g.invite_code, g.status, g.is_scheduled,
	g.scheduled_start, g.scheduled_end, g.meeting_times, g.created_at, g.updated_at`

const inviteCodeConstraint = "groups_invite_code_key"

type rowScanner interface {
	Scan(dest ...any) error
}

type groupRepository struct {
	executor DBExecutor
}

func NewGroupRepository(db *sql.DB) *groupRepository {
	return &groupRepository{executor: db}
}

func scanGroup(row rowScanner, extra ...any) (*domain.Group, error) {
	group := &domain.Group{}
	var status string
	var scheduledStart, scheduledEnd, updatedAt sql.NullTime
	var meetingTimes []byte

	dest := []any{
		&group.ID,
		&group.Name,
		&group.Description,
		&group.Subject,
		&group.Faculty,
		&group.Course,
		&group.YearOfStudy,
		&group.CreatorID,
		&group.MaxMembers,
		&group.IsPrivate,
		&group.InviteCode,
		&status,
		&group.IsScheduled,
		&scheduledStart,
		&scheduledEnd,
		&meetingTimes,
		&group.CreatedAt,
		&updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	group.Status = domain.StoredStatus(status)
	if scheduledStart.Valid {
		group.ScheduledStart = &scheduledStart.Time
	}
	if scheduledEnd.Valid {
		group.ScheduledEnd = &scheduledEnd.Time
	}
	if updatedAt.Valid {
		group.UpdatedAt = &updatedAt.Time
	}

	group.MeetingTimes = []string{}
	if len(meetingTimes) > 0 {
		if err := json.Unmarshal(meetingTimes, &group.MeetingTimes); err != nil {
			return nil, fmt.Errorf("decode meeting_times: %w", err)
		}
	}

	return group, nil
}

func scanGroups(rows *sql.Rows) ([]*domain.Group, error) {
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.MeetingTimes == nil {
		group.MeetingTimes = []string{}
	}

	meetingTimes, err := json.Marshal(group.MeetingTimes)
	if err != nil {
		return fmt.Errorf("encode meeting_times: %w", err)
	}

	query := `
		INSERT INTO groups (
			id, name, description, subject, faculty, course, year_of_study, creator_id,
			max_members, is_private, invite_code, status, is_scheduled,
			scheduled_start, scheduled_end, meeting_times, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`

	err = executorFrom(ctx, r.executor).QueryRowContext(
		ctx,
		query,
		group.ID,
		group.Name,
		group.Description,
		group.Subject,
		group.Faculty,
		group.Course,
		group.YearOfStudy,
		group.CreatorID,
		group.MaxMembers,
		group.IsPrivate,
		group.InviteCode,
		string(group.Status),
		group.IsScheduled,
		group.ScheduledStart,
		group.ScheduledEnd,
		meetingTimes,
		time.Now(),
	).Scan(&group.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, inviteCodeConstraint) {
			return repository.ErrInviteCodeConflict
		}
		return fmt.Errorf("insert group: %w", err)
	}

	group.UpdatedAt = nil
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return r.getByID(ctx, id, false)
}

func (r *groupRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Group, error) {
	return r.getByID(ctx, id, true)
}

func (r *groupRepository) getByID(ctx context.Context, id string, forUpdate bool) (*domain.Group, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrGroupNotFound
	}

	query := `SELECT ` + groupColumns + ` FROM groups g WHERE g.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	group, err := scanGroup(executorFrom(ctx, r.executor).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}

	return group, nil
}

func (r *groupRepository) GetActiveByInviteCode(ctx context.Context, code string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups g WHERE g.invite_code = $1 AND g.status = $2`

	group, err := scanGroup(executorFrom(ctx, r.executor).QueryRowContext(
		ctx, query, strings.ToUpper(code), string(domain.StoredStatusActive),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}

	return group, nil
}

func (r *groupRepository) List(ctx context.Context, filter domain.GroupFilter) ([]*domain.Group, error) {
	var args []any
	query := `SELECT ` + groupColumns + ` FROM groups g`

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` WHERE g.status = $%d`, len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY g.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := executorFrom(ctx, r.executor).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return scanGroups(rows)
}

func (r *groupRepository) Count(ctx context.Context, status *domain.StoredStatus) (int, error) {
	var args []any
	query := `SELECT COUNT(*) FROM groups`
	if status != nil {
		args = append(args, string(*status))
		query += ` WHERE status = $1`
	}

	var total int
	if err := executorFrom(ctx, r.executor).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *groupRepository) SearchPublic(ctx context.Context, filter domain.PublicSearchFilter) ([]*domain.Group, error) {
	conditions := []string{"g.is_private = FALSE"}
	var args []any

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, likePattern(value))
		conditions = append(conditions, fmt.Sprintf("g.%s ILIKE $%d", column, len(args)))
	}
	addLike("subject", filter.Subject)
	addLike("faculty", filter.Faculty)
	addLike("course", filter.Course)

	if filter.YearOfStudy != "" {
		args = append(args, filter.YearOfStudy)
		conditions = append(conditions, fmt.Sprintf("g.year_of_study = $%d", len(args)))
	}
	if filter.IsScheduled != nil {
		args = append(args, *filter.IsScheduled)
		conditions = append(conditions, fmt.Sprintf("g.is_scheduled = $%d", len(args)))
	}

	query := `SELECT ` + groupColumns + ` FROM groups g WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY g.created_at DESC`

	rows, err := executorFrom(ctx, r.executor).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return scanGroups(rows)
}

func (r *groupRepository) Update(ctx context.Context, id string, update domain.GroupUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrGroupNotFound
	}

	args := []any{id}
	sets := []string{}

	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.MaxMembers != nil {
		args = append(args, *update.MaxMembers)
		sets = append(sets, fmt.Sprintf("max_members = $%d", len(args)))
	}
	if update.MeetingTimes != nil {
		meetingTimes, err := json.Marshal(update.MeetingTimes)
		if err != nil {
			return fmt.Errorf("encode meeting_times: %w", err)
		}
		args = append(args, meetingTimes)
		sets = append(sets, fmt.Sprintf("meeting_times = $%d", len(args)))
	}

	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := `UPDATE groups SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`

	result, err := executorFrom(ctx, r.executor).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}
