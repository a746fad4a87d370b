package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/repository"
	"github.com/google/uuid"
)

const membershipColumns = `m.id, m.group_id, m.user_id, m.role, m.status, m.joined_at, m.left_at, m.invited_by`

const activeMembershipConstraint = "group_members_active_key"

type membershipRepository struct {
	executor DBExecutor
}

func NewMembershipRepository(db *sql.DB) *membershipRepository {
	return &membershipRepository{executor: db}
}

func scanMembership(row rowScanner, extra ...any) (*domain.Membership, error) {
	membership := &domain.Membership{}
	var role, status string
	var leftAt sql.NullTime
	var invitedBy sql.NullString

	dest := []any{
		&membership.ID,
		&membership.GroupID,
		&membership.UserID,
		&role,
		&status,
		&membership.JoinedAt,
		&leftAt,
		&invitedBy,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	membership.Role = domain.MemberRole(role)
	membership.Status = domain.MembershipStatus(status)
	if leftAt.Valid {
		membership.LeftAt = &leftAt.Time
	}
	if invitedBy.Valid {
		membership.InvitedBy = &invitedBy.String
	}

	return membership, nil
}

func (r *membershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	if membership.ID == "" {
		membership.ID = uuid.NewString()
	}
	if membership.Status == "" {
		membership.Status = domain.MembershipActive
	}
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now()
	}

	query := `
		INSERT INTO group_members (id, group_id, user_id, role, status, joined_at, invited_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := executorFrom(ctx, r.executor).ExecContext(
		ctx,
		query,
		membership.ID,
		membership.GroupID,
		membership.UserID,
		string(membership.Role),
		string(membership.Status),
		membership.JoinedAt,
		membership.InvitedBy,
	)
	if err != nil {
		if isUniqueViolation(err, activeMembershipConstraint) {
			return repository.ErrDuplicateMembership
		}
		return fmt.Errorf("insert membership: %w", err)
	}

	return nil
}

func (r *membershipRepository) GetActive(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return nil, domain.ErrMembershipNotFound
	}

	query := `
		SELECT ` + membershipColumns + `
		FROM group_members m
		WHERE m.group_id = $1 AND m.user_id = $2 AND m.status = 'active'
	`

	membership, err := scanMembership(executorFrom(ctx, r.executor).QueryRowContext(ctx, query, groupID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}

	return membership, nil
}

func (r *membershipRepository) CountActive(ctx context.Context, groupID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND status = 'active'`

	var count int
	if err := executorFrom(ctx, r.executor).QueryRowContext(ctx, query, groupID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *membershipRepository) CountActiveByGroupIDs(ctx context.Context, groupIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	ids, err := jsonArray(groupIDs)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT group_id, COUNT(*)
		FROM group_members
		WHERE status = 'active'
		  AND group_id::text IN (SELECT jsonb_array_elements_text($1::jsonb))
		GROUP BY group_id
	`

	rows, err := executorFrom(ctx, r.executor).QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var groupID string
		var count int
		if err := rows.Scan(&groupID, &count); err != nil {
			return nil, err
		}
		counts[groupID] = count
	}

	return counts, rows.Err()
}

func (r *membershipRepository) ListActiveMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	query := `
		SELECT ` + membershipColumns + `, p.id, p.name, p.email, p.faculty, p.course
		FROM group_members m
		LEFT JOIN profiles p ON p.id = m.user_id
		WHERE m.group_id = $1 AND m.status = 'active'
		ORDER BY m.joined_at
	`

	rows, err := executorFrom(ctx, r.executor).QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.Member, 0)
	for rows.Next() {
		var profileID, name, email, faculty, course sql.NullString
		membership, err := scanMembership(rows, &profileID, &name, &email, &faculty, &course)
		if err != nil {
			return nil, err
		}

		member := &domain.Member{Membership: *membership}
		if profileID.Valid {
			member.Profile = &domain.Profile{
				ID:      profileID.String,
				Name:    name.String,
				Email:   email.String,
				Faculty: faculty.String,
				Course:  course.String,
			}
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

func (r *membershipRepository) ListUserGroups(ctx context.Context, userID string, status *domain.StoredStatus) ([]*domain.UserGroup, error) {
	args := []any{userID}
	query := `
		SELECT ` + groupColumns + `, m.role, m.joined_at
		FROM group_members m
		JOIN groups g ON g.id = m.group_id
		WHERE m.user_id = $1 AND m.status = 'active'
	`
	if status != nil {
		args = append(args, string(*status))
		query += ` AND g.status = $2`
	}
	query += ` ORDER BY m.joined_at DESC`

	rows, err := executorFrom(ctx, r.executor).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*domain.UserGroup, 0)
	for rows.Next() {
		var role string
		var joinedAt time.Time
		group, err := scanGroup(rows, &role, &joinedAt)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &domain.UserGroup{
			GroupView: domain.GroupView{Group: group},
			Role:      domain.MemberRole(role),
			JoinedAt:  joinedAt,
		})
	}

	return groups, rows.Err()
}

func (r *membershipRepository) UpdateRole(ctx context.Context, membershipID string, role domain.MemberRole) error {
	query := `
		UPDATE group_members
		SET role = $2
		WHERE id = $1 AND status = 'active'
	`

	result, err := executorFrom(ctx, r.executor).ExecContext(ctx, query, membershipID, string(role))
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrMembershipNotFound
	}

	return nil
}

func (r *membershipRepository) Deactivate(ctx context.Context, membershipID string, status domain.MembershipStatus, at time.Time) (*domain.Membership, error) {
	query := `
		UPDATE group_members m
		SET status = $2, left_at = $3
		WHERE m.id = $1 AND m.status = 'active'
		RETURNING ` + membershipColumns

	membership, err := scanMembership(executorFrom(ctx, r.executor).QueryRowContext(
		ctx, query, membershipID, string(status), at,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("deactivate membership: %w", err)
	}

	return membership, nil
}

func (r *membershipRepository) GetStats(ctx context.Context, groupID string) (*domain.GroupStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'active' AND role = 'creator'),
			COUNT(*) FILTER (WHERE status = 'active' AND role = 'admin'),
			COUNT(*) FILTER (WHERE status = 'active' AND role = 'member'),
			COUNT(*) FILTER (WHERE status = 'left'),
			COUNT(*) FILTER (WHERE status = 'removed')
		FROM group_members
		WHERE group_id = $1
	`

	stats := &domain.GroupStats{}
	err := executorFrom(ctx, r.executor).QueryRowContext(ctx, query, groupID).Scan(
		&stats.TotalMembers,
		&stats.Creators,
		&stats.Admins,
		&stats.RegularMembers,
		&stats.TotalLeft,
		&stats.TotalRemoved,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
