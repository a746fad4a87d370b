package postgres

import (
	"context"
	"database/sql"

	"github.com/bagdasarian/study-groups/internal/domain"
)

type profileRepository struct {
	executor DBExecutor
}

func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{executor: db}
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Profile, error) {
	profiles := make(map[string]*domain.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	rawIDs, err := jsonArray(ids)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, email, faculty, course
		FROM profiles
		WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))
	`

	rows, err := executorFrom(ctx, r.executor).QueryContext(ctx, query, rawIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		profile := &domain.Profile{}
		if err := rows.Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Faculty, &profile.Course); err != nil {
			return nil, err
		}
		profiles[profile.ID] = profile
	}

	return profiles, rows.Err()
}
