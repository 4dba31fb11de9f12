package resumes

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, userID string, content string) (Resume, error) {
	const query = `
INSERT INTO resumes (user_id, content, created_at, updated_at)
VALUES ($1, $2, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  content = EXCLUDED.content,
  updated_at = now()
RETURNING user_id, content, created_at, updated_at`
	row := r.DB.QueryRowContext(ctx, query, userID, content)
	return scanResume(row)
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Resume, error) {
	const query = `
SELECT user_id, content, created_at, updated_at
FROM resumes
WHERE user_id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID)
	return scanResume(row)
}

func scanResume(row *sql.Row) (Resume, error) {
	var resume Resume
	err := row.Scan(&resume.UserID, &resume.Content, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}
