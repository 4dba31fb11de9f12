package coverletters

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, letter CoverLetter) error {
	const query = `
INSERT INTO cover_letters (id, user_id, content, job_description, company_name, job_title, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		letter.ID,
		letter.UserID,
		letter.Content,
		letter.JobDescription,
		letter.CompanyName,
		letter.JobTitle,
		letter.Status,
		letter.CreatedAt,
	)
	return err
}

const selectLetter = `
SELECT id, user_id, content, job_description, company_name, job_title, status, created_at, updated_at
FROM cover_letters`

func (r *PGRepo) GetByID(ctx context.Context, userID, letterID string) (CoverLetter, error) {
	row := r.DB.QueryRowContext(ctx, selectLetter+`
WHERE id = $1 AND user_id = $2
LIMIT 1`, letterID, userID)

	var letter CoverLetter
	err := row.Scan(
		&letter.ID,
		&letter.UserID,
		&letter.Content,
		&letter.JobDescription,
		&letter.CompanyName,
		&letter.JobTitle,
		&letter.Status,
		&letter.CreatedAt,
		&letter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CoverLetter{}, ErrNotFound
		}
		return CoverLetter{}, err
	}
	return letter, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]CoverLetter, error) {
	rows, err := r.DB.QueryContext(ctx, selectLetter+`
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CoverLetter{}
	for rows.Next() {
		var letter CoverLetter
		if err := rows.Scan(
			&letter.ID,
			&letter.UserID,
			&letter.Content,
			&letter.JobDescription,
			&letter.CompanyName,
			&letter.JobTitle,
			&letter.Status,
			&letter.CreatedAt,
			&letter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, letter)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, letterID string) error {
	const query = `DELETE FROM cover_letters WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, letterID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
