package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, skills, created_at, updated_at)
VALUES ($1, $2, $3, $4, '[]'::jsonb, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.PictureURL),
	)
	return err
}

const selectUser = `
SELECT id, email, full_name, picture_url, industry, experience, bio, skills, created_at, updated_at
FROM users`

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	row := r.DB.QueryRowContext(ctx, selectUser+`
WHERE id = $1
LIMIT 1`, userID)
	return scanUser(row)
}

func (r *PGRepo) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	return r.updateProfile(ctx, r.DB, userID, update)
}

func (r *PGRepo) UpdateProfileTx(ctx context.Context, tx *sql.Tx, userID string, update ProfileUpdate) (User, error) {
	return r.updateProfile(ctx, tx, userID, update)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *PGRepo) updateProfile(ctx context.Context, q rowQuerier, userID string, update ProfileUpdate) (User, error) {
	skills, err := json.Marshal(normalizeSkills(update.Skills))
	if err != nil {
		return User{}, err
	}

	const query = `
UPDATE users SET
  industry = $2,
  experience = $3,
  bio = $4,
  skills = $5,
  updated_at = now()
WHERE id = $1
RETURNING id, email, full_name, picture_url, industry, experience, bio, skills, created_at, updated_at`
	row := q.QueryRowContext(ctx, query,
		userID,
		update.Industry,
		update.Experience,
		nullableString(update.Bio),
		skills,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var fullName sql.NullString
	var pictureURL sql.NullString
	var industry sql.NullString
	var experience sql.NullInt64
	var bio sql.NullString
	var skillsRaw []byte
	var updatedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&pictureURL,
		&industry,
		&experience,
		&bio,
		&skillsRaw,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	user.FullName = fullName.String
	user.PictureURL = pictureURL.String
	user.Industry = industry.String
	user.Experience = int(experience.Int64)
	user.Bio = bio.String
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &user.Skills); err != nil {
			return User{}, err
		}
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func normalizeSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
