package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, assessment Assessment) error {
	questions, err := json.Marshal(assessment.Questions)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO assessments (id, user_id, quiz_score, questions, category, improvement_tip, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var tip any
	if assessment.ImprovementTip != nil {
		tip = *assessment.ImprovementTip
	}
	_, err = r.DB.ExecContext(ctx, query,
		assessment.ID,
		assessment.UserID,
		assessment.QuizScore,
		questions,
		assessment.Category,
		tip,
		assessment.CreatedAt,
	)
	return err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Assessment, error) {
	const query = `
SELECT id, user_id, quiz_score, questions, category, improvement_tip, created_at
FROM assessments
WHERE user_id = $1
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Assessment{}
	for rows.Next() {
		var a Assessment
		var questionsRaw []byte
		var tip sql.NullString
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.QuizScore,
			&questionsRaw,
			&a.Category,
			&tip,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(questionsRaw) > 0 {
			if err := json.Unmarshal(questionsRaw, &a.Questions); err != nil {
				return nil, err
			}
		}
		if tip.Valid {
			a.ImprovementTip = &tip.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
