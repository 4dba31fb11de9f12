package insights

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectInsight = `
SELECT industry, salary_ranges, growth_rate, demand_level, top_skills,
       market_outlook, key_trends, recommended_skills, last_updated, next_update
FROM industry_insights
WHERE industry = $1
LIMIT 1`

func (r *PGRepo) GetByIndustry(ctx context.Context, industry string) (IndustryInsight, error) {
	return getByIndustry(ctx, r.DB, industry)
}

func (r *PGRepo) GetByIndustryTx(ctx context.Context, tx *sql.Tx, industry string) (IndustryInsight, error) {
	return getByIndustry(ctx, tx, industry)
}

func getByIndustry(ctx context.Context, q querier, industry string) (IndustryInsight, error) {
	row := q.QueryRowContext(ctx, selectInsight, industry)

	var insight IndustryInsight
	var salaryRaw, topRaw, trendsRaw, recRaw []byte
	err := row.Scan(
		&insight.Industry,
		&salaryRaw,
		&insight.GrowthRate,
		&insight.DemandLevel,
		&topRaw,
		&insight.MarketOutlook,
		&trendsRaw,
		&recRaw,
		&insight.LastUpdated,
		&insight.NextUpdate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return IndustryInsight{}, ErrNotFound
		}
		return IndustryInsight{}, err
	}

	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{salaryRaw, &insight.SalaryRanges},
		{topRaw, &insight.TopSkills},
		{trendsRaw, &insight.KeyTrends},
		{recRaw, &insight.RecommendedSkills},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return IndustryInsight{}, err
			}
		}
	}
	return insight, nil
}

const insertInsight = `
INSERT INTO industry_insights
  (industry, salary_ranges, growth_rate, demand_level, top_skills,
   market_outlook, key_trends, recommended_skills, last_updated, next_update)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (industry) DO NOTHING`

func (r *PGRepo) Create(ctx context.Context, insight IndustryInsight) error {
	return create(ctx, r.DB, insight)
}

func (r *PGRepo) CreateTx(ctx context.Context, tx *sql.Tx, insight IndustryInsight) error {
	return create(ctx, tx, insight)
}

func create(ctx context.Context, q querier, insight IndustryInsight) error {
	salary, err := json.Marshal(insight.SalaryRanges)
	if err != nil {
		return err
	}
	top, err := json.Marshal(insight.TopSkills)
	if err != nil {
		return err
	}
	trends, err := json.Marshal(insight.KeyTrends)
	if err != nil {
		return err
	}
	rec, err := json.Marshal(insight.RecommendedSkills)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, insertInsight,
		insight.Industry,
		salary,
		insight.GrowthRate,
		insight.DemandLevel,
		top,
		insight.MarketOutlook,
		trends,
		rec,
		insight.LastUpdated,
		insight.NextUpdate,
	)
	return err
}
