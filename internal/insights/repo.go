package insights

import (
	"context"
	"database/sql"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "industry insight not found" }

type Repo interface {
	GetByIndustry(ctx context.Context, industry string) (IndustryInsight, error)
	GetByIndustryTx(ctx context.Context, tx *sql.Tx, industry string) (IndustryInsight, error)
	// Create inserts the insight; a concurrent insert for the same industry
	// must not fail the call (first writer wins).
	Create(ctx context.Context, insight IndustryInsight) error
	CreateTx(ctx context.Context, tx *sql.Tx, insight IndustryInsight) error
}
