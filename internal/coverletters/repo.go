package coverletters

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cover letter not found" }

type Repo interface {
	Create(ctx context.Context, letter CoverLetter) error
	// GetByID is owner-scoped: a letter belonging to another user is
	// indistinguishable from a missing one.
	GetByID(ctx context.Context, userID, letterID string) (CoverLetter, error)
	ListByUser(ctx context.Context, userID string) ([]CoverLetter, error)
	Delete(ctx context.Context, userID, letterID string) error
}
