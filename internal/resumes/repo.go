package resumes

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "resume not found" }

type Repo interface {
	// Save creates the user's resume or replaces its content if one
	// already exists.
	Save(ctx context.Context, userID string, content string) (Resume, error)
	GetByUser(ctx context.Context, userID string) (Resume, error)
}
