package assessments

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "assessment not found" }

type Repo interface {
	Create(ctx context.Context, assessment Assessment) error
	// ListByUser returns the user's assessments ordered by creation time
	// ascending (oldest first); the performance charts consume them in that
	// order.
	ListByUser(ctx context.Context, userID string) ([]Assessment, error)
}
