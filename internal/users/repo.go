package users

import (
	"context"
	"database/sql"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error)
	// UpdateProfileTx applies the same update inside a caller-owned
	// transaction. Implementations without transactions may ignore tx.
	UpdateProfileTx(ctx context.Context, tx *sql.Tx, userID string, update ProfileUpdate) (User, error)
}
