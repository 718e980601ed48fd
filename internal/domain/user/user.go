package user

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user: not found")

type ID string

// User is the minimal identity view the engine needs: a display name for
// notification texts and contract snapshots. Identity management itself
// lives outside this service.
type User struct {
	ID    ID
	Name  string
	Email string
}

type Directory interface {
	ByID(ctx context.Context, id ID) (*User, error)
}
