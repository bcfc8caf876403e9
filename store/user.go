package store

import (
	"context"
)

// User is the object representing a user.
type User struct {
	ID        int32
	Username  string
	CreatedTs int64
	UpdatedTs int64

	// Timezone is the user's IANA timezone identifier, e.g.
	// "America/New_York". Nil means the user never set one.
	Timezone *string
}

// FindUser is the find condition for user.
type FindUser struct {
	ID       *int32
	Username *string
}

// UpdateUser is the update request for user.
type UpdateUser struct {
	ID        int32
	UpdatedTs *int64
	Username  *string
	Timezone  *string
}

// CreateUser creates a new user.
func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

// GetUser gets a user with filter.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListUsers lists users with filter.
func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// UpdateUser updates a user.
func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) error {
	return s.driver.UpdateUser(ctx, update)
}
