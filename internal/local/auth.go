package local

import (
	"context"
	"encoding/json"
	"fmt"

	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

// storedUser is a credential entry in the locally stored user list.
// The password is kept in clear text: local mode is a development
// convenience, not authentication.
type storedUser struct {
	model.User
	Password string `json:"password"`
}

// GetCurrentUser returns the cached user object, or (nil, nil) when nobody
// is signed in. There is no session to verify.
func (s *Store) GetCurrentUser(ctx context.Context) (*model.User, error) {
	raw, ok, err := s.kv.Get(ctx, keyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("reading current user: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("corrupt current user entry, treating as signed out", "error", err)
		return nil, nil
	}
	return &user, nil
}

// SignUp fabricates a user object and caches it as the current user. No
// credential is persisted: a user created here cannot later authenticate
// through SignIn, which reads the stored credential list.
func (s *Store) SignUp(ctx context.Context, email, _, username string) (*model.User, error) {
	user := model.User{
		Email:     email,
		Username:  username,
		CreatedAt: s.clock.Now(),
	}
	if err := s.setCurrentUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn looks the pair up in the locally stored user list and caches the
// match as the current user. A miss is ErrInvalidCredentials.
func (s *Store) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	users, err := readCollection[storedUser](ctx, s, keyUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == email && users[i].Password == password {
			user := users[i].User
			if err := s.setCurrentUser(ctx, &user); err != nil {
				return nil, err
			}
			return &user, nil
		}
	}
	return nil, store.ErrInvalidCredentials
}

// Logout clears the cached user.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyCurrentUser); err != nil {
		return fmt.Errorf("clearing current user: %w", err)
	}
	return nil
}

func (s *Store) setCurrentUser(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding current user: %w", err)
	}
	if err := s.kv.Set(ctx, keyCurrentUser, string(raw)); err != nil {
		return fmt.Errorf("caching current user: %w", err)
	}
	return nil
}
