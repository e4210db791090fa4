package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

// keySession is the local slot where the client keeps its session token
// between calls, the way a hosted client library persists its session in
// browser storage.
const keySession = "fuizlet_session"

const sessionTTL = 24 * time.Hour

// GetCurrentUser validates the stored session token and loads the matching
// user. An absent, expired or unverifiable token means (nil, nil): there is
// no current user, which is not an error.
func (s *Store) GetCurrentUser(ctx context.Context) (*model.User, error) {
	if !s.available() {
		return nil, nil
	}
	return s.currentUser(ctx)
}

// SignUp registers a credential with the service and signs the new user in.
// Auth failures propagate as errors, unlike CRUD paths.
func (s *Store) SignUp(ctx context.Context, email, password, username string) (*model.User, error) {
	if !s.available() {
		return nil, fmt.Errorf("remote backend not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	row := userRow{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	if err := s.openSession(ctx, row.ID); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// SignIn verifies the credential pair and opens a session. A wrong pair is
// ErrInvalidCredentials, returned as a value.
func (s *Store) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	if !s.available() {
		return nil, fmt.Errorf("remote backend not configured")
	}

	var row userRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword(row.PasswordHash, []byte(password)) != nil {
		return nil, store.ErrInvalidCredentials
	}

	if err := s.openSession(ctx, row.ID); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// Logout discards the stored session token.
func (s *Store) Logout(ctx context.Context) error {
	if !s.available() {
		return nil
	}
	if err := s.sessions.Delete(ctx, keySession); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// openSession issues a signed session token for the user and stores it.
func (s *Store) openSession(ctx context.Context, userID string) error {
	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(sessionTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(s.key))
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}
	if err := s.sessions.Set(ctx, keySession, signed); err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	return nil
}

// currentUser resolves the stored session token to a user, or (nil, nil)
// when no valid session exists.
func (s *Store) currentUser(ctx context.Context) (*model.User, error) {
	raw, ok, err := s.sessions.Get(ctx, keySession)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		s.logger.Debug("session token rejected", "error", err)
		return nil, nil
	}

	userID, err := token.Claims.GetSubject()
	if err != nil || userID == "" {
		return nil, nil
	}

	var row userRow
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("loading session user", "error", err)
		}
		return nil, nil
	}
	return row.toModel(), nil
}
