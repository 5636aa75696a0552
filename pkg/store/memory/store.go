// Package memory provides an in-process mfa.CredentialStore for development
// and tests. All operations hold a single mutex, which makes every method
// atomic with respect to the others.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*mfa.User
	byEmail map[string]uuid.UUID
	otps    map[uuid.UUID]*mfa.OTPRecord
}

var _ mfa.CredentialStore = (*Store)(nil)

func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]*mfa.User),
		byEmail: make(map[string]uuid.UUID),
		otps:    make(map[uuid.UUID]*mfa.OTPRecord),
	}
}

func (s *Store) CreateUser(_ context.Context, user *mfa.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return mfa.ErrConflict
	}
	u := cloneUser(user)
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*mfa.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, mfa.ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*mfa.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, mfa.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) EnableTOTP(_ context.Context, userID uuid.UUID, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return mfa.ErrUserNotFound
	}
	u.TOTPSecret = secret
	u.MFAEnabled = true
	return nil
}

// ReplaceOTP consumes every live record of the same user and purpose, prunes
// expired ones and stores rec.
func (s *Store) ReplaceOTP(_ context.Context, rec *mfa.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[rec.UserID]; !ok {
		return mfa.ErrUserNotFound
	}

	for id, r := range s.otps {
		if r.ExpiresAt.Before(rec.CreatedAt) {
			delete(s.otps, id)
			continue
		}
		if r.UserID == rec.UserID && r.Purpose == rec.Purpose {
			r.Consumed = true
		}
	}

	stored := *rec
	s.otps[stored.ID] = &stored
	return nil
}

func (s *Store) GetActiveOTP(_ context.Context, userID uuid.UUID, purpose mfa.OTPPurpose, now time.Time) (*mfa.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *mfa.OTPRecord
	for _, r := range s.otps {
		if r.UserID != userID || r.Purpose != purpose || !r.Live(now) {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, mfa.ErrOTPNotFound
	}
	out := *latest
	return &out, nil
}

func (s *Store) ConsumeOTP(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.otps[id]
	if !ok || r.Consumed {
		return mfa.ErrOTPNotFound
	}
	r.Consumed = true
	return nil
}

func cloneUser(u *mfa.User) *mfa.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}
