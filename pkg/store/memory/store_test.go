package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/store/memory"
)

func newUser(email string) *mfa.User {
	return &mfa.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: []byte("hash"),
		CreatedAt:    time.Now(),
	}
}

func newOTP(userID uuid.UUID, created time.Time) *mfa.OTPRecord {
	return &mfa.OTPRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Hash:      "h",
		Purpose:   mfa.PurposeEmailOTP,
		ExpiresAt: created.Add(5 * time.Minute),
		CreatedAt: created,
	}
}

func TestStore_Users(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memory.New()

	u := newUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	assert.ErrorIs(t, s.CreateUser(ctx, newUser("alice@example.com")), mfa.ErrConflict)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, mfa.ErrUserNotFound)
	_, err = s.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, mfa.ErrUserNotFound)

	// Returned users are copies.
	got.MFAEnabled = true
	again, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, again.MFAEnabled)

	require.NoError(t, s.EnableTOTP(ctx, u.ID, "SECRET"))
	again, err = s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, again.MFAEnabled)
	assert.Equal(t, "SECRET", again.TOTPSecret)

	assert.ErrorIs(t, s.EnableTOTP(ctx, uuid.New(), "SECRET"), mfa.ErrUserNotFound)
}

func TestStore_ReplaceOTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memory.New()
	u := newUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	now := time.Now()
	first := newOTP(u.ID, now)
	require.NoError(t, s.ReplaceOTP(ctx, first))

	second := newOTP(u.ID, now.Add(time.Second))
	require.NoError(t, s.ReplaceOTP(ctx, second))

	active, err := s.GetActiveOTP(ctx, u.ID, mfa.PurposeEmailOTP, now.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	// The replaced record can no longer be consumed.
	assert.ErrorIs(t, s.ConsumeOTP(ctx, first.ID), mfa.ErrOTPNotFound)

	assert.ErrorIs(t, s.ReplaceOTP(ctx, newOTP(uuid.New(), now)), mfa.ErrUserNotFound)
}

func TestStore_GetActiveOTP_Expired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memory.New()
	u := newUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	now := time.Now()
	rec := newOTP(u.ID, now)
	require.NoError(t, s.ReplaceOTP(ctx, rec))

	_, err := s.GetActiveOTP(ctx, u.ID, mfa.PurposeEmailOTP, rec.ExpiresAt)
	require.NoError(t, err)

	_, err = s.GetActiveOTP(ctx, u.ID, mfa.PurposeEmailOTP, rec.ExpiresAt.Add(time.Nanosecond))
	assert.ErrorIs(t, err, mfa.ErrOTPNotFound)
}

func TestStore_ConsumeOTP_Once(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memory.New()
	u := newUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	rec := newOTP(u.ID, time.Now())
	require.NoError(t, s.ReplaceOTP(ctx, rec))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.ConsumeOTP(ctx, rec.ID) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	_, err := s.GetActiveOTP(ctx, u.ID, mfa.PurposeEmailOTP, time.Now())
	assert.ErrorIs(t, err, mfa.ErrOTPNotFound)
}

func TestStore_ReplaceOTP_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memory.New()
	u := newUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	now := time.Now()
	recs := make([]*mfa.OTPRecord, 16)
	for i := range recs {
		recs[i] = newOTP(u.ID, now)
	}

	var wg sync.WaitGroup
	for _, rec := range recs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.ReplaceOTP(ctx, rec))
		}()
	}
	wg.Wait()

	active, err := s.GetActiveOTP(ctx, u.ID, mfa.PurposeEmailOTP, now)
	require.NoError(t, err)

	// Exactly one record survives the replacements.
	live := 0
	for _, rec := range recs {
		if s.ConsumeOTP(ctx, rec.ID) == nil {
			live++
			assert.Equal(t, active.ID, rec.ID)
		}
	}
	assert.Equal(t, 1, live)
}
