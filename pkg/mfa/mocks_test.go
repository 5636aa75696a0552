package mfa

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore is a mock implementation of CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) CreateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCredentialStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockCredentialStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockCredentialStore) EnableTOTP(ctx context.Context, userID uuid.UUID, secret string) error {
	args := m.Called(ctx, userID, secret)
	return args.Error(0)
}

func (m *MockCredentialStore) ReplaceOTP(ctx context.Context, rec *OTPRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockCredentialStore) GetActiveOTP(ctx context.Context, userID uuid.UUID, purpose OTPPurpose, now time.Time) (*OTPRecord, error) {
	args := m.Called(ctx, userID, purpose, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OTPRecord), args.Error(1)
}

func (m *MockCredentialStore) ConsumeOTP(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDeliverer is a mock implementation of Deliverer.
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, destination, code string) error {
	args := m.Called(ctx, destination, code)
	return args.Error(0)
}

// MockSpentTokens is a mock implementation of SpentTokens.
type MockSpentTokens struct {
	mock.Mock
}

func (m *MockSpentTokens) MarkSpent(ctx context.Context, id string, until time.Time) (bool, error) {
	args := m.Called(ctx, id, until)
	return args.Bool(0), args.Error(1)
}
