package mfa_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/otp"
	"github.com/dmitrymomot/mfakit/pkg/store/memory"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

const (
	signingKey = "flow-test-signing-key-0123456789abcdef"
	password   = "S3cure!Pass"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type outbox struct {
	mu    sync.Mutex
	codes map[string][]string
}

func (o *outbox) Deliver(_ context.Context, destination, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[destination] = append(o.codes[destination], code)
	return nil
}

func (o *outbox) Last(destination string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	codes := o.codes[destination]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

type harness struct {
	svc    *mfa.Service
	store  *memory.Store
	clock  *clock
	outbox *outbox
}

func newHarness(t *testing.T, opts ...mfa.Option) *harness {
	t.Helper()

	h := &harness{
		store:  memory.New(),
		clock:  &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		outbox: &outbox{codes: make(map[string][]string)},
	}

	cfg := mfa.DefaultConfig(signingKey)
	cfg.BcryptCost = bcrypt.MinCost

	opts = append([]mfa.Option{
		mfa.WithClock(h.clock.Now),
		mfa.WithDeliverer(h.outbox),
	}, opts...)

	svc, err := mfa.NewService(h.store, cfg, opts...)
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) register(t *testing.T, email string) {
	t.Helper()
	_, err := h.svc.Register(context.Background(), email, password)
	require.NoError(t, err)
}

func (h *harness) sessionFor(t *testing.T, email string) string {
	t.Helper()
	res, err := h.svc.Login(context.Background(), email, password)
	require.NoError(t, err)
	require.False(t, res.RequiresSecondFactor)
	return res.SessionToken
}

func (h *harness) enroll(t *testing.T, email string) *mfa.Enrollment {
	t.Helper()
	enrollment, err := h.svc.EnableMFA(context.Background(), h.sessionFor(t, email))
	require.NoError(t, err)
	return enrollment
}

func TestFlow_TOTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "alice@example.com")

	session := h.sessionFor(t, "alice@example.com")
	enrollment, err := h.svc.EnableMFA(ctx, session)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z2-7]+$`, enrollment.Secret)
	assert.True(t, strings.HasPrefix(enrollment.KeyURI, "otpauth://totp/"))
	assert.Contains(t, enrollment.KeyURI, "issuer=mfakit")
	assert.True(t, strings.HasPrefix(enrollment.QRCode, "data:image/png;base64,"))

	code, err := totp.GenerateCodeAt(enrollment.Secret, h.clock.Now())
	require.NoError(t, err)
	require.NoError(t, h.svc.ConfirmMFA(ctx, session, code))
	assert.ErrorIs(t, h.svc.ConfirmMFA(ctx, session, "000000x"), mfa.ErrInvalidCode)

	profile, err := h.svc.GetProfile(ctx, session)
	require.NoError(t, err)
	assert.True(t, profile.MFAEnabled)
	assert.True(t, profile.TOTPEnrolled)

	res, err := h.svc.Login(ctx, "alice@example.com", password)
	require.NoError(t, err)
	require.True(t, res.RequiresSecondFactor)
	assert.Empty(t, res.SessionToken)
	assert.Equal(t, []mfa.FactorKind{mfa.FactorTOTP, mfa.FactorEmailOTP}, res.Factors)

	_, err = h.svc.GetProfile(ctx, res.TempToken)
	assert.ErrorIs(t, err, mfa.ErrUnauthorized)

	final, err := h.svc.VerifyTOTP(ctx, res.TempToken, code)
	require.NoError(t, err)

	profile, err = h.svc.GetProfile(ctx, final.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)

	_, err = h.svc.VerifyTOTP(ctx, res.TempToken, code)
	assert.ErrorIs(t, err, mfa.ErrUnauthorized)
	assert.ErrorIs(t, err, mfa.ErrTokenReplayed)
}

func TestFlow_TOTP_WrongCodeSpendsToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "bob@example.com")
	enrollment := h.enroll(t, "bob@example.com")

	res, err := h.svc.Login(ctx, "bob@example.com", password)
	require.NoError(t, err)

	good, err := totp.GenerateCodeAt(enrollment.Secret, h.clock.Now())
	require.NoError(t, err)
	wrong := "000000"
	if good == wrong {
		wrong = "111111"
	}

	_, err = h.svc.VerifyTOTP(ctx, res.TempToken, wrong)
	assert.ErrorIs(t, err, mfa.ErrInvalidCode)

	_, err = h.svc.VerifyTOTP(ctx, res.TempToken, good)
	assert.ErrorIs(t, err, mfa.ErrTokenReplayed)
}

func TestFlow_TOTP_Drift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset time.Duration
		wantOK bool
	}{
		{name: "current step", offset: 0, wantOK: true},
		{name: "one step behind", offset: -30 * time.Second, wantOK: true},
		{name: "one step ahead", offset: 30 * time.Second, wantOK: true},
		{name: "two steps behind", offset: -60 * time.Second, wantOK: false},
		{name: "two steps ahead", offset: 60 * time.Second, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			h := newHarness(t)
			h.register(t, "drift@example.com")
			enrollment := h.enroll(t, "drift@example.com")

			res, err := h.svc.Login(ctx, "drift@example.com", password)
			require.NoError(t, err)

			code, err := totp.GenerateCodeAt(enrollment.Secret, h.clock.Now().Add(tt.offset))
			require.NoError(t, err)

			_, err = h.svc.VerifyTOTP(ctx, res.TempToken, code)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, mfa.ErrInvalidCode)
			}
		})
	}
}

func TestFlow_EmailOTP_Passwordless(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "carol@example.com")

	require.NoError(t, h.svc.SendEmailOTP(ctx, "Carol@Example.com"))
	code := h.outbox.Last("carol@example.com")
	require.Len(t, code, 6)

	session, err := h.svc.VerifyEmailOTP(ctx, "carol@example.com", code, "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	_, err = h.svc.VerifyEmailOTP(ctx, "carol@example.com", code, "")
	assert.ErrorIs(t, err, mfa.ErrInvalidOrExpiredCode, "codes are single use")
}

func TestFlow_EmailOTP_Replacement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "dave@example.com")

	require.NoError(t, h.svc.SendEmailOTP(ctx, "dave@example.com"))
	first := h.outbox.Last("dave@example.com")
	require.NoError(t, h.svc.SendEmailOTP(ctx, "dave@example.com"))
	second := h.outbox.Last("dave@example.com")

	user, err := h.store.GetUserByEmail(ctx, "dave@example.com")
	require.NoError(t, err)
	active, err := h.store.GetActiveOTP(ctx, user.ID, mfa.PurposeEmailOTP, h.clock.Now())
	require.NoError(t, err)
	require.NoError(t, otp.Compare(second, active.Hash))
	if first != second {
		assert.Error(t, otp.Compare(first, active.Hash))
	}

	_, err = h.svc.VerifyEmailOTP(ctx, "dave@example.com", second, "")
	require.NoError(t, err)
}

func TestFlow_EmailOTP_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "erin@example.com")

	require.NoError(t, h.svc.SendEmailOTP(ctx, "erin@example.com"))
	code := h.outbox.Last("erin@example.com")

	h.clock.Advance(5*time.Minute + time.Second)
	_, err := h.svc.VerifyEmailOTP(ctx, "erin@example.com", code, "")
	assert.ErrorIs(t, err, mfa.ErrInvalidOrExpiredCode)
}

func TestFlow_EmailOTP_WrongCodeBurnsRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.register(t, "frank@example.com")

	require.NoError(t, h.svc.SendEmailOTP(ctx, "frank@example.com"))
	code := h.outbox.Last("frank@example.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err := h.svc.VerifyEmailOTP(ctx, "frank@example.com", wrong, "")
	assert.ErrorIs(t, err, mfa.ErrInvalidOrExpiredCode)

	_, err = h.svc.VerifyEmailOTP(ctx, "frank@example.com", code, "")
	assert.ErrorIs(t, err, mfa.ErrInvalidOrExpiredCode, "one guess per code")

	require.NoError(t, h.svc.SendEmailOTP(ctx, "frank@example.com"))
	session, err := h.svc.VerifyEmailOTP(ctx, "frank@example.com", h.outbox.Last("frank@example.com"), "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestFlow_EmailOTP_AsSecondFactor(t *testing.T) {
	t.Parallel()

	t.Run("through VerifyEmailOTP", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		h := newHarness(t)
		h.register(t, "gina@example.com")
		h.enroll(t, "gina@example.com")

		res, err := h.svc.Login(ctx, "gina@example.com", password)
		require.NoError(t, err)
		require.True(t, res.RequiresSecondFactor)

		require.NoError(t, h.svc.SendEmailOTP(ctx, "gina@example.com"))
		code := h.outbox.Last("gina@example.com")

		_, err = h.svc.VerifyEmailOTP(ctx, "gina@example.com", code, "")
		assert.ErrorIs(t, err, mfa.ErrInvalidOrExpiredCode, "passwordless is closed once mfa is on")

		session, err := h.svc.VerifyEmailOTP(ctx, "gina@example.com", code, res.TempToken)
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("through VerifySecondFactor", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		h := newHarness(t)
		h.register(t, "hank@example.com")
		h.enroll(t, "hank@example.com")

		res, err := h.svc.Login(ctx, "hank@example.com", password)
		require.NoError(t, err)

		require.NoError(t, h.svc.SendEmailOTP(ctx, "hank@example.com"))
		code := h.outbox.Last("hank@example.com")

		session, err := h.svc.VerifySecondFactor(ctx, res.TempToken, mfa.SecondFactor{
			Kind: mfa.FactorEmailOTP,
			Code: code,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("temp token of another user", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		h := newHarness(t)
		h.register(t, "ivy@example.com")
		h.register(t, "jack@example.com")
		h.enroll(t, "ivy@example.com")

		res, err := h.svc.Login(ctx, "ivy@example.com", password)
		require.NoError(t, err)

		require.NoError(t, h.svc.SendEmailOTP(ctx, "jack@example.com"))
		code := h.outbox.Last("jack@example.com")

		_, err = h.svc.VerifyEmailOTP(ctx, "jack@example.com", code, res.TempToken)
		assert.ErrorIs(t, err, mfa.ErrInvalidOrExpiredCode)
	})
}

func TestFlow_DuplicateRegistration(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.register(t, "kate@example.com")

	_, err := h.svc.Register(context.Background(), "  KATE@example.com", password)
	assert.ErrorIs(t, err, mfa.ErrConflict)
}

func TestFlow_SessionExpiry(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.register(t, "leo@example.com")
	session := h.sessionFor(t, "leo@example.com")

	h.clock.Advance(15*time.Minute + time.Second)
	_, err := h.svc.GetProfile(context.Background(), session)
	assert.ErrorIs(t, err, mfa.ErrUnauthorized)
	assert.ErrorIs(t, err, mfa.ErrExpired)
}

func TestFlow_EncryptedSecretAtRest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	key, err := totp.GenerateEncryptionKey()
	require.NoError(t, err)
	cipher, err := totp.NewSecretCipher(key)
	require.NoError(t, err)

	h := newHarness(t, mfa.WithSecretCipher(cipher))
	h.register(t, "mia@example.com")
	enrollment := h.enroll(t, "mia@example.com")

	user, err := h.store.GetUserByEmail(ctx, "mia@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, enrollment.Secret, user.TOTPSecret)
	assert.NotContains(t, user.TOTPSecret, enrollment.Secret)

	opened, err := cipher.Decrypt(user.TOTPSecret)
	require.NoError(t, err)
	assert.Equal(t, enrollment.Secret, opened)

	res, err := h.svc.Login(ctx, "mia@example.com", password)
	require.NoError(t, err)
	code, err := totp.GenerateCodeAt(enrollment.Secret, h.clock.Now())
	require.NoError(t, err)
	_, err = h.svc.VerifyTOTP(ctx, res.TempToken, code)
	require.NoError(t, err)
}
