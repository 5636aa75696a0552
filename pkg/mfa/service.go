package mfa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/otp"
	"github.com/dmitrymomot/mfakit/pkg/qrcode"
	"github.com/dmitrymomot/mfakit/pkg/sanitizer"
	"github.com/dmitrymomot/mfakit/pkg/totp"
	"github.com/dmitrymomot/mfakit/pkg/validator"
)

// Service drives registration, first-factor login, second-factor
// verification and TOTP enrollment. It holds no per-user state between calls:
// everything lives in the CredentialStore and the SpentTokens store.
type Service struct {
	store          CredentialStore
	tokens         *TokenIssuer
	spent          SpentTokens
	deliverer      Deliverer
	cipher         SecretCipher
	logger         *slog.Logger
	now            func() time.Time
	cfg            Config
	passwordPolicy validator.PasswordPolicy

	// compared against for unknown emails so both login failures cost one bcrypt run
	dummyHash []byte

	hashCode    func(code string, cost int) (string, error)
	compareCode func(code, hash string) error
}

// NewService creates the authentication service.
func NewService(store CredentialStore, cfg Config, opts ...Option) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	cfg = cfg.normalize()

	s := &Service{
		store:          store,
		cfg:            cfg,
		logger:         logger.Noop(),
		now:            time.Now,
		passwordPolicy: validator.DefaultPasswordPolicy(),
		hashCode:       otp.Hash,
		compareCode:    otp.Compare,
	}
	for _, opt := range opts {
		opt(s)
	}

	tokens, err := NewTokenIssuer(cfg, s.now)
	if err != nil {
		return nil, err
	}
	s.tokens = tokens

	if s.spent == nil {
		s.spent = NewMemorySpentTokens(s.now)
	}
	if s.deliverer == nil {
		s.deliverer = DelivererFunc(func(context.Context, string, string) error { return ErrNoDeliverer })
	}
	if s.cipher == nil && cfg.EncryptionKey != "" {
		c, err := totp.NewSecretCipherFromString(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		s.cipher = c
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	s.dummyHash = dummy

	s.logger = s.logger.With(logger.Component("mfa"))
	return s, nil
}

// Tokens exposes the issuer, e.g. for HTTP middleware.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Register creates a user with a normalized email and a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.StrongPassword("password", password, s.passwordPolicy),
		validator.NotCommonPassword("password", password),
	); err != nil {
		return uuid.Nil, errors.Join(ErrValidationFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return uuid.Nil, ErrConflict
		}
		return uuid.Nil, s.unavailable(ctx, "failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", logger.UserID(user.ID), logger.Email(email))
	return user.ID, nil
}

// Login verifies the password. Users without MFA get a session token; users
// with MFA get a temp token and the list of factors they can complete.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, s.unavailable(ctx, "failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected", logger.UserID(user.ID))
		return nil, ErrInvalidCredentials
	}

	if !user.MFAEnabled {
		session, err := s.tokens.IssueSession(user.ID)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "login completed", logger.UserID(user.ID))
		return &LoginResult{SessionToken: session.Token, ExpiresAt: session.ExpiresAt}, nil
	}

	temp, err := s.tokens.IssueTemp(user.ID)
	if err != nil {
		return nil, err
	}

	factors := make([]FactorKind, 0, len(SupportedFactors))
	if user.HasTOTP() {
		factors = append(factors, FactorTOTP)
	}
	factors = append(factors, FactorEmailOTP)

	s.logger.InfoContext(ctx, "second factor required", logger.UserID(user.ID))
	return &LoginResult{
		TempToken:            temp.Token,
		RequiresSecondFactor: true,
		Factors:              factors,
		ExpiresAt:            temp.ExpiresAt,
	}, nil
}

// EnableMFA generates a TOTP secret for the session's user, stores it and
// turns MFA on in one store write. Calling it again replaces the secret.
func (s *Service) EnableMFA(ctx context.Context, sessionToken string) (*Enrollment, error) {
	user, err := s.sessionUser(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	uri, err := totp.Provision(totp.ProvisionParams{
		Secret:      secret,
		AccountName: user.Email,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.GenerateBase64Image(uri, s.cfg.QRCodeSize)
	if err != nil {
		return nil, err
	}

	sealed, err := s.sealSecret(secret)
	if err != nil {
		return nil, err
	}

	if err := s.store.EnableTOTP(ctx, user.ID, sealed); err != nil {
		return nil, s.unavailable(ctx, "failed to store TOTP secret", err)
	}

	s.logger.InfoContext(ctx, "mfa enabled", logger.UserID(user.ID), logger.Factor(string(FactorTOTP)))
	return &Enrollment{Secret: secret, KeyURI: uri, QRCode: qr}, nil
}

// ConfirmMFA checks a code from the user's authenticator app against the
// enrolled secret. It changes nothing; clients call it to prove the app was
// set up correctly.
func (s *Service) ConfirmMFA(ctx context.Context, sessionToken, code string) error {
	user, err := s.sessionUser(ctx, sessionToken)
	if err != nil {
		return err
	}
	return s.checkTOTP(ctx, user, code)
}

// VerifyTOTP completes a pending login with an authenticator code. The temp
// token is spent whether or not the code matches.
func (s *Service) VerifyTOTP(ctx context.Context, tempToken, code string) (*Session, error) {
	return s.VerifySecondFactor(ctx, tempToken, SecondFactor{Kind: FactorTOTP, Code: code})
}

// VerifySecondFactor completes a pending login with any supported factor.
// The temp token is spent on every attempt with a supported factor, so a
// wrong code sends the user back to the password step.
func (s *Service) VerifySecondFactor(ctx context.Context, tempToken string, factor SecondFactor) (*Session, error) {
	if !slices.Contains(SupportedFactors, factor.Kind) {
		return nil, errors.Join(ErrValidationFailed, ErrUnsupportedFactor)
	}

	claims, err := s.spendTempToken(ctx, tempToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errors.Join(ErrUnauthorized, err)
		}
		return nil, s.unavailable(ctx, "failed to load user", err)
	}

	switch factor.Kind {
	case FactorTOTP:
		err = s.checkTOTP(ctx, user, factor.Code)
	case FactorEmailOTP:
		err = s.checkEmailCode(ctx, user, factor.Code)
	}
	if err != nil {
		s.logger.InfoContext(ctx, "second factor rejected",
			logger.UserID(user.ID),
			logger.Factor(string(factor.Kind)),
		)
		return nil, err
	}

	return s.openSession(ctx, user, factor.Kind)
}

// SendEmailOTP emails a fresh code, replacing any outstanding one. Unknown
// emails get the same nil result as known ones.
func (s *Service) SendEmailOTP(ctx context.Context, email string) error {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Same generate and hash cost as a real send.
			if _, err := s.newEmailCode(); err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "email code requested for unknown address", logger.Email(email))
			return nil
		}
		return s.unavailable(ctx, "failed to load user", err)
	}

	code, err := s.newEmailCode()
	if err != nil {
		return err
	}

	now := s.now()
	rec := &OTPRecord{
		ID:        uuid.New(),
		UserID:    user.ID,
		Hash:      code.hash,
		Purpose:   PurposeEmailOTP,
		ExpiresAt: now.Add(s.cfg.EmailOTPTTL),
		CreatedAt: now,
	}
	if err := s.store.ReplaceOTP(ctx, rec); err != nil {
		return s.unavailable(ctx, "failed to store email code", err)
	}

	if err := s.deliverer.Deliver(ctx, user.Email, code.plain); err != nil {
		return s.unavailable(ctx, "failed to deliver email code", err)
	}

	s.logger.InfoContext(ctx, "email code sent", logger.UserID(user.ID), logger.Purpose(string(PurposeEmailOTP)))
	return nil
}

// VerifyEmailOTP checks an emailed code. With a temp token it completes a
// pending login for that same user. Without one it is a passwordless login,
// allowed only for users that have MFA disabled.
func (s *Service) VerifyEmailOTP(ctx context.Context, email, code, tempToken string) (*Session, error) {
	var pending *TokenClaims
	if tempToken != "" {
		claims, err := s.spendTempToken(ctx, tempToken)
		if err != nil {
			return nil, err
		}
		pending = claims
	}

	user, err := s.store.GetUserByEmail(ctx, sanitizer.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.compareDummy(code)
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, s.unavailable(ctx, "failed to load user", err)
	}

	switch {
	case pending != nil && pending.UserID != user.ID:
		s.logger.WarnContext(ctx, "temp token presented for another user", logger.UserID(pending.UserID))
		s.compareDummy(code)
		return nil, ErrInvalidOrExpiredCode
	case pending == nil && user.MFAEnabled:
		s.compareDummy(code)
		return nil, ErrInvalidOrExpiredCode
	}

	if err := s.checkEmailCode(ctx, user, code); err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, FactorEmailOTP)
}

// GetProfile returns the session user's public data.
func (s *Service) GetProfile(ctx context.Context, sessionToken string) (*Profile, error) {
	user, err := s.sessionUser(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:           user.ID,
		Email:        user.Email,
		MFAEnabled:   user.MFAEnabled,
		TOTPEnrolled: user.HasTOTP(),
		CreatedAt:    user.CreatedAt,
	}, nil
}

func (s *Service) sessionUser(ctx context.Context, sessionToken string) (*User, error) {
	claims, err := s.tokens.Verify(sessionToken, PurposeSession)
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errors.Join(ErrUnauthorized, err)
		}
		return nil, s.unavailable(ctx, "failed to load user", err)
	}
	return user, nil
}

func (s *Service) spendTempToken(ctx context.Context, tempToken string) (*TokenClaims, error) {
	claims, err := s.tokens.Verify(tempToken, PurposeMFAPending)
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}

	first, err := s.spent.MarkSpent(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		return nil, s.unavailable(ctx, "failed to record temp token", err)
	}
	if !first {
		s.logger.WarnContext(ctx, "temp token replayed", logger.UserID(claims.UserID))
		return nil, errors.Join(ErrUnauthorized, ErrTokenReplayed)
	}
	return claims, nil
}

func (s *Service) checkTOTP(ctx context.Context, user *User, code string) error {
	if !user.HasTOTP() {
		return ErrInvalidCode
	}

	secret, err := s.openSecret(user.TOTPSecret)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to open TOTP secret", logger.UserID(user.ID), logger.Error(err))
		return errors.Join(ErrServiceUnavailable, err)
	}

	ok, err := totp.ValidateAt(secret, sanitizer.NormalizeCode(code), s.now(), s.cfg.TOTPDrift)
	if err != nil || !ok {
		return ErrInvalidCode
	}
	return nil
}

func (s *Service) checkEmailCode(ctx context.Context, user *User, code string) error {
	code = sanitizer.NormalizeCode(code)
	if validator.Apply(validator.ValidOTP("code", code, s.cfg.EmailOTPLength)) != nil {
		s.compareDummy(code)
		return ErrInvalidOrExpiredCode
	}

	now := s.now()
	rec, err := s.store.GetActiveOTP(ctx, user.ID, PurposeEmailOTP, now)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			s.compareDummy(code)
			return ErrInvalidOrExpiredCode
		}
		return s.unavailable(ctx, "failed to load email code", err)
	}
	if !rec.Live(now) {
		s.compareDummy(code)
		return ErrInvalidOrExpiredCode
	}

	if err := s.compareCode(code, rec.Hash); err != nil {
		// A code gets one guess: a miss burns the record.
		if err := s.store.ConsumeOTP(ctx, rec.ID); err != nil && !errors.Is(err, ErrOTPNotFound) {
			return s.unavailable(ctx, "failed to invalidate email code", err)
		}
		s.logger.InfoContext(ctx, "email code rejected", logger.UserID(user.ID))
		return ErrInvalidOrExpiredCode
	}

	if err := s.store.ConsumeOTP(ctx, rec.ID); err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return s.unavailable(ctx, "failed to consume email code", err)
	}
	return nil
}

type emailCode struct {
	plain string
	hash  string
}

func (s *Service) newEmailCode() (emailCode, error) {
	plain, err := otp.GenerateCode(s.cfg.EmailOTPLength)
	if err != nil {
		return emailCode{}, err
	}
	hash, err := s.hashCode(plain, s.cfg.BcryptCost)
	if err != nil {
		return emailCode{}, err
	}
	return emailCode{plain: plain, hash: hash}, nil
}

// compareDummy spends one bcrypt comparison so rejections that never reach a
// stored hash take as long as a real mismatch.
func (s *Service) compareDummy(code string) {
	_ = s.compareCode(code, string(s.dummyHash))
}

func (s *Service) openSession(ctx context.Context, user *User, factor FactorKind) (*Session, error) {
	session, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "login completed", logger.UserID(user.ID), logger.Factor(string(factor)))
	return &Session{UserID: user.ID, Token: session.Token, ExpiresAt: session.ExpiresAt}, nil
}

func (s *Service) sealSecret(secret string) (string, error) {
	if s.cipher == nil {
		return secret, nil
	}
	return s.cipher.Encrypt(secret)
}

func (s *Service) openSecret(stored string) (string, error) {
	if s.cipher == nil {
		return stored, nil
	}
	secret, err := s.cipher.Decrypt(stored)
	if err != nil {
		return "", errors.Join(ErrInvalidSecretStore, err)
	}
	return secret, nil
}

func (s *Service) unavailable(ctx context.Context, msg string, err error) error {
	s.logger.ErrorContext(ctx, msg, logger.Error(err))
	return errors.Join(ErrServiceUnavailable, err)
}
