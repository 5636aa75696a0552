// Package postgres implements mfa.CredentialStore on PostgreSQL with pgx.
//
// Per-user atomicity: ReplaceOTP locks the user row for the duration of its
// transaction. EnableTOTP is a single UPDATE and ConsumeOTP a single
// conditional UPDATE.
package postgres

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the schema for pg.Migrate.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store struct {
	db DB
}

var _ mfa.CredentialStore = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, email, password_hash, totp_secret, mfa_enabled, created_at`

func (s *Store) CreateUser(ctx context.Context, user *mfa.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.TOTPSecret, user.MFAEnabled, user.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return mfa.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*mfa.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*mfa.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) EnableTOTP(ctx context.Context, userID uuid.UUID, secret string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET totp_secret = $2, mfa_enabled = TRUE WHERE id = $1`,
		userID, secret,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mfa.ErrUserNotFound
	}
	return nil
}

func (s *Store) ReplaceOTP(ctx context.Context, rec *mfa.OTPRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, rec.UserID).Scan(&id)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return mfa.ErrUserNotFound
			}
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE otp_records SET consumed = TRUE WHERE user_id = $1 AND purpose = $2 AND NOT consumed`,
			rec.UserID, string(rec.Purpose),
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM otp_records WHERE user_id = $1 AND expires_at < $2`,
			rec.UserID, rec.CreatedAt,
		); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO otp_records (id, user_id, code_hash, purpose, expires_at, consumed, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, rec.UserID, rec.Hash, string(rec.Purpose), rec.ExpiresAt, rec.Consumed, rec.CreatedAt,
		)
		return err
	})
}

func (s *Store) GetActiveOTP(ctx context.Context, userID uuid.UUID, purpose mfa.OTPPurpose, now time.Time) (*mfa.OTPRecord, error) {
	var (
		rec  mfa.OTPRecord
		purp string
		row  = s.db.QueryRow(ctx,
			`SELECT id, user_id, code_hash, purpose, expires_at, consumed, created_at
			   FROM otp_records
			  WHERE user_id = $1 AND purpose = $2 AND NOT consumed AND expires_at >= $3
			  ORDER BY created_at DESC
			  LIMIT 1`,
			userID, string(purpose), now,
		)
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Hash, &purp, &rec.ExpiresAt, &rec.Consumed, &rec.CreatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, mfa.ErrOTPNotFound
		}
		return nil, err
	}
	rec.Purpose = mfa.OTPPurpose(purp)
	return &rec, nil
}

func (s *Store) ConsumeOTP(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `UPDATE otp_records SET consumed = TRUE WHERE id = $1 AND NOT consumed`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mfa.ErrOTPNotFound
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanUser(row pgx.Row) (*mfa.User, error) {
	var u mfa.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.TOTPSecret, &u.MFAEnabled, &u.CreatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, mfa.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
