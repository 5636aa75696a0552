package pg_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mfakit/pkg/pg"
)

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: "23505"}
	foreign := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
		foreign   bool
	}{
		{name: "nil", err: nil},
		{name: "no rows", err: pgx.ErrNoRows, notFound: true},
		{name: "wrapped no rows", err: fmt.Errorf("query: %w", pgx.ErrNoRows), notFound: true},
		{name: "unique violation", err: unique, duplicate: true},
		{name: "joined unique violation", err: errors.Join(errors.New("insert"), unique), duplicate: true},
		{name: "foreign key violation", err: foreign, foreign: true},
		{name: "other", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.notFound, pg.IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, pg.IsDuplicateKeyError(tt.err))
			assert.Equal(t, tt.foreign, pg.IsForeignKeyViolationError(tt.err))
		})
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, pg.Healthcheck(pinger{})(context.Background()))

	down := errors.New("connection refused")
	err := pg.Healthcheck(pinger{err: down})(context.Background())
	assert.ErrorIs(t, err, pg.ErrHealthcheckFailed)
	assert.ErrorIs(t, err, down)
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)

	assert.False(t, pg.Config{}.Enabled())
	assert.True(t, pg.Config{ConnectionString: "postgres://localhost/db"}.Enabled())
}

func TestMigrate_RequiresFS(t *testing.T) {
	t.Parallel()
	err := pg.Migrate(context.Background(), nil, nil, pg.Config{}, nil)
	assert.ErrorIs(t, err, pg.ErrFailedToApplyMigrations)
	assert.ErrorIs(t, err, pg.ErrMigrationsNotProvided)
}
