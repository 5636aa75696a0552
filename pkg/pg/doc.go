// Package pg bootstraps a pgx/v5 connection pool for the Postgres credential
// store.
//
// Connect parses Config, opens a *pgxpool.Pool and pings it, retrying with a
// pause that grows with each attempt. Migrate runs goose migrations from an
// fs.FS, so each store ships its schema with //go:embed. Healthcheck returns a
// probe suitable for a readiness endpoint.
//
// The Is* helpers classify driver errors:
//
//	if pg.IsDuplicateKeyError(err) {
//		return mfa.ErrConflict
//	}
package pg
