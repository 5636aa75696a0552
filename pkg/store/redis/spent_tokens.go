// Package redis implements mfa.SpentTokens on Redis so that temp tokens stay
// single use across several mfad instances.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

// minTTL keeps a key alive for tokens already at their expiry instant.
const minTTL = time.Second

// Client is the subset of redis.UniversalClient the store needs.
type Client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// SpentTokens records token ids with SET NX and a TTL matching the token's
// remaining lifetime.
type SpentTokens struct {
	client Client
	prefix string
	now    func() time.Time
}

var _ mfa.SpentTokens = (*SpentTokens)(nil)

// NewSpentTokens creates the store. Keys are "<prefix>spent:<jti>".
func NewSpentTokens(client Client, prefix string) *SpentTokens {
	return &SpentTokens{client: client, prefix: prefix, now: time.Now}
}

// WithClock returns a copy that computes TTLs against now.
func (s *SpentTokens) WithClock(now func() time.Time) *SpentTokens {
	c := *s
	if now != nil {
		c.now = now
	}
	return &c
}

func (s *SpentTokens) MarkSpent(ctx context.Context, id string, until time.Time) (bool, error) {
	ttl := max(until.Sub(s.now()), minTTL)
	return s.client.SetNX(ctx, s.key(id), 1, ttl).Result()
}

func (s *SpentTokens) key(id string) string {
	return s.prefix + "spent:" + id
}
