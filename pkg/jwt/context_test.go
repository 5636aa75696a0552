package jwt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mfakit/pkg/jwt"
)

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := jwt.GetToken(ctx)
	assert.False(t, ok)
	_, ok = jwt.GetClaims(ctx)
	assert.False(t, ok)

	claims := &jwt.Claims{Purpose: "session"}
	ctx = jwt.SetToken(ctx, "a.b.c")
	ctx = jwt.SetClaims(ctx, claims)

	token, ok := jwt.GetToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", token)

	got, ok := jwt.GetClaims(ctx)
	assert.True(t, ok)
	assert.Same(t, claims, got)
}
