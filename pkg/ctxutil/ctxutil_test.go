package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, ok := UserIDFromCtx(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = UserIDFromCtx(context.Background())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, got)

	_, ok = UserIDFromCtx(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	_, ok = UserIDFromCtx(context.WithValue(context.Background(), userIDKey, "not-a-uuid"))
	assert.False(t, ok)
}

func TestLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ru", LocaleFromCtx(WithLocale(context.Background(), "ru")))
	assert.Empty(t, LocaleFromCtx(context.Background()))
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "req-123", RequestIDFromCtx(WithRequestID(context.Background(), "req-123")))
	assert.Empty(t, RequestIDFromCtx(context.Background()))
}

func TestKeysDoNotCollide(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(WithLocale(WithUserID(context.Background(), uuid.New()), "en"), "r1")
	_, ok := UserIDFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, "en", LocaleFromCtx(ctx))
	assert.Equal(t, "r1", RequestIDFromCtx(ctx))
}
