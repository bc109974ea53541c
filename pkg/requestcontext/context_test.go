package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "soukscan/pkg/domain"
)

func TestCaller(t *testing.T) {
	t.Run("anonymous context has no caller", func(t *testing.T) {
		_, ok := CallerFrom(context.Background())
		assert.False(t, ok)
		assert.Equal(t, id.AdminID(0), CallerID(context.Background()))
	})

	t.Run("caller round-trips with roles", func(t *testing.T) {
		ctx := WithCaller(context.Background(), Caller{ID: 7, Roles: []string{"MODERATOR"}})
		c, ok := CallerFrom(ctx)
		assert.True(t, ok)
		assert.Equal(t, id.AdminID(7), c.ID)
		assert.True(t, c.HasAnyRole("ADMIN", "MODERATOR"))
		assert.False(t, c.HasAnyRole("ADMIN"))
	})
}

func TestAuthorization(t *testing.T) {
	ctx := WithAuthorization(context.Background(), "")
	assert.Empty(t, Authorization(ctx), "empty header is not stored")

	ctx = WithAuthorization(context.Background(), "Bearer abc")
	assert.Equal(t, "Bearer abc", Authorization(ctx))
}

func TestNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}
