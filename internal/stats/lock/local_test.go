package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SerialisesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "user:1")
			require.NoError(t, err)
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Empty(t, l.locks, "idle keys are released")
}

func TestLocal_ContextCancelledWhileWaiting(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "vendor:42")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "vendor:42")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocal_IndependentKeys(t *testing.T) {
	l := NewLocal()
	u1, err := l.Lock(context.Background(), "user:1")
	require.NoError(t, err)
	defer u1()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	u2, err := l.Lock(ctx, "user:2")
	require.NoError(t, err)
	u2()
}
