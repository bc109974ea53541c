//go:build integration

package lock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"soukscan/internal/stats/lock"
	"soukscan/pkg/testutil/containers"
)

type RedisLockSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	locker *lock.Redis
}

func TestRedisLockSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockSuite))
}

func (s *RedisLockSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.locker = lock.NewRedis(s.redis.Client)
}

func (s *RedisLockSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLockSuite) TestConcurrentHoldersAreSerialised() {
	ctx := context.Background()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := s.locker.Lock(ctx, "vendor:42")
			s.Require().NoError(err)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	s.Equal(1, maxSeen)
}

func (s *RedisLockSuite) TestUnlockOnlyReleasesOwnToken() {
	ctx := context.Background()
	unlock, err := s.locker.Lock(ctx, "user:1")
	s.Require().NoError(err)
	unlock()
	unlock()

	again, err := s.locker.Lock(ctx, "user:1")
	s.Require().NoError(err)
	again()
}
