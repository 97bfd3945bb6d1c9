package throttle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeRedis implements only the commands the throttle issues.
type fakeRedis struct {
	redis.Cmdable
	mock.Mock
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	args := f.Called(ctx, key)
	return redis.NewIntResult(int64(args.Int(0)), args.Error(1))
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	args := f.Called(ctx, key, expiration)
	return redis.NewBoolResult(args.Bool(0), args.Error(1))
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := f.Called(ctx, keys)
	return redis.NewIntResult(int64(args.Int(0)), args.Error(1))
}

func TestRedisThrottle_Allow(t *testing.T) {
	tests := []struct {
		name          string
		count         int
		incrErr       error
		expectExpire  bool
		expectedAllow bool
		expectError   bool
	}{
		{name: "first attempt starts the window", count: 1, expectExpire: true, expectedAllow: true},
		{name: "within limit", count: 2, expectedAllow: true},
		{name: "at limit", count: 3, expectedAllow: true},
		{name: "over limit", count: 4, expectedAllow: false},
		{name: "redis down", incrErr: errors.New("connection refused"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := new(fakeRedis)
			rdb.On("Incr", mock.Anything, "login:attempts:admin").Return(tt.count, tt.incrErr)
			if tt.expectExpire {
				rdb.On("Expire", mock.Anything, "login:attempts:admin", time.Minute).Return(true, nil)
			}

			th := NewRedisThrottle(rdb, 3, time.Minute)
			ok, err := th.Allow(context.Background(), "admin")

			if tt.expectError {
				assert.Error(t, err)
				assert.False(t, ok)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedAllow, ok)
			}
			if !tt.expectExpire {
				rdb.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
			}
			rdb.AssertExpectations(t)
		})
	}
}

func TestRedisThrottle_Reset(t *testing.T) {
	rdb := new(fakeRedis)
	rdb.On("Del", mock.Anything, []string{"login:attempts:admin"}).Return(1, nil).Once()
	rdb.On("Del", mock.Anything, []string{"login:attempts:bob"}).Return(0, errors.New("timeout")).Once()

	th := NewRedisThrottle(rdb, 3, time.Minute)

	assert.NoError(t, th.Reset(context.Background(), "admin"))
	assert.ErrorContains(t, th.Reset(context.Background(), "bob"), "timeout")
	rdb.AssertExpectations(t)
}
