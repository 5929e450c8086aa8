package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/usercreds/internal/pkg/auth"
	testhelpers "github.com/polkiloo/usercreds/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHashPoolDefaults(t *testing.T) {
	pool := NewHashPool(testhelpers.HasherStub{}, 0, discardLogger())
	assert.Equal(t, 1, pool.workers)
}

func TestHashPoolDelegates(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewHashPool(auth.NewBcryptHasher(bcrypt.MinCost), 2, discardLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	hash, err := pool.Hash("secret123")
	require.NoError(t, err)
	require.NoError(t, pool.Compare(hash, "secret123"))
	assert.ErrorIs(t, pool.Compare(hash, "wrongpass"), auth.ErrPasswordMismatch)
	assert.ErrorIs(t, pool.Compare("garbage", "secret123"), auth.ErrMalformedHash)
	assert.False(t, pool.NeedsRehash(hash))
}

func TestHashPoolPropagatesErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	failure := errors.New("boom")
	pool := NewHashPool(testhelpers.HasherStub{
		HashFn: func(string) (string, error) { return "", failure },
	}, 1, discardLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	_, err := pool.Hash("secret123")
	assert.ErrorIs(t, err, failure)
}

func TestHashPoolBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	const workers = 2
	var (
		active  int32
		maxSeen int32
	)
	release := make(chan struct{})
	hasher := testhelpers.HasherStub{HashFn: func(p string) (string, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			seen := atomic.LoadInt32(&maxSeen)
			if n <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&active, -1)
		return "hash:" + p, nil
	}}

	pool := NewHashPool(hasher, workers, discardLogger())
	pool.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = pool.Hash("p")
		}()
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&active) == workers
	}, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()
	pool.Stop()

	assert.Equal(t, int32(workers), atomic.LoadInt32(&maxSeen))
}

func TestHashPoolStopFinishesInFlightJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	hasher := testhelpers.HasherStub{HashFn: func(p string) (string, error) {
		close(started)
		<-release
		return "hash:" + p, nil
	}}

	pool := NewHashPool(hasher, 1, discardLogger())
	pool.Start(context.Background())

	result := make(chan string, 1)
	go func() {
		hash, _ := pool.Hash("secret")
		result <- hash
	}()
	<-started

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned before in-flight job finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped
	assert.Equal(t, "hash:secret", <-result)
}

func TestHashPoolRunsInlineWhenStopped(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewHashPool(testhelpers.HasherStub{}, 1, discardLogger())

	hash, err := pool.Hash("before-start")
	require.NoError(t, err)
	assert.Equal(t, "hash:before-start", hash)

	pool.Start(context.Background())
	pool.Start(context.Background())
	pool.Stop()

	require.NoError(t, pool.Compare("hash:after-stop", "after-stop"))
}

func TestHashPoolStopsWithParentContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewHashPool(testhelpers.HasherStub{}, 2, discardLogger())
	pool.Start(ctx)
	cancel()

	hash, err := pool.Hash("late")
	require.NoError(t, err)
	assert.Equal(t, "hash:late", hash)
	pool.Stop()
}
