package locks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpts(t *testing.T) Opts {
	t.Helper()

	// Custom lock file name to avoid conflicts with real CLI runs
	name := fmt.Sprintf("prebuild-test-%d.lock", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = os.Remove(filepath.Join(os.TempDir(), name))
	})
	return Opts{Name: name}
}

func TestProjectOpts(t *testing.T) {
	t.Parallel()

	a := ProjectOpts("/work/app")
	b := ProjectOpts("/work/app/")
	c := ProjectOpts("/work/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^prebuild-[0-9a-f]{12}\.lock$`, a.Name)
}

func TestProjectMutex_TryLock(t *testing.T) {
	mutex := New(testOpts(t))
	defer func() { _ = mutex.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result := <-mutex.TryLock(ctx, 50*time.Millisecond)

	assert.True(t, result.Success, "Should successfully acquire the lock")
	assert.Nil(t, result.Error, "Should not return an error")
	assert.Equal(t, 0, result.Attempt, "Should succeed on the first attempt")
}

func TestProjectMutex_Contention(t *testing.T) {
	opts := testOpts(t)
	mutex1 := New(opts)
	mutex2 := New(opts)
	defer func() {
		_ = mutex1.Unlock()
		_ = mutex2.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, mutex1.Lock(ctx, 50*time.Millisecond, nil))

	waits := 0
	released := false
	err := mutex2.Lock(ctx, 50*time.Millisecond, func(attempt int) {
		waits++
		if !released {
			released = true
			assert.NoError(t, mutex1.Unlock())
		}
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, waits, 1, "Second mutex should wait for the first to release")
}

func TestProjectMutex_ContextCancelled(t *testing.T) {
	opts := testOpts(t)
	mutex1 := New(opts)
	mutex2 := New(opts)
	defer func() { _ = mutex1.Unlock() }()

	require.NoError(t, mutex1.Lock(context.Background(), 50*time.Millisecond, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := mutex2.Lock(ctx, 50*time.Millisecond, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
