// Package locks provides inter-process mutual exclusion between prebuild runs.
package locks

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ProjectMutex serialises prebuild runs that modify the same project. The
// lock file lives in the OS temp dir, keyed by the absolute project root, and
// is released automatically if the holding process dies.
//
// See:
//   - Linux: https://linux.die.net/man/2/flock
//   - Windows: https://docs.microsoft.com/en-us/windows/win32/api/fileapi/nf-fileapi-lockfileex
type ProjectMutex struct {
	Opts
	mu *flock.Flock
}

type Opts struct {
	Name string
}

// ProjectOpts names the lock for the project at root.
func ProjectOpts(root string) Opts {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	sum := sha1.Sum([]byte(root))
	return Opts{Name: "prebuild-" + hex.EncodeToString(sum[:6]) + ".lock"}
}

func New(o Opts) *ProjectMutex {
	mu := flock.New(filepath.Join(os.TempDir(), o.Name))

	return &ProjectMutex{Opts: o, mu: mu}
}

type TryLockResult struct {
	Attempt int
	Error   error
	Success bool
}

func (m *ProjectMutex) TryLock(ctx context.Context, retryDelay time.Duration) <-chan TryLockResult {
	ch := make(chan TryLockResult)
	go func() {
		defer close(ch)
		for attempt := 0; ; attempt++ {
			ok, err := m.mu.TryLock()
			if err != nil {
				ch <- TryLockResult{Attempt: attempt, Error: fmt.Errorf("failed to acquire lock (pid %d): %w", os.Getpid(), err)}
				return
			}
			if ok {
				ch <- TryLockResult{Attempt: attempt, Success: true}
				return
			}

			select {
			case <-ctx.Done():
				ch <- TryLockResult{Attempt: attempt, Error: ctx.Err()}
				return
			case <-time.After(retryDelay):
				ch <- TryLockResult{Attempt: attempt, Success: false}
			}
		}
	}()
	return ch
}

// Lock blocks until the lock is held or ctx is done. onWait is called after
// every failed attempt and may be nil.
func (m *ProjectMutex) Lock(ctx context.Context, retryDelay time.Duration, onWait func(attempt int)) error {
	for result := range m.TryLock(ctx, retryDelay) {
		switch {
		case result.Error != nil:
			return result.Error
		case result.Success:
			return nil
		case onWait != nil:
			onWait(result.Attempt)
		}
	}
	return nil
}

func (m *ProjectMutex) Unlock() error {
	return m.mu.Unlock()
}
