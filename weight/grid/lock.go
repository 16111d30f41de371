package grid

import (
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is how often a held lock is polled until the timeout.
const lockRetryInterval = 100 * time.Millisecond

// LockPath returns the lock file guarding the grid at path.
func LockPath(path string) string {
	return path + ".lock"
}

// acquireLock takes the lock next to the grid file. Writers take it
// exclusively, readers shared. A zero timeout tries exactly once.
func acquireLock(path string, shared bool, timeout time.Duration) (*flock.Flock, error) {
	l := flock.New(LockPath(path))
	deadline := time.Now().Add(timeout)
	for {
		var locked bool
		var err error
		if shared {
			locked, err = l.TryRLock()
		} else {
			locked, err = l.TryLock()
		}
		if err != nil {
			return nil, fmt.Errorf("cannot acquire grid lock: %w", err)
		}
		if locked {
			return l, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, l.Path())
		}
		time.Sleep(lockRetryInterval)
	}
}
