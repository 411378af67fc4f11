package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// acquireLauncherLock takes the per-user launcher lock, polling until timeout.
// The returned func releases it.
func acquireLauncherLock(timeout time.Duration) (*flock.Flock, func(), error) {
	lockPath, err := launcherLockPath()
	if err != nil {
		return nil, func() {}, err
	}
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, func() {}, fmt.Errorf("cannot acquire launcher lock: %w", err)
		}
		if locked {
			return l, func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, func() {}, fmt.Errorf("another blink launcher is already running (lock: %s)", lockPath)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// launcherLockPath determines the per-user lock path that keeps a single launcher open.
func launcherLockPath() (string, error) {
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		dir := filepath.Join(cacheDir, "blink")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, "launcher.lock"), nil
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dir := filepath.Join(home, ".blink")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, "launcher.lock"), nil
		}
	}
	return "", fmt.Errorf("cannot determine writable lock directory")
}
