//go:build !windows

package launch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCommand_StartsShell(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	if err := Command("touch " + marker); err != nil {
		t.Fatalf("Command: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("command did not create %s", marker)
}
