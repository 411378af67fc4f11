//go:build !windows

package launch

import (
	"fmt"
	"os/exec"
)

func start(command string) error {
	c := exec.Command("/bin/sh", "-c", command)
	if err := c.Start(); err != nil {
		return fmt.Errorf("cannot start %q: %w", command, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}
