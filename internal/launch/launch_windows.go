//go:build windows

package launch

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func start(command string) error {
	file, args := SplitCommand(command)

	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	f, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return fmt.Errorf("invalid command %q: %w", command, err)
	}
	var a *uint16
	if args != "" {
		if a, err = windows.UTF16PtrFromString(args); err != nil {
			return fmt.Errorf("invalid arguments %q: %w", args, err)
		}
	}
	if err := windows.ShellExecute(0, verb, f, a, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("cannot start %q: %w", command, err)
	}
	return nil
}
