// Package launch starts the command attached to a chosen action.
package launch

import (
	"errors"
	"strings"

	"github.com/kamusis/blink/internal/search"
)

// ErrEmptyCommand is returned for a blank command.
var ErrEmptyCommand = errors.New("empty command")

// Command starts command detached from blink, resolving it the way the
// platform shell would. It returns once the process has been started.
func Command(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return ErrEmptyCommand
	}
	return start(command)
}

// Preferred picks the action best suited to goos: the platform-specific
// action when present, then the universal one, then the first.
// ok is false when actions is empty.
func Preferred(actions []search.Action, goos string) (search.Action, bool) {
	if len(actions) == 0 {
		return search.Action{}, false
	}
	want := ""
	switch goos {
	case "windows":
		want = search.TitleRunWindows
	case "darwin", "ios":
		want = search.TitleRunMac
	}
	for _, title := range []string{want, search.TitleRunAll} {
		if title == "" {
			continue
		}
		for _, a := range actions {
			if a.Title == title {
				return a, true
			}
		}
	}
	return actions[0], true
}

// SplitCommand separates the program from its arguments. A leading
// double-quoted program may contain spaces.
func SplitCommand(command string) (file, args string) {
	command = strings.TrimSpace(command)
	if strings.HasPrefix(command, `"`) {
		if end := strings.Index(command[1:], `"`); end >= 0 {
			return command[1 : end+1], strings.TrimSpace(command[end+2:])
		}
	}
	if i := strings.IndexAny(command, " \t"); i >= 0 {
		return command[:i], strings.TrimSpace(command[i+1:])
	}
	return command, ""
}
