package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kamusis/blink/internal/plugins"
)

// Status lines share one shape, "  <mark>  [label] msg". label is a plugin
// directory, an action title or empty.
type mark string

const (
	markOK   mark = "✓"
	markErr  mark = "✗"
	markWarn mark = "⚠"
	markSkip mark = "○"
	markMiss mark = "-"
	markInfo mark = "~"
)

func writeStatus(w io.Writer, m mark, label, msg string) {
	if label != "" {
		msg = "[" + label + "] " + msg
	}
	fmt.Fprintf(w, "  %s  %s\n", m, msg)
}

func printSection(title string) { fmt.Printf("\n=== %s ===\n", title) }

func printOK(label, msg string)   { writeStatus(os.Stdout, markOK, label, msg) }
func printWarn(label, msg string) { writeStatus(os.Stdout, markWarn, label, msg) }
func printSkip(label, msg string) { writeStatus(os.Stdout, markSkip, label, msg) }
func printMiss(label, msg string) { writeStatus(os.Stdout, markMiss, label, msg) }
func printInfo(label, msg string) { writeStatus(os.Stdout, markInfo, label, msg) }

// printErr writes to stderr.
func printErr(label, msg string) { writeStatus(os.Stderr, markErr, label, msg) }

// reportStatus classifies one plugin directory. Directories skipped on
// purpose (no manifest, script kind, native unsupported by this build) get
// markSkip; anything else that failed to load is markWarn.
func reportStatus(r plugins.Report) (mark, string) {
	switch {
	case r.Err == nil:
		return markOK, fmt.Sprintf("%s %s (%s)", r.Manifest.Name, r.Manifest.Version, r.Manifest.Kind)
	case errors.Is(r.Err, plugins.ErrManifestNotFound):
		return markSkip, "no manifest"
	case errors.Is(r.Err, plugins.ErrScriptUnsupported), errors.Is(r.Err, plugins.ErrNativeUnsupported):
		return markSkip, r.Err.Error()
	default:
		return markWarn, r.Err.Error()
	}
}

// printReports writes one line per plugin directory and counts the ones
// that load and the ones that are broken.
func printReports(w io.Writer, reports []plugins.Report) (loaded, broken int) {
	for _, r := range reports {
		m, msg := reportStatus(r)
		switch m {
		case markOK:
			loaded++
		case markWarn:
			broken++
		}
		writeStatus(w, m, r.Name(), msg)
	}
	return loaded, broken
}
