package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/plugins"
)

// Set via -ldflags at release time. Empty values fall back to the VCS
// stamp that `go build` embeds.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var readBuildInfo = debug.ReadBuildInfo

var flagVersionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show blink version, build and plugin support information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionJSON, "json", false, "Print build information as JSON")
	rootCmd.AddCommand(versionCmd)
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Native    bool   `json:"native_plugins"`
}

func currentBuild() buildInfo {
	b := buildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Native:    plugins.NativeSupported(),
	}
	info, ok := readBuildInfo()
	if !ok {
		return b
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "":
			b.Commit = s.Value
		case s.Key == "vcs.time" && b.BuildDate == "":
			b.BuildDate = s.Value
		}
	}
	return b
}

func runVersion(cmd *cobra.Command, _ []string) error {
	b := currentBuild()
	if flagVersionJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}
	writeBuild(cmd.OutOrStdout(), b)
	return nil
}

func writeBuild(w io.Writer, b buildInfo) {
	native := "unsupported (data plugins only)"
	if b.Native {
		native = "supported"
	}
	fmt.Fprintf(w, "Version:    %s\n", b.Version)
	fmt.Fprintf(w, "Commit:     %s\n", emptyAsNA(b.Commit))
	fmt.Fprintf(w, "Build Date: %s\n", emptyAsNA(b.BuildDate))
	fmt.Fprintf(w, "Go Version: %s\n", b.GoVersion)
	fmt.Fprintf(w, "OS/Arch:    %s\n", b.Platform)
	fmt.Fprintf(w, "Native:     %s\n", native)
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
