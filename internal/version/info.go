// Package version reports build information for blob-poster.
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables injected via ldflags:
//
//	-X github.com/altuslabsxyz/blob-poster/internal/version.Version={{.Version}}
//	-X github.com/altuslabsxyz/blob-poster/internal/version.GitCommit={{.FullCommit}}
//	-X github.com/altuslabsxyz/blob-poster/internal/version.BuildDate={{.Date}}
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const cosmosSDKModule = "github.com/cosmos/cosmos-sdk"

// Supported --output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Info contains all version and build information.
type Info struct {
	Name      string   `json:"name" yaml:"name"`
	Version   string   `json:"version" yaml:"version"`
	GitCommit string   `json:"commit" yaml:"commit"`
	BuildDate string   `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	GoVersion string   `json:"go" yaml:"go"`
	Platform  string   `json:"platform" yaml:"platform"`
	CosmosSDK string   `json:"cosmos_sdk_version,omitempty" yaml:"cosmos_sdk_version,omitempty"`
	BuildDeps []string `json:"build_deps,omitempty" yaml:"build_deps,omitempty"`
}

// NewInfo returns the build information of the running binary.
func NewInfo(name string) Info {
	info := Info{
		Name:      name,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.CosmosSDK = moduleVersion(bi, cosmosSDKModule)
	}
	return info
}

func moduleVersion(bi *debug.BuildInfo, path string) string {
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}

// WithBuildDeps populates the build dependencies from runtime/debug.
func (i Info) WithBuildDeps() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}

	deps := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		depStr := fmt.Sprintf("%s@%s", dep.Path, dep.Version)
		if dep.Replace != nil {
			depStr = fmt.Sprintf("%s@%s => %s@%s", dep.Path, dep.Version, dep.Replace.Path, dep.Replace.Version)
		}
		deps = append(deps, depStr)
	}
	sort.Strings(deps)
	i.BuildDeps = deps
	return i
}

// String returns a formatted string representation of the version info.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", i.Name, i.Version)
	fmt.Fprintf(&sb, "  Git commit: %s\n", i.GitCommit)
	fmt.Fprintf(&sb, "  Build date: %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  Platform:   %s\n", i.Platform)
	if i.CosmosSDK != "" {
		fmt.Fprintf(&sb, "  Cosmos SDK: %s\n", i.CosmosSDK)
	}
	for _, dep := range i.BuildDeps {
		fmt.Fprintf(&sb, "  dep: %s\n", dep)
	}
	return sb.String()
}

// Write renders the info in the given format.
func (i Info) Write(w io.Writer, format string) error {
	switch format {
	case "", FormatText:
		_, err := io.WriteString(w, i.String())
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(i, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(i)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format %q (valid: %s, %s, %s)", format, FormatText, FormatJSON, FormatYAML)
	}
}

// NewCmd creates a version command for the given app name.
// jsonMode reports the global --json flag, which selects JSON output.
func NewCmd(name string, jsonMode func() bool) *cobra.Command {
	var (
		long   bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version information including build details. Use --long for dependency info.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := NewInfo(name)
			if long {
				info = info.WithBuildDeps()
			}
			if !cmd.Flags().Changed("output") && jsonMode != nil && jsonMode() {
				format = FormatJSON
			}
			return info.Write(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Show detailed version info including build dependencies")
	cmd.Flags().StringVarP(&format, "output", "o", FormatText, "Output format (text, json, yaml)")

	return cmd
}
