package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"

	asJSON bool
)

// CoreVersions holds version information for the binary and the rules it carries.
type CoreVersions struct {
	Versions shared.Versions   `json:"versions"`
	Rules    map[string]string `json:"rules"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and the supported rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersionInfo(cmd.OutOrStdout(), currentVersions(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}

func currentVersions() *CoreVersions {
	rules := make(map[string]string)
	for _, key := range repair.SupportedRules() {
		rules[key] = repair.Title(key)
	}
	return &CoreVersions{
		Versions: shared.Versions{
			Version:       CoreVersion,
			GolangVersion: GolangVersion,
			BuildTime:     BuildTime,
		},
		Rules: rules,
	}
}

// printVersionInfo prints the version information for the binary and its rules.
func printVersionInfo(w io.Writer, versions *CoreVersions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(versions)
	}

	fmt.Fprintf(w, "Core Version: v%s\n", versions.Versions.Version)
	fmt.Fprintln(w, "Rules:")
	for _, key := range repair.SupportedRules() {
		fmt.Fprintf(w, "  %s: %s\n", key, versions.Rules[key])
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.Versions.BuildTime)
	return nil
}
