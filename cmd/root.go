package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	repaircmd "github.com/pvojtechovsky/sonarqube-repair/cmd/repair"
	"github.com/pvojtechovsky/sonarqube-repair/cmd/version"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/config"
	sharederrors "github.com/pvojtechovsky/sonarqube-repair/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "sonarqube-repair [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "sonarqube-repair fixes SonarQube findings in Java sources.",
		Long: `sonarqube-repair reads the issues SonarQube reported for a project, finds the
Java statements and fields they point at and rewrites them:
dead stores (S1854) are removed and non-serializable fields of serializable
classes (S1948) are marked transient.
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml when present)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(repaircmd.RepairCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		var cmdErr *sharederrors.CommandError
		if errors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return sharederrors.ExitInvalidArgs
	}
	return 0
}

func initConfig() error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigFile
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return sharederrors.NewCommandError(path, fmt.Errorf("initializing config file failed: %w", err), sharederrors.ExitInvalidArgs)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return sharederrors.NewCommandError(path, err, sharederrors.ExitInvalidArgs)
	}

	AppConfig = cfg
	version.Init(AppConfig)
	repaircmd.Init(AppConfig)
	return nil
}
