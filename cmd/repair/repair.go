package repaircmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/config"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/errors"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/logger"
)

// RunOptions holds flags for the repair command.
type RunOptions struct {
	ProjectKey   string   `json:"project_key,omitempty"`
	Rules        []string `json:"rules,omitempty"`
	FindingsPath string   `json:"findings_path,omitempty"`
	SourceFolder string   `json:"source_folder,omitempty"`
	OutputFolder string   `json:"output_folder,omitempty"`
	SarifPath    string   `json:"sarif_path,omitempty"`
	DryRun       bool     `json:"dry_run,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	exampleRepairUsage = `  # Repair every supported rule of a SonarCloud project in place
  SONAR_TOKEN=squ_xxx sonarqube-repair repair --project-key fr.inria.gforge.spoon:spoon-core --source-folder ./spoon

  # Only remove dead stores and write repaired files to another folder
  sonarqube-repair repair --project-key my:project --rules S1854 --source-folder ./src --output-folder ./repaired

  # Use a saved issues search response instead of the web API
  sonarqube-repair repair --findings issues.json --source-folder ./src --dry-run --sarif repairs.sarif`

	// RepairCmd applies fixes for SonarQube findings to Java sources.
	RepairCmd = &cobra.Command{
		Use:                   "repair [--project-key KEY] [--rules S1854,S1948] [--findings PATH] [--source-folder PATH] [--output-folder PATH] [--sarif PATH] [--dry-run]",
		Short:                 "Repair SonarQube findings in Java sources",
		Example:               exampleRepairUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runRepair,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runRepair(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) && (AppConfig == nil || AppConfig.Sonar.ProjectKey == "") {
		return cmd.Help()
	}

	lg := logger.NewLogger(AppConfig, "repair")

	ApplyConfigFallbacks(&opts, AppConfig)
	if err := validate(&opts); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, fmt.Errorf("invalid arguments: %w", err), errors.ExitInvalidArgs)
	}

	summary, err := Run(cmd.Context(), AppConfig, opts, lg)
	if err != nil {
		lg.Error("repair failed", "error", err)
		return errors.NewCommandError(opts, err, errors.ExitFailure)
	}

	printSummary(cmd.OutOrStdout(), summary, opts.DryRun)
	if err := checkRecords(opts, summary); err != nil {
		lg.Warn("rules without finding records", "rules", summary.NoRecords)
		return err
	}
	return nil
}

func init() {
	RepairCmd.Flags().StringVar(&opts.ProjectKey, "project-key", "", "SonarQube project key (defaults to sonar.project_key from config)")
	RepairCmd.Flags().StringSliceVar(&opts.Rules, "rules", nil, fmt.Sprintf("Rules to repair (repeat flag or use comma-separated values, default %v)", repair.SupportedRules()))
	RepairCmd.Flags().StringVar(&opts.FindingsPath, "findings", "", "Optional: read issues from a JSON file instead of the SonarQube web API")
	RepairCmd.Flags().StringVar(&opts.SourceFolder, "source-folder", "", "Folder holding the Java sources (default \".\")")
	RepairCmd.Flags().StringVar(&opts.OutputFolder, "output-folder", "", "Optional: write repaired files under this folder instead of in place")
	RepairCmd.Flags().StringVar(&opts.SarifPath, "sarif", "", "Optional: write a SARIF report of applied repairs to this path")
	RepairCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compute repairs without writing source files")
	RepairCmd.Flags().BoolP("help", "h", false, "Show help for repair command.")
}
