package repaircmd

import (
	"fmt"
	"strings"

	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/config"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/files"
)

// ApplyConfigFallbacks fills unset options from the configuration.
func ApplyConfigFallbacks(o *RunOptions, cfg *config.Config) {
	if cfg != nil {
		o.ProjectKey = config.SetThen(o.ProjectKey, cfg.Sonar.ProjectKey)
		o.SourceFolder = config.SetThen(o.SourceFolder, cfg.Repair.SourceFolder)
		o.OutputFolder = config.SetThen(o.OutputFolder, cfg.Repair.OutputFolder)
		o.SarifPath = config.SetThen(o.SarifPath, cfg.Repair.SarifOutput)
		if len(o.Rules) == 0 {
			o.Rules = cfg.Repair.Rules
		}
	}
	if len(o.Rules) == 0 {
		o.Rules = repair.SupportedRules()
	}
	o.SourceFolder = config.SetThen(o.SourceFolder, ".")
}

// validate validates the RunOptions for the repair command.
func validate(o *RunOptions) error {
	if strings.TrimSpace(o.ProjectKey) == "" && strings.TrimSpace(o.FindingsPath) == "" {
		return fmt.Errorf("--project-key or --findings is required")
	}

	seen := make(map[string]bool, len(o.Rules))
	for _, rule := range o.Rules {
		if !isSupported(rule) {
			return fmt.Errorf("unsupported rule %q, supported rules are %v", rule, repair.SupportedRules())
		}
		if seen[rule] {
			return fmt.Errorf("rule %q is listed twice", rule)
		}
		seen[rule] = true
	}

	for _, p := range []*string{&o.FindingsPath, &o.SourceFolder, &o.OutputFolder, &o.SarifPath} {
		expanded, err := files.ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	if o.FindingsPath != "" {
		if err := files.ValidatePath(o.FindingsPath); err != nil {
			return fmt.Errorf("--findings: %w", err)
		}
	}
	if err := files.ValidateDir(o.SourceFolder); err != nil {
		return fmt.Errorf("--source-folder: %w", err)
	}
	return nil
}

func isSupported(rule string) bool {
	for _, key := range repair.SupportedRules() {
		if key == rule {
			return true
		}
	}
	return false
}
