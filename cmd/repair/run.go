package repaircmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/pvojtechovsky/sonarqube-repair/cmd/version"
	"github.com/pvojtechovsky/sonarqube-repair/internal/findings"
	"github.com/pvojtechovsky/sonarqube-repair/internal/javasrc"
	"github.com/pvojtechovsky/sonarqube-repair/internal/matcher"
	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
	"github.com/pvojtechovsky/sonarqube-repair/internal/sarif"
	"github.com/pvojtechovsky/sonarqube-repair/internal/sonar"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/config"
	sharederrors "github.com/pvojtechovsky/sonarqube-repair/pkg/shared/errors"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/files"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/httpclient"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/logger"
)

var javaExtensions = []string{"java"}

// Summary is what a repair run did.
type Summary struct {
	RunID    string
	Files    int
	Changed  []string
	Outcomes []repair.Outcome
	// rule numbers whose finding source held no records at all, as opposed
	// to an empty list of findings
	NoRecords []string
}

// Applied returns the number of repairs per rule number.
func (s *Summary) Applied() map[string]int {
	counts := map[string]int{}
	for _, o := range s.Outcomes {
		for _, a := range o.Applied {
			counts[a.RuleKey]++
		}
	}
	return counts
}

// Run loads findings for every rule of o, repairs the Java files under
// o.SourceFolder and writes the results. o must have been validated.
func Run(ctx context.Context, cfg *config.Config, o RunOptions, lg hclog.Logger) (*Summary, error) {
	lg = logger.OrNull(lg)

	rules, noRecords, err := loadRules(ctx, cfg, o, lg)
	if err != nil {
		return nil, err
	}
	summary := &Summary{NoRecords: noRecords}
	if len(rules) == 0 {
		lg.Warn("no findings to repair", "rules", o.Rules)
		return summary, writeSarif(o, summary, lg)
	}

	session, err := repair.NewSession(lg.Named("session"), rules...)
	if err != nil {
		return nil, err
	}
	summary.RunID = session.ID()

	paths, err := files.FindByExt(o.SourceFolder, javaExtensions)
	if err != nil {
		return nil, fmt.Errorf("list java sources: %w", err)
	}
	lg.Info("repairing java sources", "run", session.ID(), "files", len(paths), "rules", len(rules))

	for _, path := range paths {
		changed, outcome, err := repairFile(ctx, session, o, path, lg)
		if err != nil {
			return nil, err
		}
		summary.Files++
		if len(outcome.Applied) > 0 {
			summary.Outcomes = append(summary.Outcomes, outcome)
		}
		if changed {
			summary.Changed = append(summary.Changed, path)
		}
	}

	return summary, writeSarif(o, summary, lg)
}

// loadRules builds one rule per requested rule number. Rules without any
// finding are left out; the ones whose source held no records are also
// returned by number.
func loadRules(ctx context.Context, cfg *config.Config, o RunOptions, lg hclog.Logger) ([]repair.Rule, []string, error) {
	records, err := fetchRecords(ctx, cfg, o, lg)
	if err != nil {
		return nil, nil, err
	}

	var (
		rules     []repair.Rule
		noRecords []string
	)
	for i, number := range o.Rules {
		idx, err := findings.Build(records[i], lg.Named("findings").With("rule", number))
		if errors.Is(err, findings.ErrNoRecords) {
			lg.Warn("no finding records, skipping rule", "rule", number)
			noRecords = append(noRecords, number)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("index findings of %s: %w", number, err)
		}
		if idx.Len() == 0 {
			lg.Info("no findings for rule", "rule", number, "skipped", idx.Skipped())
			continue
		}

		rule, err := repair.NewRule(number, matcher.New(idx))
		if err != nil {
			return nil, nil, err
		}
		lg.Debug("rule ready", "rule", number, "findings", idx.Len())
		rules = append(rules, rule)
	}
	return rules, noRecords, nil
}

// fetchRecords returns the raw records of every rule in o.Rules, in order.
func fetchRecords(ctx context.Context, cfg *config.Config, o RunOptions, lg hclog.Logger) ([][]json.RawMessage, error) {
	records := make([][]json.RawMessage, len(o.Rules))

	if o.FindingsPath != "" {
		all, err := sonar.LoadRecords(o.FindingsPath)
		if err != nil {
			return nil, err
		}
		for i, number := range o.Rules {
			records[i] = sonar.FilterByRule(all, number)
		}
		return records, nil
	}

	var sonarCfg config.Sonar
	if cfg != nil {
		sonarCfg = cfg.Sonar
	}
	client := sonar.New(config.SonarURL(cfg), sonarCfg.Token, httpclient.InitializeRestyClient(lg.Named("http"), cfg), lg.Named("sonar")).
		SetPageSize(config.PageSize(cfg))

	errs := make([]error, len(o.Rules))
	shared.ForEachBounded(len(o.Rules), len(o.Rules), func(i int) {
		key := sonar.RuleKey(config.RuleRepository(cfg), o.Rules[i])
		records[i], errs[i] = client.Fetch(ctx, key, sonarCfg.Filter, o.ProjectKey)
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return records, nil
}

func repairFile(ctx context.Context, session *repair.Session, o RunOptions, path string, lg hclog.Logger) (bool, repair.Outcome, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, repair.Outcome{}, fmt.Errorf("read %s: %w", path, err)
	}

	rel, err := filepath.Rel(o.SourceFolder, path)
	if err != nil {
		rel = path
	}
	file, err := javasrc.Parse(ctx, filepath.ToSlash(rel), src)
	if err != nil {
		return false, repair.Outcome{}, err
	}
	if file.HasSyntaxErrors() {
		lg.Warn("java file has syntax errors, some elements may be missed", "file", rel)
	}

	outcome, err := session.Run(ctx, file, file.Elements())
	if err != nil {
		return false, outcome, fmt.Errorf("repair %s: %w", rel, err)
	}
	if !file.Changed() {
		return false, outcome, nil
	}

	rendered, err := file.Render()
	if err != nil {
		return false, outcome, fmt.Errorf("render %s: %w", rel, err)
	}
	if o.DryRun {
		lg.Info("repairs computed", "file", rel, "count", len(outcome.Applied))
		return true, outcome, nil
	}

	target, err := files.MirrorPath(o.SourceFolder, o.OutputFolder, path)
	if err != nil {
		return false, outcome, err
	}
	if err := files.WriteFile(target, rendered); err != nil {
		return false, outcome, fmt.Errorf("write %s: %w", target, err)
	}
	lg.Info("repairs written", "file", rel, "target", target, "count", len(outcome.Applied))
	return true, outcome, nil
}

func writeSarif(o RunOptions, summary *Summary, lg hclog.Logger) error {
	if o.SarifPath == "" {
		return nil
	}
	report, err := sarif.BuildReport(summary.Outcomes, version.CoreVersion)
	if err != nil {
		return err
	}
	if err := sarif.WriteReport(o.SarifPath, report); err != nil {
		return fmt.Errorf("write SARIF report: %w", err)
	}
	lg.Info("SARIF report written", "path", o.SarifPath)
	return nil
}

func printSummary(w io.Writer, s *Summary, dryRun bool) {
	applied := s.Applied()
	verb := "Repaired"
	if dryRun {
		verb = "Would repair"
	}
	fmt.Fprintf(w, "%s %d file(s) out of %d\n", verb, len(s.Changed), s.Files)
	for _, key := range repair.SupportedRules() {
		if n, ok := applied[key]; ok {
			fmt.Fprintf(w, "  %s %s: %d\n", key, repair.Title(key), n)
		}
	}
	for _, number := range s.NoRecords {
		fmt.Fprintf(w, "No finding records for %s\n", number)
	}
}

// checkRecords turns a run where some rule had no finding records into a
// CommandError so the exit status tells it apart from a run with no findings.
func checkRecords(o RunOptions, s *Summary) error {
	if len(s.NoRecords) == 0 {
		return nil
	}
	return sharederrors.NewCommandError(o, fmt.Errorf("%w for %v", findings.ErrNoRecords, s.NoRecords), sharederrors.ExitNoRecords)
}
