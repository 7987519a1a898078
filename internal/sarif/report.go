// Package sarif renders the repairs of a run as a SARIF 2.1.0 report.
package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/files"
)

const (
	ToolName           = "sonarqube-repair"
	ToolInformationURI = "https://github.com/pvojtechovsky/sonarqube-repair"

	ruleHelpURL = "https://rules.sonarsource.com/java/RSPEC-%s"
	levelNote   = "note"
)

// Report is a SARIF log with one run listing applied repairs.
type Report struct {
	*sarif.Report
}

// BuildReport creates a report with one note result per applied repair.
// Rules appear once each, in first-use order.
func BuildReport(outcomes []repair.Outcome, toolVersion string) (*Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	if toolVersion != "" {
		run.Tool.Driver.SemanticVersion = &toolVersion
	}

	title := cases.Title(language.Und)
	for _, outcome := range outcomes {
		for _, applied := range outcome.Applied {
			rule := run.AddRule(applied.RuleKey).
				WithDescription(repair.Title(applied.RuleKey))
			rule.Properties = sarif.Properties{
				"helpUri": fmt.Sprintf(ruleHelpURL, strings.TrimPrefix(applied.RuleKey, "S")),
			}

			el := applied.Element
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filepath.ToSlash(el.File))).
					WithRegion(sarif.NewRegion().WithStartLine(el.Line)),
			)

			message := applied.RuleKey
			if applied.Match.Finding != nil {
				message = applied.Match.Finding.Message()
			}
			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(message)).
				WithLevel(levelNote).
				WithLocations([]*sarif.Location{location})
			result.Properties = sarif.Properties{
				"Kind":      title.String(el.Kind.String()),
				"Candidate": applied.Match.CandidateName,
				"RunID":     outcome.RunID,
			}
			if applied.Match.Finding != nil {
				result.Properties["FindingKey"] = applied.Match.Finding.Key()
			}
			run.AddResult(result)
		}
	}
	report.AddRun(run)

	return &Report{Report: report}, nil
}

// WriteReport writes report to path, creating parent folders as needed.
func WriteReport(path string, report *Report) error {
	if report == nil || report.Report == nil {
		return fmt.Errorf("no report to write")
	}
	if err := files.CreateFolderIfNotExists(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	defer func() { _ = file.Close() }()

	return report.PrettyWrite(file)
}

// ReadReport reads a SARIF report from path.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report sarif.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse SARIF report %s: %w", path, err)
	}
	return &Report{Report: &report}, nil
}

// CountByRule returns the number of results per rule ID.
func (r Report) CountByRule() map[string]int {
	counts := map[string]int{}
	for _, run := range r.Runs {
		for _, result := range run.Results {
			if result.RuleID != nil {
				counts[*result.RuleID]++
			}
		}
	}
	return counts
}

// RuleIDs returns the IDs of the rules declared by the report, sorted.
func (r Report) RuleIDs() []string {
	var ids []string
	for _, run := range r.Runs {
		if run.Tool.Driver == nil {
			continue
		}
		for _, rule := range run.Tool.Driver.Rules {
			ids = append(ids, rule.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
