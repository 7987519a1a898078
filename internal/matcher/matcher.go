// Package matcher decides whether a source element corresponds to an indexed finding.
//
// SonarQube messages quote the offending identifier, as in
// `Remove this useless assignment to "x".`, so a message is split on the double
// quote character and the candidate name must equal one of the pieces. The
// heuristic misses unquoted identifiers and may match a coincidental token.
package matcher

import (
	"strings"

	"github.com/pvojtechovsky/sonarqube-repair/internal/findings"
)

// Tokens splits a finding message on the double quote character.
func Tokens(message string) []string {
	return strings.Split(message, `"`)
}

// Matcher looks up findings for candidate elements. It only reads the index and
// can be shared between goroutines.
type Matcher struct {
	index    *findings.Index
	tokenize func(string) []string
}

// New returns a Matcher over index.
func New(index *findings.Index) *Matcher {
	return &Matcher{index: index, tokenize: Tokens}
}

// Match returns the first finding, in record order, reported at (file, line)
// whose message quotes candidate. file is a bare file name.
func (m *Matcher) Match(candidate, file string, line int) (*findings.Finding, bool) {
	for _, f := range m.candidates(candidate, file, line) {
		if m.quotes(f, candidate) {
			return f, true
		}
	}
	return nil, false
}

// MatchAll returns every finding at (file, line) whose message quotes candidate.
func (m *Matcher) MatchAll(candidate, file string, line int) []*findings.Finding {
	var out []*findings.Finding
	for _, f := range m.candidates(candidate, file, line) {
		if m.quotes(f, candidate) {
			out = append(out, f)
		}
	}
	return out
}

func (m *Matcher) candidates(candidate, file string, line int) []*findings.Finding {
	if candidate == "" || m.index == nil {
		return nil
	}
	if !m.index.HasLine(line) || !m.index.HasFile(file) {
		return nil
	}
	return m.index.FindingsAt(file, line)
}

func (m *Matcher) quotes(f *findings.Finding, candidate string) bool {
	for _, token := range m.tokenize(f.Message()) {
		if token == candidate {
			return true
		}
	}
	return false
}
