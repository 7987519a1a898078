package repair

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	sharedlog "github.com/pvojtechovsky/sonarqube-repair/pkg/shared/logger"
)

// Applied records one repair a session performed.
type Applied struct {
	RuleKey string
	Element Element
	Match   MatchResult
}

// Outcome summarizes one Run.
type Outcome struct {
	RunID   string
	Visited int
	Applied []Applied
}

// Session offers the elements of a tree to the configured rules. Rules keep no
// per-element state, so a Session may run several trees, one after the other
// or concurrently, as long as each tree is only touched by one Run at a time.
type Session struct {
	id     string
	logger hclog.Logger
	rules  []Rule
}

// NewSession creates a session over rules. Every element is offered to the
// first rule that accepts its kind.
func NewSession(logger hclog.Logger, rules ...Rule) (*Session, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	logger = sharedlog.OrNull(logger)
	id := uuid.NewString()
	return &Session{
		id:     id,
		logger: logger.With("run", id),
		rules:  rules,
	}, nil
}

// ID identifies the session in logs and reports.
func (s *Session) ID() string { return s.id }

// Rules returns the session's rules in priority order.
func (s *Session) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Run visits elements in order. A failing action stops the run: the tree may
// then hold staged edits for earlier elements and must not be rendered.
func (s *Session) Run(ctx context.Context, tree Tree, elements []Element) (Outcome, error) {
	out := Outcome{RunID: s.id}
	for _, el := range elements {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		rule := s.ruleFor(el.Kind)
		if rule == nil {
			continue
		}
		out.Visited++

		m, ok := rule.Match(el)
		if !ok {
			continue
		}
		if err := rule.Apply(tree, el, m); err != nil {
			return out, fmt.Errorf("%s:%d: %w", el.BareFile(), el.Line, err)
		}

		s.logger.Info("repair applied", "rule", rule.Key(), "file", el.BareFile(), "line", el.Line, "kind", el.Kind, "name", m.CandidateName)
		s.logger.Trace("matched finding", "key", m.Finding.Key(), "message", m.Finding.Message())
		for _, loc := range m.Finding.FirstFlowLocations() {
			s.logger.Trace("flow location", "key", m.Finding.Key(), "file", loc.File(), "line", loc.TextRange.StartLine, "message", loc.Message)
		}
		out.Applied = append(out.Applied, Applied{RuleKey: rule.Key(), Element: el, Match: m})
	}
	return out, nil
}

func (s *Session) ruleFor(kind Kind) Rule {
	for _, r := range s.rules {
		if r.Accepts(kind) {
			return r
		}
	}
	return nil
}
