package repair

import (
	"fmt"

	"github.com/pvojtechovsky/sonarqube-repair/internal/matcher"
)

const deadStoreNote = "// sonarqube-repair: S1854 dead store removed, useless assignment to %s"

// DeadStoreRule removes local variable declarations and assignments whose value is never read.
type DeadStoreRule struct {
	matcher *matcher.Matcher
}

func NewDeadStoreRule(m *matcher.Matcher) *DeadStoreRule {
	return &DeadStoreRule{matcher: m}
}

func (r *DeadStoreRule) Key() string { return DeadStoreKey }

func (r *DeadStoreRule) Title() string { return Title(DeadStoreKey) }

func (r *DeadStoreRule) Accepts(kind Kind) bool {
	return kind == KindDeclaration || kind == KindAssignment
}

func (r *DeadStoreRule) Match(el Element) (MatchResult, bool) {
	return match(r, r.matcher, el)
}

// Apply leaves a one-line note in place of the statement and removes it.
// The note is inserted first because its position is anchored to the statement.
func (r *DeadStoreRule) Apply(tree Tree, el Element, m MatchResult) error {
	if m.Finding == nil {
		return ErrNoMatch
	}
	if err := tree.InsertAfter(el, fmt.Sprintf(deadStoreNote, m.CandidateName)); err != nil {
		return fmt.Errorf("S1854: insert note after %s %q: %w", el.Kind, m.CandidateName, err)
	}
	if err := tree.Remove(el); err != nil {
		return fmt.Errorf("S1854: remove %s %q: %w", el.Kind, m.CandidateName, err)
	}
	return nil
}
