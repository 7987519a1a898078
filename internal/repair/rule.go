package repair

import (
	"fmt"

	"github.com/pvojtechovsky/sonarqube-repair/internal/matcher"
)

// Tree is the mutable source tree rules edit. Implementations must fail rather
// than apply a partial edit.
type Tree interface {
	// InsertAfter adds statement as a new sibling right after el.
	InsertAfter(el Element, statement string) error
	// Remove detaches el from its enclosing block.
	Remove(el Element) error
	// AddModifier adds modifier to el's declaration. Adding a modifier that is
	// already present is a no-op.
	AddModifier(el Element, modifier string) error
	// AttachComment attaches comment to el.
	AttachComment(el Element, comment string) error
}

// Rule is the predicate/action pair implementing the fix for one SonarQube rule.
type Rule interface {
	// Key is the SonarQube rule number, e.g. "S1854".
	Key() string
	// Title is the SonarQube rule name.
	Title() string
	// Accepts reports whether the rule handles elements of kind.
	Accepts(kind Kind) bool
	// Match is the predicate. It has no side effects.
	Match(el Element) (MatchResult, bool)
	// Apply is the action. It must only be called with the result of a
	// successful Match on the same element.
	Apply(tree Tree, el Element, m MatchResult) error
}

// Rule numbers of the supported rules.
const (
	DeadStoreKey         = "S1854"
	SerializableFieldKey = "S1948"
)

// Title returns the SonarQube rule name of a supported rule number, or "" for others.
func Title(key string) string {
	switch key {
	case DeadStoreKey:
		return "Dead stores should be removed"
	case SerializableFieldKey:
		return `Fields in a "Serializable" class should either be transient or serializable`
	default:
		return ""
	}
}

// NewRule returns the rule registered under key.
func NewRule(key string, m *matcher.Matcher) (Rule, error) {
	switch key {
	case DeadStoreKey:
		return NewDeadStoreRule(m), nil
	case SerializableFieldKey:
		return NewSerializableFieldRule(m), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, key)
	}
}

// SupportedRules lists the rule numbers NewRule accepts.
func SupportedRules() []string {
	return []string{DeadStoreKey, SerializableFieldKey}
}

// match runs the matcher for el when the rule accepts its kind.
func match(r Rule, m *matcher.Matcher, el Element) (MatchResult, bool) {
	if m == nil || !r.Accepts(el.Kind) {
		return MatchResult{}, false
	}
	name := CandidateName(el)
	f, ok := m.Match(name, el.BareFile(), el.Line)
	if !ok {
		return MatchResult{}, false
	}
	return MatchResult{Finding: f, CandidateName: name}, true
}
