package repair

import (
	"fmt"

	"github.com/pvojtechovsky/sonarqube-repair/internal/matcher"
)

const (
	transientModifier     = "transient"
	serializableFieldNote = `/* sonarqube-repair: S1948 fields in a "Serializable" class should either be transient or serializable */`
)

// SerializableFieldRule marks non-serializable fields of serializable classes transient.
type SerializableFieldRule struct {
	matcher *matcher.Matcher
}

func NewSerializableFieldRule(m *matcher.Matcher) *SerializableFieldRule {
	return &SerializableFieldRule{matcher: m}
}

func (r *SerializableFieldRule) Key() string { return SerializableFieldKey }

func (r *SerializableFieldRule) Title() string { return Title(SerializableFieldKey) }

func (r *SerializableFieldRule) Accepts(kind Kind) bool {
	return kind == KindField
}

func (r *SerializableFieldRule) Match(el Element) (MatchResult, bool) {
	return match(r, r.matcher, el)
}

// Apply adds the transient modifier and a block comment. The field stays in place.
func (r *SerializableFieldRule) Apply(tree Tree, el Element, m MatchResult) error {
	if m.Finding == nil {
		return ErrNoMatch
	}
	if err := tree.AddModifier(el, transientModifier); err != nil {
		return fmt.Errorf("S1948: make field %q transient: %w", m.CandidateName, err)
	}
	if err := tree.AttachComment(el, serializableFieldNote); err != nil {
		return fmt.Errorf("S1948: comment field %q: %w", m.CandidateName, err)
	}
	return nil
}
