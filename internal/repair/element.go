package repair

import "github.com/pvojtechovsky/sonarqube-repair/internal/findings"

// Kind is the closed set of source elements rules can be offered.
type Kind int

const (
	KindDeclaration Kind = iota + 1 // local variable declaration
	KindAssignment                  // assignment statement
	KindField                       // field declaration
)

func (k Kind) String() string {
	switch k {
	case KindDeclaration:
		return "declaration"
	case KindAssignment:
		return "assignment"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// Element is a candidate source element as yielded by a tree walker.
type Element struct {
	Kind Kind
	// Name is the declared identifier. Empty for assignments.
	Name string
	// Target is the textual rendering of the assignment target, e.g. "this.count".
	// Empty for declarations and fields.
	Target string
	// File is the path of the enclosing file as known to the tree; rules only
	// look at its bare name.
	File string
	// Line is the 1-based line the element is reported at.
	Line int
	// Node is the tree's handle for the element. Rules never look inside it.
	Node any
}

// CandidateName is the text a finding message has to quote for el to match.
func CandidateName(el Element) string {
	switch el.Kind {
	case KindDeclaration, KindField:
		return el.Name
	case KindAssignment:
		return el.Target
	default:
		return ""
	}
}

// BareFile is the bare file name of the element's file.
func (el Element) BareFile() string {
	return findings.BareFileName(el.File)
}

// MatchResult carries what a rule's predicate selected over to its action.
type MatchResult struct {
	Finding       *findings.Finding
	CandidateName string
}
