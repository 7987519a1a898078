package repair

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var errDetached = errors.New("element is not attached")

// fakeTree is a single block of statements plus per-declaration modifiers and comments.
// Element.Node holds the statement id.
type fakeTree struct {
	block     []fakeStmt
	modifiers map[string][]string
	comments  map[string][]string
	nextID    int
}

type fakeStmt struct {
	id   string
	text string
}

func newFakeTree(statements ...string) *fakeTree {
	t := &fakeTree{modifiers: map[string][]string{}, comments: map[string][]string{}}
	for _, s := range statements {
		t.block = append(t.block, fakeStmt{id: t.newID(), text: s})
	}
	return t
}

func (t *fakeTree) newID() string {
	t.nextID++
	return fmt.Sprintf("s%d", t.nextID)
}

func (t *fakeTree) position(el Element) int {
	id, _ := el.Node.(string)
	for i, s := range t.block {
		if s.id == id {
			return i
		}
	}
	return -1
}

func (t *fakeTree) InsertAfter(el Element, statement string) error {
	i := t.position(el)
	if i < 0 {
		return errDetached
	}
	stmt := fakeStmt{id: t.newID(), text: statement}
	t.block = append(t.block[:i+1], append([]fakeStmt{stmt}, t.block[i+1:]...)...)
	return nil
}

func (t *fakeTree) Remove(el Element) error {
	i := t.position(el)
	if i < 0 {
		return errDetached
	}
	t.block = append(t.block[:i], t.block[i+1:]...)
	return nil
}

func (t *fakeTree) AddModifier(el Element, modifier string) error {
	if t.position(el) < 0 {
		return errDetached
	}
	id := el.Node.(string)
	for _, m := range t.modifiers[id] {
		if m == modifier {
			return nil
		}
	}
	t.modifiers[id] = append(t.modifiers[id], modifier)
	return nil
}

func (t *fakeTree) AttachComment(el Element, comment string) error {
	if t.position(el) < 0 {
		return errDetached
	}
	id := el.Node.(string)
	t.comments[id] = append(t.comments[id], comment)
	return nil
}

// element builds an element for the i-th statement of the block.
func (t *fakeTree) element(i int, kind Kind, name, file string, line int) Element {
	el := Element{Kind: kind, File: file, Line: line, Node: t.block[i].id}
	if kind == KindAssignment {
		el.Target = name
	} else {
		el.Name = name
	}
	return el
}

func (t *fakeTree) texts() []string {
	out := make([]string, 0, len(t.block))
	for _, s := range t.block {
		out = append(out, s.text)
	}
	return out
}

func (t *fakeTree) snapshot() string {
	var b strings.Builder
	for _, s := range t.block {
		fmt.Fprintf(&b, "%s:%s;", s.id, s.text)
	}
	ids := make([]string, 0, len(t.modifiers))
	for id := range t.modifiers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "m:%s=%v;", id, t.modifiers[id])
	}
	for id, c := range t.comments {
		fmt.Fprintf(&b, "c:%s=%v;", id, c)
	}
	return b.String()
}
