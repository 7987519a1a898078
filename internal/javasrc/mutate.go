package javasrc

import (
	"fmt"

	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
)

// InsertAfter stages statement on a new line after el's statement, with the
// same indentation. A trailing line comment stays on the statement's line.
func (f *File) InsertAfter(el repair.Element, statement string) error {
	r, err := f.resolve(el)
	if err != nil {
		return err
	}
	s := r.span()
	at := f.tail(s)
	f.stage(edit{start: at, end: at, text: "\n" + f.indent(s.start) + statement})
	return nil
}

// Remove stages the removal of el's statement. A statement alone on its line
// takes the line with it, trailing line comment included.
func (f *File) Remove(el repair.Element) error {
	r, err := f.resolve(el)
	if err != nil {
		return err
	}
	if r.declarators > 1 {
		return fmt.Errorf("%w: cannot remove one of %d declarators", ErrUnsupported, r.declarators)
	}

	s := r.span()
	start, end := s.start, s.end
	if ls := f.lineStart(s.start); ls > 0 && f.aloneOnLine(s) {
		start, end = ls-1, f.tail(s)
	}
	f.stage(edit{start: start, end: end})
	f.removed = append(f.removed, s)
	return nil
}

// AddModifier stages modifier in front of the declared type of el. Modifiers
// already in the source or already staged are not added again.
func (f *File) AddModifier(el repair.Element, modifier string) error {
	r, err := f.resolve(el)
	if err != nil {
		return err
	}
	typ := r.stmt.ChildByFieldName("type")
	if r.declarator == nil || typ == nil {
		return fmt.Errorf("%w: %s has no declared type", ErrUnsupported, el.Kind)
	}
	for _, m := range f.modifiersOf(r) {
		if m == modifier {
			return nil
		}
	}

	key := r.stmt.StartByte()
	f.modifiers[key] = append(f.modifiers[key], modifier)
	f.stage(edit{start: typ.StartByte(), end: typ.StartByte(), text: modifier + " "})
	return nil
}

// AttachComment stages comment on its own line above el's statement. A
// statement gets each distinct comment once, however many of its declarators
// ask for it.
func (f *File) AttachComment(el repair.Element, comment string) error {
	r, err := f.resolve(el)
	if err != nil {
		return err
	}
	key := r.stmt.StartByte()
	for _, c := range f.comments[key] {
		if c == comment {
			return nil
		}
	}
	f.comments[key] = append(f.comments[key], comment)

	s := r.span()
	ls := f.lineStart(s.start)
	f.stage(edit{start: ls, end: ls, text: f.indent(s.start) + comment + "\n", lead: true})
	return nil
}

// Modifiers returns the modifier keywords of el's declaration, staged ones
// included. Annotations are not reported.
func (f *File) Modifiers(el repair.Element) ([]string, error) {
	r, err := f.resolve(el)
	if err != nil {
		return nil, err
	}
	return f.modifiersOf(r), nil
}

func (f *File) modifiersOf(r *ref) []string {
	var out []string
	for i := 0; i < int(r.stmt.NamedChildCount()); i++ {
		mods := r.stmt.NamedChild(i)
		if mods.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(mods.ChildCount()); j++ {
			if c := mods.Child(j); !c.IsNamed() {
				out = append(out, c.Type())
			}
		}
	}
	return append(out, f.modifiers[r.stmt.StartByte()]...)
}

func (f *File) resolve(el repair.Element) (*ref, error) {
	r, ok := el.Node.(*ref)
	if !ok || r == nil || r.file != f {
		return nil, fmt.Errorf("%w: %s:%d", ErrForeignElement, el.File, el.Line)
	}
	s := r.span()
	for _, rm := range f.removed {
		if rm.contains(s) {
			return nil, fmt.Errorf("%w: %s at line %d", ErrDetached, el.Kind, el.Line)
		}
	}
	return r, nil
}

// lineStart is the offset of the first byte of the line holding off.
func (f *File) lineStart(off uint32) uint32 {
	for off > 0 && f.src[off-1] != '\n' {
		off--
	}
	return off
}

// indent is the leading whitespace of the line holding off.
func (f *File) indent(off uint32) string {
	ls := f.lineStart(off)
	end := ls
	for end < uint32(len(f.src)) && isBlank(f.src[end]) {
		end++
	}
	return string(f.src[ls:end])
}

// tail is the end of s extended over a trailing line comment, if any.
func (f *File) tail(s span) uint32 {
	n := uint32(len(f.src))
	i := s.end
	for i < n && isBlank(f.src[i]) {
		i++
	}
	if i+1 >= n || f.src[i] != '/' || f.src[i+1] != '/' {
		return s.end
	}
	for i < n && f.src[i] != '\n' {
		i++
	}
	if i > s.end && f.src[i-1] == '\r' {
		i--
	}
	return i
}

func (f *File) aloneOnLine(s span) bool {
	for i := f.lineStart(s.start); i < s.start; i++ {
		if !isBlank(f.src[i]) {
			return false
		}
	}
	for i := f.tail(s); i < uint32(len(f.src)) && f.src[i] != '\n'; i++ {
		if !isBlank(f.src[i]) && f.src[i] != '\r' {
			return false
		}
	}
	return true
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

var _ repair.Tree = (*File)(nil)
