// Package javasrc is the mutable Java source tree repairs are applied to.
//
// Files are parsed with tree-sitter. Mutations never touch the syntax tree:
// they are staged as byte edits against the original source and applied by
// Render, so untouched code keeps its exact formatting.
package javasrc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// File is one parsed Java compilation unit. It is not safe for concurrent use.
type File struct {
	path string
	src  []byte
	root *sitter.Node

	edits   []edit
	removed []span
	// staged modifiers keyed by the start byte of their declaration
	modifiers map[uint32][]string
	// attached comments, keyed the same way
	comments map[uint32][]string
}

type span struct {
	start, end uint32
}

func (s span) contains(o span) bool {
	return s.start <= o.start && o.end <= s.end
}

// Parse parses src as Java. path is recorded on every element the file yields.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &File{
		path:      path,
		src:       src,
		root:      tree.RootNode(),
		modifiers: make(map[uint32][]string),
		comments:  make(map[uint32][]string),
	}, nil
}

// ParseFile reads and parses the Java file at path.
func ParseFile(ctx context.Context, path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(ctx, path, src)
}

// Path is the path the file was parsed with.
func (f *File) Path() string { return f.path }

// HasSyntaxErrors reports whether tree-sitter had to recover from errors.
// Elements inside the broken region may be missing.
func (f *File) HasSyntaxErrors() bool { return f.root.HasError() }

// Changed reports whether any edit is staged.
func (f *File) Changed() bool { return len(f.edits) > 0 }

// Render returns the source with every staged edit applied.
func (f *File) Render() ([]byte, error) {
	edits := make([]edit, len(f.edits))
	copy(edits, f.edits)
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].less(edits[j]) })

	var out bytes.Buffer
	out.Grow(len(f.src))

	var cursor uint32
	for _, e := range edits {
		if e.start < cursor {
			return nil, fmt.Errorf("%w: edit at byte %d overlaps an edit ending at byte %d", ErrConflict, e.start, cursor)
		}
		out.Write(f.src[cursor:e.start])
		out.WriteString(e.text)
		cursor = e.end
	}
	out.Write(f.src[cursor:])
	return out.Bytes(), nil
}

// edit replaces src[start:end] with text. Inserts have start == end.
type edit struct {
	start, end uint32
	text       string
	// lead edits go before other inserts at the same offset
	lead bool
	seq  int
}

func (e edit) less(o edit) bool {
	if e.start != o.start {
		return e.start < o.start
	}
	if ei, oi := e.start == e.end, o.start == o.end; ei != oi {
		return ei
	}
	if e.lead != o.lead {
		return e.lead
	}
	return e.seq < o.seq
}

func (f *File) stage(e edit) {
	e.seq = len(f.edits)
	f.edits = append(f.edits, e)
}
