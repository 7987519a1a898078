package javasrc

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pvojtechovsky/sonarqube-repair/internal/repair"
)

// node types that hold statements
var blockTypes = map[string]bool{
	"block":                        true,
	"constructor_body":             true,
	"switch_block_statement_group": true,
}

// ref is the handle stored in repair.Element.Node.
type ref struct {
	file *File
	// stmt is the local_variable_declaration, expression_statement or field_declaration.
	stmt *sitter.Node
	// declarator is nil for assignments.
	declarator  *sitter.Node
	declarators int
}

func (r *ref) span() span {
	return span{start: r.stmt.StartByte(), end: r.stmt.EndByte()}
}

// Elements returns the candidate elements of the file, depth-first in document order.
func (f *File) Elements() []repair.Element {
	var out []repair.Element
	f.walk(f.root, &out)
	return out
}

func (f *File) walk(n *sitter.Node, out *[]repair.Element) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "local_variable_declaration":
		if inBlock(n) {
			f.declarations(n, repair.KindDeclaration, out)
		}
	case "field_declaration":
		f.declarations(n, repair.KindField, out)
	case "expression_statement":
		if inBlock(n) {
			if el, ok := f.assignment(n); ok {
				*out = append(*out, el)
			}
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		f.walk(n.NamedChild(i), out)
	}
}

func inBlock(n *sitter.Node) bool {
	p := n.Parent()
	return p != nil && blockTypes[p.Type()]
}

func (f *File) declarations(n *sitter.Node, kind repair.Kind, out *[]repair.Element) {
	decls := declarators(n)
	for _, d := range decls {
		name := d.ChildByFieldName("name")
		if name == nil {
			continue
		}
		*out = append(*out, repair.Element{
			Kind: kind,
			Name: name.Content(f.src),
			File: f.path,
			Line: line(name),
			Node: &ref{file: f, stmt: n, declarator: d, declarators: len(decls)},
		})
	}
}

func (f *File) assignment(n *sitter.Node) (repair.Element, bool) {
	if n.NamedChildCount() != 1 {
		return repair.Element{}, false
	}
	expr := n.NamedChild(0)
	if expr.Type() != "assignment_expression" {
		return repair.Element{}, false
	}
	left := expr.ChildByFieldName("left")
	if left == nil {
		return repair.Element{}, false
	}
	return repair.Element{
		Kind:   repair.KindAssignment,
		Target: strings.Join(strings.Fields(left.Content(f.src)), ""),
		File:   f.path,
		Line:   line(n),
		Node:   &ref{file: f, stmt: n},
	}, true
}

func declarators(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "variable_declarator" {
			out = append(out, c)
		}
	}
	return out
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
