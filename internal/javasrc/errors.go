package javasrc

import "errors"

var (
	// ErrDetached is returned when mutating an element that was removed,
	// or lies inside a removed statement.
	ErrDetached = errors.New("element was removed from its tree")
	// ErrForeignElement is returned for elements that were not yielded by the file.
	ErrForeignElement = errors.New("element does not belong to this file")
	// ErrUnsupported is returned for edits the tree cannot express on the element.
	ErrUnsupported = errors.New("unsupported edit")
	// ErrConflict is returned by Render when staged edits overlap.
	ErrConflict = errors.New("conflicting edits")
)
