package repair

import "errors"

var (
	ErrUnknownRule = errors.New("unknown repair rule")
	ErrNoMatch     = errors.New("action invoked without a match")
	ErrNoRules     = errors.New("no repair rules configured")
)
