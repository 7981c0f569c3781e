package dispatch

import "errors"

var (
	// ErrEmptyInput means the message had no usable text after trimming.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnresolvedKeyword means no registered skill claims the message.
	ErrUnresolvedKeyword = errors.New("unresolved keyword")
	// ErrDisabledFeature means the matched skill is administratively disabled.
	ErrDisabledFeature = errors.New("feature disabled")
	// ErrSkillInvocation wraps any failure raised while a skill ran.
	ErrSkillInvocation = errors.New("skill invocation failed")
)
