package schema

import "context"

// Category groups skills in help listings. It never affects dispatch.
type Category string

const (
	CategoryCore      Category = "core"
	CategoryExtension Category = "extension"
)

// Descriptor holds the declared metadata of a single skill.
type Descriptor struct {
	Keyword      string   // unique trigger token
	Description  string   // one-line summary for help listings
	Usage        string   // example invocation; equal to Keyword for argument-less skills
	Example      string   // optional multi-line examples
	NeedsMention bool     // prefix the reply with a mention of the sender
	Category     Category // set by the registry at registration time

	// Extra carries skill-specific metadata fields.
	Extra map[string]string
}

// ArgumentLess reports whether the skill only matches the whole message.
func (d Descriptor) ArgumentLess() bool {
	return d.Usage == d.Keyword
}

// Complete reports whether the descriptor exposes the full metadata contract.
func (d Descriptor) Complete() bool {
	return d.Keyword != "" && d.Description != "" && d.Usage != ""
}

// Request is the keyed request bundle handed to a skill.
type Request struct {
	SenderID string   // who sent the message
	Args     []string // whitespace-tokenised ArgsText
	ArgsText string   // message with the keyword stripped, trimmed
	Message  string   // the full inbound text
}

// Skill is the capability every invocable command implements.
type Skill interface {
	// Info returns the skill's metadata.
	Info() Descriptor
	// Execute runs the skill and returns its raw reply text.
	Execute(ctx context.Context, req Request) (string, error)
}

// ArgsFunc is the positional-arguments form of a skill entry point.
type ArgsFunc func(ctx context.Context, args []string) (string, error)

// RequestFunc is the keyed-request form of a skill entry point.
type RequestFunc func(ctx context.Context, req Request) (string, error)

type funcSkill struct {
	info Descriptor
	run  RequestFunc
}

func (s funcSkill) Info() Descriptor { return s.info }

func (s funcSkill) Execute(ctx context.Context, req Request) (string, error) {
	return s.run(ctx, req)
}

// NewArgsSkill adapts a positional-arguments entry point to Skill.
func NewArgsSkill(info Descriptor, fn ArgsFunc) Skill {
	return funcSkill{info: info, run: func(ctx context.Context, req Request) (string, error) {
		return fn(ctx, req.Args)
	}}
}

// NewRequestSkill adapts a keyed-request entry point to Skill.
func NewRequestSkill(info Descriptor, fn RequestFunc) Skill {
	return funcSkill{info: info, run: fn}
}
