package dispatch

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbox/skillbox/internal/schema"
)

// helpFlags bypass invocation and return the skill's usage instead.
var helpFlags = []string{"--help", "-h"}

// Request is derived once per inbound message and discarded after the reply.
type Request struct {
	ID       string
	RawText  string
	Keyword  string // empty when the message had no text
	Matched  bool   // Keyword came from the keyword scan, not the first-token fallback
	ArgsText string
	Args     []string
	SenderID string
}

func newRequest(senderID, raw string) Request {
	return Request{
		ID:       uuid.NewString(),
		RawText:  raw,
		SenderID: senderID,
	}
}

// WantsHelp reports whether the arguments carry a help flag.
func (r Request) WantsHelp() bool {
	return slices.ContainsFunc(r.Args, func(a string) bool {
		return slices.Contains(helpFlags, strings.ToLower(a))
	})
}

// SkillRequest is the keyed bundle handed to the skill.
func (r Request) SkillRequest() schema.Request {
	return schema.Request{
		SenderID: r.SenderID,
		Args:     r.Args,
		ArgsText: r.ArgsText,
		Message:  r.RawText,
	}
}
