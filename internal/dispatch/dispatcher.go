// Package dispatch turns one inbound chat message into at most one reply.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/shared/stringutils"
)

const (
	emptyInputReply = "请输入有效的消息内容"
	disabledReply   = "功能 '%s' 已被禁用"
	failureReply    = "执行功能时出错: %v"
)

// Skills is the registry surface the dispatcher needs.
type Skills interface {
	ListKeywords() []string
	Describe(keyword string) (schema.Descriptor, error)
	Resolve(keyword string) (schema.Skill, error)
}

// FeatureState reports administratively disabled keywords.
type FeatureState interface {
	IsDisabled(keyword string) bool
}

// Normalizer converts raw skill output to reply parts.
type Normalizer interface {
	Normalize(raw, senderID string, needsMention bool) []schema.ContentPart
}

// HelpRenderer renders a single skill's usage.
type HelpRenderer interface {
	DescribeOne(keyword string) (string, error)
}

// Result is the outcome of one dispatch.
type Result struct {
	Request Request
	// Path is the branch taken after matching: Disabled, Dropped,
	// HelpRequested or Invoking. Empty input is reported as Matching.
	Path  State
	State State // terminal: Dropped or Replied
	Parts []schema.ContentPart
	// Err classifies the outcome for logs and tests; nil on a normal reply.
	Err error
}

// Replied reports whether a reply should be delivered.
func (r Result) Replied() bool { return r.State == StateReplied }

// Dispatcher matches messages against the registry and runs skills.
// It is safe for concurrent use.
type Dispatcher struct {
	skills     Skills
	features   FeatureState
	normalizer Normalizer
	help       HelpRenderer
}

func NewDispatcher(skills Skills, features FeatureState, normalizer Normalizer, help HelpRenderer) *Dispatcher {
	return &Dispatcher{
		skills:     skills,
		features:   features,
		normalizer: normalizer,
		help:       help,
	}
}

// Dispatch processes one inbound message. It never returns an error and
// never panics on skill failure; see Result.Err for the classification.
func (d *Dispatcher) Dispatch(ctx context.Context, senderID, text string) Result {
	req := newRequest(senderID, text)
	res := d.dispatch(ctx, req)

	slog.Info("Dispatch",
		"id", res.Request.ID,
		"sender", senderID,
		"keyword", res.Request.Keyword,
		"path", res.Path,
		"state", res.State,
		"err", res.Err,
	)
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) Result {
	text := strings.TrimSpace(req.RawText)
	if text == "" {
		return d.reply(req, StateMatching, []schema.ContentPart{schema.TextPart(emptyInputReply)}, ErrEmptyInput)
	}

	d.resolveKeyword(&req, text)

	desc, err := d.skills.Describe(req.Keyword)
	if err != nil {
		return dropped(req, fmt.Errorf("%w: %q", ErrUnresolvedKeyword, req.Keyword))
	}

	if d.features != nil && d.features.IsDisabled(req.Keyword) {
		msg := fmt.Sprintf(disabledReply, req.Keyword)
		return d.reply(req, StateDisabled, []schema.ContentPart{schema.TextPart(msg)}, ErrDisabledFeature)
	}

	if req.WantsHelp() {
		return d.describe(req)
	}

	skill, err := d.skills.Resolve(req.Keyword)
	if err != nil {
		return dropped(req, fmt.Errorf("%w: %w", ErrUnresolvedKeyword, err))
	}

	raw, cause := invoke(ctx, skill, req)
	if cause != nil {
		slog.Warn("Skill failed", "id", req.ID, "keyword", req.Keyword, "err", cause)
		msg := fmt.Sprintf(failureReply, cause)
		return d.reply(req, StateInvoking, []schema.ContentPart{schema.TextPart(msg)},
			fmt.Errorf("%w: %w", ErrSkillInvocation, cause))
	}

	parts := d.normalizer.Normalize(raw, req.SenderID, desc.NeedsMention)
	return d.reply(req, StateInvoking, parts, nil)
}

// resolveKeyword runs the keyword scan and, failing that, the first-token
// fallback. It fills Keyword, Matched, ArgsText and Args.
func (d *Dispatcher) resolveKeyword(req *Request, text string) {
	argless := func(kw string) bool {
		desc, err := d.skills.Describe(kw)
		return err == nil && desc.ArgumentLess()
	}

	if kw, args, ok := match(text, d.skills.ListKeywords(), argless); ok {
		req.Keyword, req.ArgsText, req.Matched = kw, args, true
	} else {
		req.Keyword, req.ArgsText = firstToken(text)
	}
	req.Args = strings.Fields(req.ArgsText)

	slog.Debug("Matched",
		"id", req.ID,
		"keyword", req.Keyword,
		"scan", req.Matched,
		"args", stringutils.Truncate(req.ArgsText, 80),
	)
}

func (d *Dispatcher) describe(req Request) Result {
	text, err := d.help.DescribeOne(req.Keyword)
	if err != nil {
		return dropped(req, fmt.Errorf("%w: %w", ErrUnresolvedKeyword, err))
	}
	return d.reply(req, StateHelpRequested, []schema.ContentPart{schema.TextPart(text)}, nil)
}

func (d *Dispatcher) reply(req Request, path State, parts []schema.ContentPart, err error) Result {
	return Result{Request: req, Path: path, State: StateReplied, Parts: parts, Err: err}
}

func dropped(req Request, err error) Result {
	return Result{Request: req, Path: StateDropped, State: StateDropped, Err: err}
}

// invoke runs the skill to completion and returns its raw failure, if any.
// Caller cancellation does not reach the skill once started; panics are
// converted to errors.
func invoke(ctx context.Context, skill schema.Skill, req Request) (out string, err error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			slog.Error("Skill panicked", "id", req.ID, "keyword", req.Keyword, "panic", p, "stack", string(debug.Stack()))
			out, err = "", fmt.Errorf("panic: %v", p)
		}
		slog.Debug("Skill finished", "id", req.ID, "keyword", req.Keyword, "elapsed", time.Since(start))
	}()

	return skill.Execute(ctx, req.SkillRequest())
}
