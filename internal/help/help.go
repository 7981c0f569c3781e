// Package help renders skill listings and per-skill usage.
package help

import (
	"fmt"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
)

const usageHint = "使用 <功能> --help 查看特定功能的使用帮助"

// Source provides the descriptors to render.
type Source interface {
	Descriptors() []schema.Descriptor
	Describe(keyword string) (schema.Descriptor, error)
}

// DisabledChecker reports disabled keywords.
type DisabledChecker interface {
	IsDisabled(keyword string) bool
}

// Synthesizer builds help text from the registry and feature state.
type Synthesizer struct {
	source   Source
	disabled DisabledChecker
}

func NewSynthesizer(source Source, disabled DisabledChecker) *Synthesizer {
	return &Synthesizer{source: source, disabled: disabled}
}

// ListAll returns every enabled skill grouped Core first, then Extension.
func (s *Synthesizer) ListAll() string {
	var core, ext []schema.Descriptor
	for _, d := range s.source.Descriptors() {
		if s.disabled != nil && s.disabled.IsDisabled(d.Keyword) {
			continue
		}
		if d.Category == schema.CategoryCore {
			core = append(core, d)
		} else {
			ext = append(ext, d)
		}
	}

	var sb strings.Builder
	sb.WriteString("可用的功能命令:\n")
	writeGroup(&sb, "核心功能", core)
	writeGroup(&sb, "普通功能", ext)
	sb.WriteString("\n")
	sb.WriteString(usageHint)
	return sb.String()
}

func writeGroup(sb *strings.Builder, title string, descs []schema.Descriptor) {
	if len(descs) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, d := range descs {
		fmt.Fprintf(sb, "%s: %s\n", d.Keyword, d.Description)
	}
}

// DescribeOne returns the description and usage of one skill.
func (s *Synthesizer) DescribeOne(keyword string) (string, error) {
	d, err := s.source.Describe(keyword)
	if err != nil {
		return "", err
	}
	return Describe(d), nil
}

// Describe renders a single descriptor.
func Describe(d schema.Descriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s 功能说明：\n%s\n\n使用方法：\n%s", d.Keyword, d.Description, d.Usage)
	if d.Example != "" {
		fmt.Fprintf(&sb, "\n\n示例：\n%s", d.Example)
	}
	return sb.String()
}
