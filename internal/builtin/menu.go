// Package builtin holds the core skills bundled with every installation.
package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gobwas/glob"

	"github.com/skillbox/skillbox/internal/help"
	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

const MenuKeyword = "菜单"

// FeatureStore is the mutating side of the feature-state store.
type FeatureStore interface {
	IsDisabled(keyword string) bool
	Disable(keyword string) bool
	Enable(keyword string) bool
	ListDisabled() []string
}

// Admins matches sender ids against glob patterns. An empty set admits everyone.
type Admins struct {
	patterns []glob.Glob
}

// NewAdmins compiles the patterns; invalid ones are logged and skipped.
func NewAdmins(patterns []string) Admins {
	var a Admins
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			slog.Warn("builtin: invalid admin pattern", "pattern", p, "err", err)
			continue
		}
		a.patterns = append(a.patterns, g)
	}
	return a
}

// Allows reports whether senderID may change feature state.
func (a Admins) Allows(senderID string) bool {
	if len(a.patterns) == 0 {
		return true
	}
	for _, g := range a.patterns {
		if g.Match(senderID) {
			return true
		}
	}
	return false
}

type menu struct {
	catalog skills.Catalog
	store   FeatureStore
	help    *help.Synthesizer
	admins  Admins
}

// Menu returns the factory for the 菜单 skill: the skill listing plus the
// 禁用 / 启用 / 禁用列表 feature-state subcommands.
func Menu(store FeatureStore, admins Admins) skills.Factory {
	return func(c skills.Catalog) (schema.Skill, error) {
		if store == nil {
			return nil, fmt.Errorf("menu: feature store is required")
		}
		m := &menu{
			catalog: c,
			store:   store,
			help:    help.NewSynthesizer(c, store),
			admins:  admins,
		}
		return schema.NewRequestSkill(schema.Descriptor{
			Keyword:     MenuKeyword,
			Description: "显示所有可用的功能命令，以及核心功能",
			Usage:       "菜单 [禁用/启用/禁用列表] [功能名]",
			Example:     "菜单\n菜单 禁用 功能名\n菜单 启用 功能名\n菜单 禁用列表",
		}, m.execute), nil
	}
}

func (m *menu) execute(_ context.Context, req schema.Request) (string, error) {
	if len(req.Args) == 0 {
		return m.help.ListAll(), nil
	}

	switch strings.ToLower(req.Args[0]) {
	case "禁用", "disable":
		if len(req.Args) < 2 {
			break
		}
		if !m.admins.Allows(req.SenderID) {
			return "你没有权限执行此操作", nil
		}
		return m.disable(req.Args[1]), nil
	case "启用", "enable":
		if len(req.Args) < 2 {
			break
		}
		if !m.admins.Allows(req.SenderID) {
			return "你没有权限执行此操作", nil
		}
		return m.enable(req.Args[1]), nil
	case "禁用列表", "disabled":
		return m.listDisabled(), nil
	}
	return m.help.ListAll(), nil
}

func (m *menu) disable(keyword string) string {
	if m.store.IsDisabled(keyword) {
		return fmt.Sprintf("功能 '%s' 已经被禁用", keyword)
	}
	if _, err := m.catalog.Describe(keyword); err != nil {
		return fmt.Sprintf("未找到功能 '%s'", keyword)
	}
	if keyword == MenuKeyword {
		return fmt.Sprintf("功能 '%s' 不能被禁用", keyword)
	}
	m.store.Disable(keyword)
	slog.Info("Feature disabled", "keyword", keyword)
	return fmt.Sprintf("已成功禁用功能 '%s'", keyword)
}

func (m *menu) enable(keyword string) string {
	if !m.store.Enable(keyword) {
		return fmt.Sprintf("功能 '%s' 未被禁用或不存在", keyword)
	}
	slog.Info("Feature enabled", "keyword", keyword)
	return fmt.Sprintf("已成功启用功能 '%s'", keyword)
}

func (m *menu) listDisabled() string {
	disabled := m.store.ListDisabled()
	if len(disabled) == 0 {
		return "没有被禁用的功能"
	}
	return "当前被禁用的功能：\n" + strings.Join(disabled, "\n")
}
