package help

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

type disabledSet map[string]bool

func (d disabledSet) IsDisabled(kw string) bool { return d[kw] }

func skill(kw, desc, usage string) skills.Factory {
	return skills.Static(schema.NewArgsSkill(schema.Descriptor{Keyword: kw, Description: desc, Usage: usage},
		func(context.Context, []string) (string, error) { return "", nil }))
}

func newRegistry() *skills.Registry {
	return skills.NewRegistryBuilder().
		WithCore(skill("菜单", "显示菜单", "菜单")).
		WithExtension(skill("echo", "回显消息", "echo 你好"), skill("calc", "计算器", "calc 1+2")).
		Build()
}

func TestListAllGroupsCoreFirst(t *testing.T) {
	s := NewSynthesizer(newRegistry(), disabledSet{})
	out := s.ListAll()

	assert.True(t, strings.HasPrefix(out, "可用的功能命令:\n"))
	core := strings.Index(out, "核心功能:")
	ext := strings.Index(out, "普通功能:")
	require.NotEqual(t, -1, core)
	require.NotEqual(t, -1, ext)
	assert.Less(t, core, ext)
	assert.Less(t, strings.Index(out, "菜单: 显示菜单"), ext)
	assert.Less(t, ext, strings.Index(out, "calc: 计算器"))
	assert.Less(t, strings.Index(out, "calc: 计算器"), strings.Index(out, "echo: 回显消息"))
	assert.True(t, strings.HasSuffix(out, usageHint))
}

func TestListAllHidesDisabled(t *testing.T) {
	s := NewSynthesizer(newRegistry(), disabledSet{"echo": true})
	out := s.ListAll()
	assert.NotContains(t, out, "echo:")
	assert.Contains(t, out, "calc:")
}

func TestDescribeOne(t *testing.T) {
	s := NewSynthesizer(newRegistry(), nil)
	out, err := s.DescribeOne("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo 功能说明：\n回显消息\n\n使用方法：\necho 你好", out)

	_, err = s.DescribeOne("nope")
	assert.ErrorIs(t, err, skills.ErrNotFound)
}

func TestDescribeWithExample(t *testing.T) {
	out := Describe(schema.Descriptor{Keyword: "bing", Description: "d", Usage: "bing 1", Example: "bing 0\nbing 3"})
	assert.True(t, strings.HasSuffix(out, "示例：\nbing 0\nbing 3"))
}
