package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

const ModulesKeyword = "模块"

var categoryLabels = map[schema.Category]string{
	schema.CategoryCore:      "core",
	schema.CategoryExtension: "func",
}

// Modules returns the factory for the 模块 skill, which inspects the
// registry and triggers a rediscovery.
func Modules() skills.Factory {
	return func(c skills.Catalog) (schema.Skill, error) {
		return schema.NewArgsSkill(schema.Descriptor{
			Keyword:     ModulesKeyword,
			Description: "模块加载器：查看关键词、模块信息或重新加载模块",
			Usage:       "模块 list|info|reload",
			Example:     "模块 list\n模块 info\n模块 info 天气\n模块 reload",
		}, func(_ context.Context, args []string) (string, error) {
			return modules(c, args)
		}), nil
	}
}

func modules(c skills.Catalog, args []string) (string, error) {
	if len(args) == 0 {
		return "模块加载器：请提供要执行的操作，如 list, info, reload", nil
	}

	switch args[0] {
	case "list":
		return "可用的关键词：\n" + strings.Join(c.ListKeywords(), "\n"), nil

	case "info":
		if len(args) > 1 {
			d, err := c.Describe(args[1])
			if err != nil {
				return fmt.Sprintf("未找到关键词 '%s' 对应的模块", args[1]), nil
			}
			return infoLine(d), nil
		}
		var sb strings.Builder
		sb.WriteString("模块信息：\n")
		for _, d := range c.Descriptors() {
			sb.WriteString(infoLine(d))
			sb.WriteString("\n")
		}
		return sb.String(), nil

	case "reload":
		if err := c.Reload(); err != nil {
			return "", fmt.Errorf("重新加载模块时部分失败: %w", err)
		}
		return fmt.Sprintf("已重新加载 %d 个模块", len(c.ListKeywords())), nil
	}

	return "未知操作，可用操作：list, info, reload", nil
}

func infoLine(d schema.Descriptor) string {
	return fmt.Sprintf("%s (%s): %s", d.Keyword, categoryLabels[d.Category], d.Description)
}
