package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

// RequestDemo shows what a skill receives in its request bundle.
func RequestDemo() skills.Factory {
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:      "req_demo",
		Description:  "展示如何使用请求参数获取请求信息",
		Usage:        "req_demo [任意参数]",
		NeedsMention: true,
	}, func(_ context.Context, req schema.Request) (string, error) {
		lines := []string{
			"请求参数使用示例:",
			"",
			"1. 请求中的所有信息:",
			fmt.Sprintf("   - 参数列表 (args): %q", req.Args),
			fmt.Sprintf("   - 参数字符串 (args_text): %s", req.ArgsText),
			fmt.Sprintf("   - 发送者ID (sender_id): %s", req.SenderID),
			fmt.Sprintf("   - 完整消息内容 (message): %s", req.Message),
			"",
			"2. 处理结果:",
		}
		if len(req.Args) > 0 {
			lines = append(lines, fmt.Sprintf("   收到参数: %s", strings.Join(req.Args, ", ")))
		} else {
			lines = append(lines, "   未收到参数")
		}
		return strings.Join(lines, "\n"), nil
	}))
}
