package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

const demoImageURL = "https://static.moontung.top/2024/202405141832929.jpeg"

// Demo mixes text, remote images and an optional local image so the
// reply-part conversion can be tried from chat.
func Demo(sampleImage string) skills.Factory {
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:      "测试",
		Description:  "测试功能，回显用户输入的内容",
		Usage:        "测试 内容",
		NeedsMention: true,
	}, func(_ context.Context, req schema.Request) (string, error) {
		if len(req.Args) == 0 {
			var sb strings.Builder
			if sampleImage != "" {
				fmt.Fprintf(&sb, "本地图片示例：![本地图片](%s)\n", sampleImage)
			}
			sb.WriteString("这是一个测试消息，包含文本和图片：\n")
			fmt.Fprintf(&sb, "网络示例图片1：![示例图片](%s)\n", demoImageURL)
			sb.WriteString("文本2\n")
			fmt.Fprintf(&sb, "网络示例图片2：![示例图片](%s)\n", demoImageURL)
			return sb.String(), nil
		}
		content := strings.Join(req.Args, " ")
		return fmt.Sprintf("\n测试结果: %s\n包含一张示例图片：![示例图片](%s)\n%s\n发送者ID: %s\n",
			content, demoImageURL, content, req.SenderID), nil
	}))
}
