package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

type zaobaoResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Image string `json:"image"`
	} `json:"data"`
}

// Zaobao returns today's morning-news image. Argument-less.
func Zaobao(c *client, endpoint string) skills.Factory {
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:     "早报",
		Description: "获取每日早报图片",
		Usage:       "早报",
	}, func(ctx context.Context, _ schema.Request) (string, error) {
		var data zaobaoResponse
		if err := c.getJSON(ctx, endpoint, nil, &data); err != nil {
			return "", fmt.Errorf("获取早报图片时发生错误：%w", err)
		}
		if data.Status != "success" {
			return fmt.Sprintf("获取早报数据失败：%s", orUnknown(data.Message)), nil
		}
		if !strings.HasPrefix(data.Data.Image, "http") {
			return "未找到有效的早报图片链接", nil
		}
		return fmt.Sprintf("![早报图片](%s)", data.Data.Image), nil
	}))
}
