package plugins

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

type kfcResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Copywriting string `json:"copywriting"`
	} `json:"data"`
}

// KFC returns a Crazy Thursday copywriting line. Argument-less.
func KFC(c *client, endpoint string) skills.Factory {
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:     "kfc",
		Description: "获取肯德基疯狂星期四文案",
		Usage:       "kfc",
	}, func(ctx context.Context, _ schema.Request) (string, error) {
		var data kfcResponse
		if err := c.getJSON(ctx, endpoint, url.Values{"type": {"json"}}, &data); err != nil {
			return "", fmt.Errorf("请求出错: %w", err)
		}
		if data.Code != 200 {
			return fmt.Sprintf("获取肯德基疯狂星期四文案失败: %s", orUnknown(data.Msg)), nil
		}
		if data.Data.Copywriting == "" {
			return "获取肯德基疯狂星期四文案失败", nil
		}
		return data.Data.Copywriting, nil
	}))
}

func orUnknown(s string) string {
	if s == "" {
		return "未知错误"
	}
	return s
}
