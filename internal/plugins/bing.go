package plugins

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

const bingMaxDay = 7

// Bing returns the Bing daily image of up to seven days ago. The upstream
// redirects to the image; the final URL is what gets embedded.
func Bing(c *client, endpoint string) skills.Factory {
	return skills.Static(schema.NewArgsSkill(schema.Descriptor{
		Keyword:     "bing",
		Description: "获取Bing每日图片",
		Usage:       "bing [day] [size]",
		Example:     "bing\nbing 0 1920x1080\nbing 1",
	}, func(ctx context.Context, args []string) (string, error) {
		day, size := 0, ""
		if len(args) >= 1 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				day = min(max(n, 0), bingMaxDay)
			}
			if len(args) >= 2 {
				size = args[1]
			}
		}

		q := url.Values{"rand": {"false"}, "day": {strconv.Itoa(day)}}
		if size != "" {
			q.Set("size", size)
		}
		resp, err := c.get(ctx, endpoint, q)
		if err != nil {
			slog.Warn("plugins: bing image", "err", err)
			return "获取Bing图片失败，请稍后再试", nil
		}
		return fmt.Sprintf("今日Bing图片：\n![Bing Image](%s)", resp.finalURL), nil
	}))
}
