package plugins

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

const motouFallbackID = "1001"

// Motou returns a head-pat image for "@id" or, without a target, the sender.
func Motou(c *client, endpoint string) skills.Factory {
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:     "摸头",
		Description: "获取摸头图片",
		Usage:       "摸头 @好友 或者 摸头 @1001 或者 摸头",
	}, func(ctx context.Context, req schema.Request) (string, error) {
		target := motouFallbackID
		switch {
		case strings.HasPrefix(req.ArgsText, "@"):
			target = strings.TrimSpace(req.ArgsText[1:])
		case req.SenderID != "":
			target = req.SenderID
		}

		imageURL, err := withQuery(endpoint, url.Values{"qq": {target}})
		if err != nil {
			return "", err
		}
		if _, err := c.get(ctx, imageURL, nil); err != nil {
			return "获取摸头图片失败\n输入的格式是:摸头@好友 或者摸头 1001", nil
		}
		return fmt.Sprintf("![摸头](%s)", imageURL), nil
	}))
}
