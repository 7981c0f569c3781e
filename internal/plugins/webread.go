package plugins

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/shared/stringutils"
	"github.com/skillbox/skillbox/internal/skills"
)

const webExcerptRunes = 300

// WebRead fetches a page and replies with its readable title and excerpt.
func WebRead(c *client) skills.Factory {
	return skills.Static(schema.NewArgsSkill(schema.Descriptor{
		Keyword:     "网页",
		Description: "提取网页标题和摘要",
		Usage:       "网页 <http(s)://链接>",
	}, func(ctx context.Context, args []string) (string, error) {
		if len(args) == 0 {
			return "请在网页后面输入要读取的链接", nil
		}
		target, err := url.Parse(args[0])
		if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
			return "只支持 http/https 链接", nil
		}

		resp, err := c.get(ctx, target.String(), nil)
		if err != nil {
			return "", fmt.Errorf("读取网页失败: %w", err)
		}
		final, _ := url.Parse(resp.finalURL)
		if final == nil {
			final = target
		}

		article, err := readability.FromReader(bytes.NewReader(resp.body), final)
		if err != nil {
			return "", fmt.Errorf("解析网页失败: %w", err)
		}

		excerpt := strings.TrimSpace(article.Excerpt)
		if excerpt == "" {
			excerpt = strings.Join(strings.Fields(article.TextContent), " ")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📰 %s\n", stringutils.StringOrDefault(strings.TrimSpace(article.Title), final.Host))
		if excerpt != "" {
			sb.WriteString(stringutils.Truncate(excerpt, webExcerptRunes))
			sb.WriteString("\n")
		}
		if article.Image != "" && strings.HasPrefix(article.Image, "http") {
			fmt.Fprintf(&sb, "![封面](%s)\n", article.Image)
		}
		sb.WriteString(final.String())
		return sb.String(), nil
	}))
}
