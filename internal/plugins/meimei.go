package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

var digits = regexp.MustCompile(`\d+`)

type meimeiResponse struct {
	Code int    `json:"code"`
	URL  string `json:"url"`
}

// Meimei fetches n random images concurrently. Each fetch is retried on its
// own; failures are reported inline next to the successful images.
func Meimei(c *client, endpoint string, maxImages int) skills.Factory {
	if maxImages <= 0 {
		maxImages = 10
	}
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:     "看妹妹",
		Description: "获取随机图片，支持指定获取数量",
		Usage:       fmt.Sprintf("看妹妹 [数量]  # 如 看妹妹 3 获取3张图片，最多%d张", maxImages),
	}, func(ctx context.Context, req schema.Request) (string, error) {
		n := requestedCount(req.Args)
		count := max(1, min(n, maxImages))

		results := make([]string, count)
		errs := make([]error, count)
		var wg sync.WaitGroup
		for i := range count {
			wg.Go(func() {
				results[i], errs[i] = fetchRandomImage(ctx, c, endpoint)
			})
		}
		wg.Wait()

		var lines []string
		if n > maxImages {
			lines = append(lines, fmt.Sprintf("大人您看了%d下，但是不行哦，只能看%d下", n, maxImages), "")
		}
		for i := range count {
			if errs[i] == nil {
				lines = append(lines, fmt.Sprintf("![随机图片%d](%s)", i+1, results[i]))
			} else {
				lines = append(lines, fmt.Sprintf("[失败] 第%d次获取图片: %v", i+1, errs[i]))
			}
			if count > 1 && i < count-1 {
				lines = append(lines, "---")
			}
		}
		return strings.Join(lines, "\n"), nil
	}))
}

// requestedCount joins the digits of the first argument; default 1.
func requestedCount(args []string) int {
	if len(args) == 0 {
		return 1
	}
	joined := strings.Join(digits.FindAllString(args[0], -1), "")
	if joined == "" {
		return 1
	}
	n, err := strconv.Atoi(joined)
	if err != nil {
		// overflow: far beyond any limit
		return int(^uint(0) >> 1)
	}
	return n
}

func fetchRandomImage(ctx context.Context, c *client, endpoint string) (string, error) {
	target, err := withQuery(endpoint, url.Values{"type": {"json"}, "mode": {"1,3,5,8"}})
	if err != nil {
		return "", err
	}

	var imageURL string
	err = c.do(ctx, endpoint, func() error {
		resp, err := c.once(ctx, target)
		if err != nil {
			return err
		}
		var data meimeiResponse
		if err := json.Unmarshal(resp.body, &data); err != nil {
			return fmt.Errorf("解析响应失败: %w", err)
		}
		if data.Code != 200 || !strings.HasPrefix(data.URL, "http") {
			return fmt.Errorf("API异常 code=%d", data.Code)
		}
		imageURL = data.URL
		return nil
	})
	return imageURL, err
}
