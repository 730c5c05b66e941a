package tavily

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/webdomain"
)

// webMaxResults 各深度对应的结果数上限
var webMaxResults = map[search.Depth]int{
	search.DepthQuick:   8,
	search.DepthDefault: 15,
	search.DepthDeep:    25,
}

const webTimeout = 20 * time.Second

// Ensure Client implements search.WebSearcher
var _ search.WebSearcher = (*Client)(nil)

// SearchWeb 通过 Tavily 检索通用 Web 内容并归一化为条目列表。
// 社交平台域名在请求侧排除，响应侧再过滤一遍兜底。
func (c *Client) SearchWeb(ctx context.Context, req *search.Request) ([]model.WebItem, error) {
	depth := req.Depth.Normalize()
	searchDepth := "basic"
	if depth == search.DepthDeep {
		searchDepth = "advanced"
	}

	logger.Log.Infof("[Web] Tavily 检索: %s", req.Topic)

	ctx, cancel := context.WithTimeout(ctx, webTimeout)
	defer cancel()

	resp, err := c.Search(ctx, SearchRequest{
		Query:          fmt.Sprintf("%s (recent, %s to %s)", req.Topic, req.FromDate, req.ToDate),
		SearchDepth:    searchDepth,
		MaxResults:     webMaxResults[depth],
		ExcludeDomains: []string{"reddit.com", "x.com", "twitter.com"},
	})
	if err != nil {
		return nil, err
	}

	items := NormalizeWeb(resp)
	logger.Log.Infof("[Web] Tavily: %d 条结果", len(items))
	return items, nil
}

// NormalizeWeb 把 Tavily 原始响应转换为标准 Web 条目。
// 无 URL、命中黑名单域名、标题和摘要都为空的结果直接丢弃。
func NormalizeWeb(resp *SearchResponse) []model.WebItem {
	items := []model.WebItem{}
	if resp == nil {
		return items
	}

	for i, result := range resp.Results {
		if result.URL == "" {
			continue
		}

		domain, skip := webdomain.Parse(result.URL)
		if skip {
			continue
		}

		title := strings.TrimSpace(result.Title)
		snippet := strings.TrimSpace(result.Content)
		if title == "" && snippet == "" {
			continue
		}
		if title == "" {
			// 标题兜底：域名，其次摘要截断
			title = domain
			if title == "" {
				title = model.Truncate(snippet, 100)
			}
		}

		var date *string
		confidence := model.DateConfidenceLow
		if len(result.PublishedDate) >= 10 {
			d := result.PublishedDate[:10]
			date = &d
			confidence = model.DateConfidenceMed
		}

		items = append(items, model.NewWebItem(
			fmt.Sprintf("W%d", i+1),
			model.Truncate(title, 200),
			result.URL,
			domain,
			model.Truncate(snippet, 500),
			date,
			confidence,
			result.Score.Relevance(),
		))
	}

	return items
}
