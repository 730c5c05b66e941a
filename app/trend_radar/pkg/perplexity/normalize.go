package perplexity

import (
	"fmt"
	"math"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/webdomain"
)

// Normalize 把 Sonar 响应转换为标准 Web 条目。
// Sonar 返回扁平的引用 URL 列表，标题/摘要要从合成文本里按 [N] 标记反推。
// 该后端不提供日期信号，date 一律为 null、置信度 low。
func (c *Client) Normalize(resp *ChatResponse) []model.WebItem {
	items := []model.WebItem{}

	cites := resp.CitationList()
	if len(cites) == 0 {
		logger.Log.Info("[Web] Perplexity Sonar: 0 条结果 (无引用)")
		return items
	}

	content := resp.Content()
	infos := c.analyzer.Analyze(content, len(cites))

	for i, cite := range cites {
		url, ok := cite.(string)
		if !ok || url == "" {
			continue
		}

		domain, skip := webdomain.Parse(url)
		if skip {
			continue
		}

		info := infos[i]
		title := info.Title
		if title == "" {
			title = domain
		}
		if title == "" {
			title = model.Truncate(info.Snippet, 100)
		}
		if title == "" {
			// 域名和片段都提取不出来时退回原始 URL，标题不允许为空
			title = url
		}

		// 相关性估计：模型把更重要的来源引用得更靠前、更频繁。
		// 区间 0.55（末位、单次引用）到 0.90（首位、多次引用）。
		positionScore := math.Max(0.0, 1.0-float64(i)/float64(len(cites)))
		refBonus := math.Min(0.1, float64(info.Count-1)*0.05)
		relevance := math.Round((0.55+0.35*positionScore+refBonus)*100) / 100
		relevance = math.Min(1.0, math.Max(0.0, relevance))

		items = append(items, model.NewWebItem(
			fmt.Sprintf("W%d", i+1),
			model.Truncate(title, 200),
			url,
			domain,
			model.Truncate(info.Snippet, 500),
			nil,
			model.DateConfidenceLow,
			relevance,
		))
	}

	logger.Log.Infof("[Web] Perplexity Sonar: %d 条结果", len(items))
	return items
}
