package reddit

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/dates"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/tavily"
)

// maxResults 各深度对应的结果数上限
var maxResults = map[search.Depth]int{
	search.DepthQuick:   10,
	search.DepthDefault: 20,
	search.DepthDeep:    40,
}

// timeouts 各深度对应的请求超时
var timeouts = map[search.Depth]time.Duration{
	search.DepthQuick:   30 * time.Second,
	search.DepthDefault: 45 * time.Second,
	search.DepthDeep:    60 * time.Second,
}

var subredditPattern = regexp.MustCompile(`/r/([^/]+)`)

// Searcher 基于 Tavily（include_domains 限定 reddit.com）的 Reddit 检索器
type Searcher struct {
	client   *tavily.Client
	enricher *Enricher
}

// NewSearcher 创建 Reddit 检索器
func NewSearcher(client *tavily.Client) *Searcher {
	return &Searcher{
		client:   client,
		enricher: NewEnricher(),
	}
}

// Ensure Searcher implements search.RedditSearcher
var _ search.RedditSearcher = (*Searcher)(nil)

// SearchReddit 检索 Reddit 讨论并归一化。零结果时用精简后的核心主题重试一次，
// 缺日期的条目再经 Reddit JSON 端点并发补全。
func (s *Searcher) SearchReddit(ctx context.Context, req *search.Request) ([]model.RedditItem, error) {
	depth := req.Depth.Normalize()

	logger.Log.Infof("[Reddit] Tavily 检索: %s", req.Topic)

	items, err := s.searchOnce(ctx, req.Topic, req, depth)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		if core := search.CoreSubject(req.Topic); core != req.Topic {
			logger.Log.Infof("[Reddit] 零结果，用核心主题重试: %s", core)
			items, err = s.searchOnce(ctx, core, req, depth)
			if err != nil {
				return nil, err
			}
		}
	}

	logger.Log.Infof("[Reddit] Tavily: %d 条 Reddit 结果", len(items))

	if len(items) > 0 {
		items = s.enricher.EnrichDates(ctx, items)
	}
	return items, nil
}

func (s *Searcher) searchOnce(ctx context.Context, topic string, req *search.Request, depth search.Depth) ([]model.RedditItem, error) {
	searchDepth := "basic"
	if depth == search.DepthDeep {
		searchDepth = "advanced"
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts[depth])
	defer cancel()

	resp, err := s.client.Search(ctx, tavily.SearchRequest{
		Query:          fmt.Sprintf("%s (recent, %s to %s)", topic, req.FromDate, req.ToDate),
		SearchDepth:    searchDepth,
		MaxResults:     maxResults[depth],
		IncludeDomains: []string{"reddit.com"},
	})
	if err != nil {
		return nil, err
	}

	return Normalize(resp), nil
}

// Normalize 把 Tavily 响应转换为 Reddit 条目。
// 日期要过严格的 YYYY-MM-DD 校验，不合格的置空留给补全阶段。
func Normalize(resp *tavily.SearchResponse) []model.RedditItem {
	items := []model.RedditItem{}
	if resp == nil {
		return items
	}

	for i, result := range resp.Results {
		if result.URL == "" || !strings.Contains(result.URL, "reddit.com") {
			continue
		}

		snippet := strings.TrimSpace(result.Content)
		title := strings.TrimSpace(result.Title)
		if title == "" {
			title = model.Truncate(snippet, 100)
		}
		if title == "" {
			continue
		}

		items = append(items, model.NewRedditItem(
			fmt.Sprintf("R%d", i+1),
			model.Truncate(title, 200),
			result.URL,
			parseSubreddit(result.URL),
			model.Truncate(snippet, 500),
			parseDate(result.PublishedDate),
			result.Score.Relevance(),
		))
	}

	return items
}

// parseSubreddit 从 URL 路径的 /r/{name} 段解析社区名，解析不出返回空串
func parseSubreddit(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if m := subredditPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

func parseDate(published string) *string {
	if published == "" {
		return nil
	}
	if len(published) >= 10 {
		published = published[:10]
	}
	if !dates.IsValid(published) {
		return nil
	}
	return &published
}
