package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/dates"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/taskpool"
)

const (
	defaultJSONBaseURL = "https://www.reddit.com"

	// 并发外呼上限是对 Reddit 端点的固定背压策略，不开放给调用方配置
	maxConcurrentFetches = 5
	fetchTimeout         = 10 * time.Second
	taskWaitTimeout      = 15 * time.Second
)

// Enricher 用 Reddit 免费 JSON 端点为缺日期的条目补全发布日期
type Enricher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewEnricher 创建日期补全器
func NewEnricher() *Enricher {
	return &Enricher{
		baseURL: defaultJSONBaseURL,
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Limit(maxConcurrentFetches), maxConcurrentFetches),
	}
}

// EnrichDates 为缺日期的条目并发补全日期，原地写回。
// 列表长度和顺序不变；单个抓取失败/超时只影响对应条目，不中断其余任务。
// 没有条目缺日期时直接返回，不产生任何网络调用。
func (e *Enricher) EnrichDates(ctx context.Context, items []model.RedditItem) []model.RedditItem {
	type job struct {
		idx  int
		path string
	}

	needDates := 0
	var jobs []job
	for i, item := range items {
		if item.Date != nil {
			continue
		}
		needDates++
		if path, ok := commentsPath(item.URL); ok {
			jobs = append(jobs, job{idx: i, path: path})
		}
	}
	if needDates == 0 {
		return items
	}

	logger.Log.Infof("[Reddit] 为 %d/%d 条目补全日期...", needDates, len(items))

	outcomes := taskpool.Map(ctx, maxConcurrentFetches, taskWaitTimeout, jobs,
		func(ctx context.Context, j job) (string, error) {
			return e.fetchDate(ctx, j.path)
		})

	enriched := 0
	for k, outcome := range outcomes {
		if outcome.Err != nil || outcome.Value == "" {
			continue
		}
		date := outcome.Value
		items[jobs[k].idx].Date = &date
		enriched++
	}

	logger.Log.Infof("[Reddit] 已从 Reddit 补全 %d/%d 个日期", enriched, needDates)
	return items
}

// commentsPath 从帖子 URL 提取 /r/{sub}/comments/{id}/... 路径。
// 不是讨论帖链接的条目不做补全。
func commentsPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	path := u.Path
	if strings.Contains(path, "/r/") && strings.Contains(path, "/comments/") {
		return path, true
	}
	return "", false
}

// redditListing Reddit JSON 端点的 listing 结构（只取要用的字段）
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// fetchDate 抓取帖子的 created_utc 并转成 YYYY-MM-DD。
// 传输失败内部重试一次；形状不符返回空串而不是错误。
func (e *Enricher) fetchDate(ctx context.Context, path string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		date, err := e.fetchOnce(ctx, path)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (e *Enricher) fetchOnce(ctx context.Context, path string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+path+".json", nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "trend_radar/1.0")

	res, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reddit json error (status %d)", res.StatusCode)
	}

	// Reddit 返回两元素列表: [帖子 listing, 评论 listing]
	var listings []redditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return "", nil
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return "", nil
	}

	return dates.FromTimestamp(listings[0].Data.Children[0].Data.CreatedUTC), nil
}
