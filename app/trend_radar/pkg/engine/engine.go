package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/dates"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search/factory"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/storage"
)

// Engine 核心处理引擎：对每个主题并发执行 Web 与 Reddit 检索，
// 汇总为一份报告。单个主题失败只记录日志，不影响其余主题。
type Engine struct {
	cfg    *config.Config
	store  *storage.Storage
	web    search.WebSearcher
	reddit search.RedditSearcher
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config, store *storage.Storage) (*Engine, error) {
	web, err := factory.NewWebSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("web 搜索客户端初始化失败: %w", err)
	}

	reddit, err := factory.NewRedditSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("reddit 搜索客户端初始化失败: %w", err)
	}

	return &Engine{
		cfg:    cfg,
		store:  store,
		web:    web,
		reddit: reddit,
	}, nil
}

// TopicResult 单个主题的检索结果
type TopicResult struct {
	Topic  string             `json:"topic"`
	Web    []model.WebItem    `json:"web"`
	Reddit []model.RedditItem `json:"reddit"`
}

// Report 一次完整运行的输出
type Report struct {
	GeneratedAt string        `json:"generated_at"`
	FromDate    string        `json:"from_date"`
	ToDate      string        `json:"to_date"`
	Depth       string        `json:"depth"`
	Topics      []TopicResult `json:"topics"`
}

// Run 对配置中的全部主题执行一次检索
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if len(e.cfg.Topics) == 0 {
		return nil, fmt.Errorf("no topics provided")
	}

	now := time.Now()
	fromDate, toDate := dates.Window(now, e.cfg.WindowDays)
	depth := search.Depth(e.cfg.Depth).Normalize()

	logger.Log.Infof("开始检索 %d 个主题，时间窗口 %s ~ %s，深度 %s",
		len(e.cfg.Topics), fromDate, toDate, depth)

	// 按配置顺序预留槽位，主题并发完成后落到各自位置
	results := make([]TopicResult, len(e.cfg.Topics))
	var wg sync.WaitGroup

	for i, topic := range e.cfg.Topics {
		wg.Add(1)
		go func(idx int, topic string) {
			defer wg.Done()
			results[idx] = e.runTopic(ctx, topic, fromDate, toDate, depth)
		}(i, topic)
	}

	wg.Wait()

	var kept []TopicResult
	for _, r := range results {
		if len(r.Web) == 0 && len(r.Reddit) == 0 {
			logger.Log.Warnf("主题 [%s] 未检索到任何条目", r.Topic)
			continue
		}
		kept = append(kept, r)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("no results for any topic")
	}

	return &Report{
		GeneratedAt: now.Format(time.RFC3339),
		FromDate:    fromDate,
		ToDate:      toDate,
		Depth:       string(depth),
		Topics:      kept,
	}, nil
}

// runTopic 执行单个主题的双路检索。任一路失败时保留另一路的结果。
func (e *Engine) runTopic(ctx context.Context, topic, fromDate, toDate string, depth search.Depth) TopicResult {
	req := &search.Request{
		Topic:    topic,
		FromDate: fromDate,
		ToDate:   toDate,
		Depth:    depth,
	}

	result := TopicResult{Topic: topic}
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		items, err := e.web.SearchWeb(ctx, req)
		if err != nil {
			logger.Log.Errorf("Web 检索失败 [%s]: %v", topic, err)
			return
		}
		result.Web = items
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		items, err := e.reddit.SearchReddit(ctx, req)
		if err != nil {
			logger.Log.Errorf("Reddit 检索失败 [%s]: %v", topic, err)
			return
		}
		result.Reddit = items
	}()

	wg.Wait()

	// 排序放在两路都完成之后，避免与写入竞争
	sort.SliceStable(result.Web, func(i, j int) bool {
		return result.Web[i].Relevance > result.Web[j].Relevance
	})
	sort.SliceStable(result.Reddit, func(i, j int) bool {
		return result.Reddit[i].Relevance > result.Reddit[j].Relevance
	})

	if e.store != nil {
		if err := e.store.SaveRun(topic, fromDate, toDate, string(depth), result.Web, result.Reddit); err != nil {
			logger.Log.Errorf("保存检索结果失败 [%s]: %v", topic, err)
		}
	}

	logger.Log.Infof("主题 [%s] 完成: Web %d 条, Reddit %d 条", topic, len(result.Web), len(result.Reddit))
	return result
}
