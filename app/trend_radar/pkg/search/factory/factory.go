package factory

import (
	"fmt"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/perplexity"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/reddit"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/tavily"
)

// NewWebSearcher 根据配置创建 Web 检索实例
func NewWebSearcher(cfg *config.Config) (search.WebSearcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 默认回退逻辑：有 perplexity key 时优先 LLM 检索，否则用 tavily
		if cfg.Search.Perplexity.APIKey != "" {
			provider = "perplexity"
		} else {
			provider = "tavily"
		}
	}

	switch provider {
	case "perplexity":
		if cfg.Search.Perplexity.APIKey == "" {
			return nil, fmt.Errorf("perplexity api key is missing")
		}
		return perplexity.NewClient(cfg.Search.Perplexity.APIKey), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}

// NewRedditSearcher 创建 Reddit 检索实例（始终走 Tavily）
func NewRedditSearcher(cfg *config.Config) (search.RedditSearcher, error) {
	if cfg.Search.Tavily.APIKey == "" {
		return nil, fmt.Errorf("tavily api key is missing")
	}
	return reddit.NewSearcher(tavily.NewClient(cfg.Search.Tavily.APIKey)), nil
}
