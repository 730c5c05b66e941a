package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
)

// Depth 检索深度，影响各后端的结果数、超时与 token 预算
type Depth string

const (
	DepthQuick   Depth = "quick"
	DepthDefault Depth = "default"
	DepthDeep    Depth = "deep"
)

// Normalize 把未知取值归一到 default
func (d Depth) Normalize() Depth {
	switch d {
	case DepthQuick, DepthDefault, DepthDeep:
		return d
	}
	return DepthDefault
}

// Request 通用检索请求，参数由调用方预先解析好
type Request struct {
	Topic    string
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
	Depth    Depth
}

// WebSearcher 通用 Web 检索接口
type WebSearcher interface {
	SearchWeb(ctx context.Context, req *Request) ([]model.WebItem, error)
}

// RedditSearcher Reddit 检索接口
type RedditSearcher interface {
	SearchReddit(ctx context.Context, req *Request) ([]model.RedditItem, error)
}

// noisePhrases 只有整体出现才剔除的修饰短语；"to" / "tips" 单独出现时保留
var noisePhrases = regexp.MustCompile(`\b(?:how to|tips for)\b`)

// noiseWords 重试时从冗长查询中剔除的修饰词
var noiseWords = map[string]bool{
	"best": true, "top": true, "practices": true, "features": true,
	"killer": true, "guide": true, "tutorial": true,
	"recommendations": true, "advice": true, "prompting": true,
	"using": true, "for": true, "with": true, "the": true, "of": true,
	"in": true, "on": true,
}

// CoreSubject 提取查询的核心主题（最多 3 个词），用于零结果时的二次检索
func CoreSubject(topic string) string {
	lowered := noisePhrases.ReplaceAllString(strings.ToLower(topic), " ")

	var kept []string
	for _, w := range strings.Fields(lowered) {
		if noiseWords[w] {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 3 {
			break
		}
	}
	if len(kept) == 0 {
		return topic
	}
	return strings.Join(kept, " ")
}
