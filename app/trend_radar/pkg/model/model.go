package model

// 日期置信度取值（仅 Web 来源的条目携带）
const (
	DateConfidenceLow = "low"
	DateConfidenceMed = "med"
)

// itemBase 各来源条目的公共字段
type itemBase struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Snippet     string  `json:"snippet"`
	Date        *string `json:"date"` // YYYY-MM-DD，未知时为 null
	Relevance   float64 `json:"relevance"`
	WhyRelevant string  `json:"why_relevant"` // 由下游富化阶段填写，本层留空
}

// WebItem 通用 Web 搜索条目（Perplexity / Tavily）
type WebItem struct {
	itemBase
	SourceDomain   string `json:"source_domain"`
	DateConfidence string `json:"date_confidence"`
}

// RedditItem Reddit 搜索条目
type RedditItem struct {
	itemBase
	Subreddit string `json:"subreddit"`
}

// Truncate 按 rune 截断字符串，避免切断多字节字符
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// NewWebItem 构造一个 Web 条目
func NewWebItem(id, title, url, domain, snippet string, date *string, confidence string, relevance float64) WebItem {
	return WebItem{
		itemBase: itemBase{
			ID:        id,
			Title:     title,
			URL:       url,
			Snippet:   snippet,
			Date:      date,
			Relevance: relevance,
		},
		SourceDomain:   domain,
		DateConfidence: confidence,
	}
}

// NewRedditItem 构造一个 Reddit 条目
func NewRedditItem(id, title, url, subreddit, snippet string, date *string, relevance float64) RedditItem {
	return RedditItem{
		itemBase: itemBase{
			ID:        id,
			Title:     title,
			URL:       url,
			Snippet:   snippet,
			Date:      date,
			Relevance: relevance,
		},
		Subreddit: subreddit,
	}
}
