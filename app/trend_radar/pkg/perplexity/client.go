package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/citation"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/search"
)

const (
	defaultBaseURL = "https://api.perplexity.ai/chat/completions"
	modelName      = "sonar"
)

// profile 各深度对应的检索参数
type profile struct {
	maxResultsHint int
	maxTokens      int
	timeout        time.Duration
}

// Sonar 是 LLM 检索，耗时比结构化搜索 API 长
var depthProfiles = map[search.Depth]profile{
	search.DepthQuick:   {maxResultsHint: 8, maxTokens: 1024, timeout: 30 * time.Second},
	search.DepthDefault: {maxResultsHint: 15, maxTokens: 2048, timeout: 45 * time.Second},
	search.DepthDeep:    {maxResultsHint: 25, maxTokens: 4096, timeout: 60 * time.Second},
}

// Client Perplexity Sonar API 客户端
type Client struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	analyzer citation.Analyzer
}

// NewClient 创建一个新的 Perplexity 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		client:   http.DefaultClient,
		analyzer: citation.RegexAnalyzer{},
	}
}

// Ensure Client implements search.WebSearcher
var _ search.WebSearcher = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// ChatResponse Sonar 响应。citations 与 choices 都按原始 JSON 保留，
// 形状不符时按字段缺失处理而不是让整次解析失败。
type ChatResponse struct {
	Citations json.RawMessage `json:"citations"`
	Choices   json.RawMessage `json:"choices"`
}

// CitationList 返回引用 URL 列表；缺失或不是列表时返回 nil
func (r *ChatResponse) CitationList() []any {
	var cites []any
	if err := json.Unmarshal(r.Citations, &cites); err != nil {
		return nil
	}
	return cites
}

// Content 防御性提取 choices[0].message.content，任何路径异常都返回空串
func (r *ChatResponse) Content() string {
	var choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(r.Choices, &choices); err != nil || len(choices) == 0 {
		return ""
	}
	return choices[0].Message.Content
}

// SearchWeb 通过 Perplexity Sonar 检索 Web 内容并归一化为条目列表
func (c *Client) SearchWeb(ctx context.Context, req *search.Request) ([]model.WebItem, error) {
	p := depthProfiles[req.Depth.Normalize()]

	prompt := fmt.Sprintf(
		"Find up to %d recent blog posts, news articles, tutorials, "+
			"and discussions about %s published between %s and %s. "+
			"Exclude results from reddit.com, x.com, and twitter.com. "+
			"For each result, provide the title, URL, publication date, "+
			"and a brief summary of why it's relevant.",
		p.maxResultsHint, req.Topic, req.FromDate, req.ToDate)

	logger.Log.Infof("[Web] Perplexity Sonar 检索: %s", req.Topic)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := c.chat(ctx, chatRequest{
		Model:     modelName,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: p.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	return c.Normalize(resp), nil
}

func (c *Client) chat(ctx context.Context, req chatRequest) (*ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("perplexity api error (status %d): %s", res.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	return &chatResp, nil
}
