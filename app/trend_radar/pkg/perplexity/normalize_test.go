package perplexity

import (
	"encoding/json"
	"testing"
)

func decodeChat(t *testing.T, body string) *ChatResponse {
	t.Helper()
	var resp ChatResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &resp
}

func newTestClient() *Client {
	return NewClient("test-key")
}

func TestNormalizeRelevanceArithmetic(t *testing.T) {
	resp := decodeChat(t, `{
		"citations": ["https://a.example/p1", "https://b.example/p2"],
		"choices": [{"message": {"content": "... [1] First Article is great. More on [2] Second Article. Also [1] again."}}]
	}`)

	items := newTestClient().Normalize(resp)
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}

	// 首位引用且被引用两次：0.55 + 0.35*1.0 + 0.05 = 0.95
	if items[0].Relevance != 0.95 {
		t.Errorf("items[0].Relevance = %v, want 0.95", items[0].Relevance)
	}
	// 末位引用、单次引用：round(0.55 + 0.35*0.5, 2) = 0.73
	if items[1].Relevance != 0.73 {
		t.Errorf("items[1].Relevance = %v, want 0.73", items[1].Relevance)
	}

	if items[0].ID != "W1" || items[1].ID != "W2" {
		t.Errorf("IDs = %q, %q", items[0].ID, items[1].ID)
	}
	if items[0].Date != nil || items[0].DateConfidence != "low" {
		t.Errorf("date fields = %v / %q, want nil / low", items[0].Date, items[0].DateConfidence)
	}
}

func TestNormalizeNoCitations(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"citations": []}`,
		`{"citations": "not-a-list"}`,
		`{"citations": null}`,
	} {
		resp := decodeChat(t, body)
		if items := newTestClient().Normalize(resp); len(items) != 0 {
			t.Errorf("Normalize(%s) len = %d, want 0", body, len(items))
		}
	}
}

func TestNormalizeSkipsBadCitations(t *testing.T) {
	resp := decodeChat(t, `{
		"citations": [42, "", "https://reddit.com/r/golang/comments/a/b", "https://ok.example/post"],
		"choices": [{"message": {"content": "text without markers"}}]
	}`)

	items := newTestClient().Normalize(resp)
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	// 文本中无标记：标题兜底为域名，摘要为空
	if items[0].ID != "W4" || items[0].Title != "ok.example" || items[0].Snippet != "" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestNormalizeTitleNeverEmpty(t *testing.T) {
	// 无法解析出域名、文本又没有任何标记：标题退回原始 URL
	resp := decodeChat(t, `{
		"citations": ["not-a-parsable-url"],
		"choices": [{"message": {"content": "text without markers"}}]
	}`)

	items := newTestClient().Normalize(resp)
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	if items[0].Title != "not-a-parsable-url" {
		t.Errorf("Title = %q, want raw url fallback", items[0].Title)
	}
}

func TestNormalizeMalformedChoices(t *testing.T) {
	resp := decodeChat(t, `{
		"citations": ["https://a.example/1"],
		"choices": {"unexpected": "shape"}
	}`)

	items := newTestClient().Normalize(resp)
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	if items[0].Title != "a.example" {
		t.Errorf("Title = %q, want domain fallback", items[0].Title)
	}
	// 引用缺席时引用次数按 1 计，不加成也不惩罚
	if items[0].Relevance != 0.9 {
		t.Errorf("Relevance = %v, want 0.9", items[0].Relevance)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	body := `{
		"citations": ["https://a.example/1", "https://b.example/2"],
		"choices": [{"message": {"content": "[1] One thing happened here. And [2] another thing too."}}]
	}`
	a, _ := json.Marshal(newTestClient().Normalize(decodeChat(t, body)))
	b, _ := json.Marshal(newTestClient().Normalize(decodeChat(t, body)))
	if string(a) != string(b) {
		t.Errorf("normalize is not idempotent:\n%s\n%s", a, b)
	}
}
