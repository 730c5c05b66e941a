package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
)

func newTestEnricher(baseURL string) *Enricher {
	e := NewEnricher()
	e.baseURL = baseURL
	e.limiter = rate.NewLimiter(rate.Inf, 0)
	return e
}

func listingBody(createdUTC float64) string {
	return fmt.Sprintf(`[
		{"data": {"children": [{"data": {"created_utc": %f}}]}},
		{"data": {"children": []}}
	]`, createdUTC)
}

func datelessItem(id, url string) model.RedditItem {
	return model.NewRedditItem(id, "title "+id, url, "golang", "", nil, 0.6)
}

func TestEnrichDatesPatchesMissing(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// 2024-03-15 12:00:00 UTC
		fmt.Fprint(w, listingBody(1710504000))
	}))
	defer srv.Close()

	existing := "2024-01-01"
	items := []model.RedditItem{
		datelessItem("R1", "https://www.reddit.com/r/golang/comments/a1/x/"),
		model.NewRedditItem("R2", "t", "https://www.reddit.com/r/golang/comments/a2/y/", "golang", "", &existing, 0.7),
		datelessItem("R3", "https://www.reddit.com/r/golang/comments/broken/z/"),
		datelessItem("R4", "https://www.reddit.com/r/golang/wiki/index"), // 不是讨论帖，不补全
	}

	got := newTestEnricher(srv.URL).EnrichDates(context.Background(), items)

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].Date == nil || *got[0].Date != "2024-03-15" {
		t.Errorf("got[0].Date = %v, want 2024-03-15", got[0].Date)
	}
	if got[1].Date == nil || *got[1].Date != "2024-01-01" {
		t.Errorf("got[1].Date = %v, 已有日期不应被改写", got[1].Date)
	}
	if got[2].Date != nil {
		t.Errorf("got[2].Date = %v, 失败的抓取应留空", *got[2].Date)
	}
	if got[3].Date != nil {
		t.Errorf("got[3].Date = %v, 非讨论帖应留空", *got[3].Date)
	}

	// R1 一次成功 + R3 失败重试一次 = 3 次请求
	if n := atomic.LoadInt64(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}

	// 顺序不变
	for i, id := range []string{"R1", "R2", "R3", "R4"} {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestEnrichDatesNoMissing(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, listingBody(1710504000))
	}))
	defer srv.Close()

	d := "2024-02-02"
	items := []model.RedditItem{
		model.NewRedditItem("R1", "t", "https://www.reddit.com/r/golang/comments/a/b/", "golang", "", &d, 0.7),
	}

	newTestEnricher(srv.URL).EnrichDates(context.Background(), items)

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("calls = %d, 无缺日期条目时不应有网络调用", n)
	}
}

func TestEnrichDatesConcurrencyBound(t *testing.T) {
	var current, peak int64
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&current, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		fmt.Fprint(w, listingBody(1710504000))
	}))
	defer srv.Close()

	var items []model.RedditItem
	for i := 0; i < 7; i++ {
		items = append(items, datelessItem(
			fmt.Sprintf("R%d", i+1),
			fmt.Sprintf("https://www.reddit.com/r/golang/comments/p%d/t/", i),
		))
	}

	got := newTestEnricher(srv.URL).EnrichDates(context.Background(), items)

	mu.Lock()
	defer mu.Unlock()
	if peak > 5 {
		t.Errorf("peak concurrency = %d, want <= 5", peak)
	}
	for i := range got {
		if got[i].Date == nil {
			t.Errorf("got[%d].Date = nil, want enriched", i)
		}
	}
}

func TestEnrichDatesMalformedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "a list"}`)
	}))
	defer srv.Close()

	items := []model.RedditItem{datelessItem("R1", "https://www.reddit.com/r/golang/comments/a/b/")}
	got := newTestEnricher(srv.URL).EnrichDates(context.Background(), items)

	if got[0].Date != nil {
		t.Errorf("got[0].Date = %v, 形状不符应视为未补到日期", *got[0].Date)
	}
}

func TestCommentsPath(t *testing.T) {
	cases := []struct {
		rawURL string
		path   string
		ok     bool
	}{
		{"https://www.reddit.com/r/golang/comments/abc/title/", "/r/golang/comments/abc/title/", true},
		{"https://www.reddit.com/r/golang/wiki/index", "", false},
		{"https://www.reddit.com/user/x", "", false},
		{"://bad", "", false},
	}
	for _, c := range cases {
		path, ok := commentsPath(c.rawURL)
		if path != c.path || ok != c.ok {
			t.Errorf("commentsPath(%q) = (%q, %v), want (%q, %v)", c.rawURL, path, ok, c.path, c.ok)
		}
	}
}
