package webdomain

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name   string
		rawURL string
		domain string
		skip   bool
	}{
		{"普通域名", "https://example.com/post/1", "example.com", false},
		{"去掉 www 前缀", "https://www.example.com/post/1", "example.com", false},
		{"大小写不敏感", "https://WWW.Example.COM/a", "example.com", false},
		{"reddit 被排除", "https://reddit.com/r/golang/comments/abc/x", "", true},
		{"www.reddit 被排除", "https://www.reddit.com/r/golang", "", true},
		{"old.reddit 被排除", "https://old.reddit.com/r/golang", "", true},
		{"x.com 被排除", "https://x.com/someone/status/1", "", true},
		{"twitter 被排除", "https://twitter.com/someone", "", true},
		{"无法解析的 URL 保留", "://not-a-url", "", false},
		{"无 host", "/relative/path", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			domain, skip := Parse(c.rawURL)
			if domain != c.domain || skip != c.skip {
				t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", c.rawURL, domain, skip, c.domain, c.skip)
			}
		})
	}
}
