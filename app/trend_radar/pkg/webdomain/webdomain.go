package webdomain

import (
	"net/url"
	"strings"
)

// excluded 社交平台域名黑名单（Reddit / X 走各自的专用搜索路径）
var excluded = map[string]bool{
	"reddit.com":      true,
	"www.reddit.com":  true,
	"old.reddit.com":  true,
	"twitter.com":     true,
	"www.twitter.com": true,
	"x.com":           true,
	"www.x.com":       true,
}

// Parse 解析 URL 的域名并判断是否在黑名单中。
// 先用小写后、保留 www. 前缀的 host 查黑名单，存储时再去掉 www. 前缀。
// URL 解析失败视为"无域名"，条目保留但 domain 为空。
func Parse(rawURL string) (domain string, skip bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	if excluded[host] {
		return "", true
	}
	return strings.TrimPrefix(host, "www."), false
}
