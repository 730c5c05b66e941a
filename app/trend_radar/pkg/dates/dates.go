package dates

import (
	"regexp"
	"time"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValid 判断字符串是否为严格的 YYYY-MM-DD 格式
func IsValid(s string) bool {
	return datePattern.MatchString(s)
}

// FromTimestamp 把 Unix 时间戳（秒）转换为 YYYY-MM-DD（UTC）
func FromTimestamp(ts float64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(int64(ts), 0).UTC().Format(time.DateOnly)
}

// Window 计算最近 days 天的起止日期（含今天）
func Window(now time.Time, days int) (from, to string) {
	to = now.Format(time.DateOnly)
	from = now.AddDate(0, 0, -days).Format(time.DateOnly)
	return from, to
}
