// Package citation 从 LLM 合成文本中按 [N] 引用标记提取标题、上下文片段与引用次数。
// 这些都是针对自然语言输出的启发式规则，允许漏检；调用方自行兜底。
package citation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Info 单个引用标记的提取结果
type Info struct {
	Title   string // 提取失败时为空
	Snippet string // 提取失败时为空
	Count   int    // [N] 在文本中出现的次数，至少为 1
}

// Analyzer 引用文本分析器接口，便于以后替换更强的解析实现
type Analyzer interface {
	Analyze(content string, numCitations int) []Info
}

// RegexAnalyzer 基于正则的默认实现
type RegexAnalyzer struct{}

var _ Analyzer = RegexAnalyzer{}

var markerPattern = regexp.MustCompile(`\[\d+\]`)
var emphasisReplacer = strings.NewReplacer("*", "", "_", "", "`", "")

// 标题/片段的模式带引用索引，无法在包级一次编译完，按展开后的模式缓存
var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

func indexPattern(format string, index int) *regexp.Regexp {
	expr := fmt.Sprintf(format, index)
	patternMu.Lock()
	defer patternMu.Unlock()
	re, ok := patternCache[expr]
	if !ok {
		re = regexp.MustCompile(expr)
		patternCache[expr] = re
	}
	return re
}

// Analyze 对 1..numCitations 的每个引用索引做三路独立提取。
// 返回切片下标 i 对应引用索引 i+1。
func (RegexAnalyzer) Analyze(content string, numCitations int) []Info {
	infos := make([]Info, numCitations)
	for i := range infos {
		index := i + 1
		infos[i] = Info{
			Title:   extractTitle(content, index),
			Snippet: extractSnippet(content, index),
			Count:   countReferences(content, index),
		}
	}
	return infos
}

// countReferences 统计 [index] 的精确出现次数。
// 标记后紧跟数字的不算，避免与多位数索引混淆。
// RE2 不支持负向先行断言，这里手动扫描。
func countReferences(content string, index int) int {
	marker := fmt.Sprintf("[%d]", index)
	count := 0
	for off := 0; ; {
		j := strings.Index(content[off:], marker)
		if j < 0 {
			break
		}
		next := off + j + len(marker)
		if next >= len(content) {
			count++
			break
		}
		if r, _ := utf8.DecodeRuneInString(content[next:]); !unicode.IsDigit(r) {
			count++
		}
		off = next
	}
	if count == 0 {
		count = 1
	}
	return count
}

// extractTitle 在 [index] 后面找一段 5-80 字符、不含换行和'['的文本作为标题
func extractTitle(content string, index int) string {
	if content == "" {
		return ""
	}
	m := indexPattern(`\[%d\][)\s]*([^\[\n]{5,80})`, index).FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	title := strings.TrimRight(strings.TrimSpace(m[1]), ".")
	title = emphasisReplacer.Replace(title)
	if utf8.RuneCountInString(title) <= 3 {
		return ""
	}
	return title
}

// extractSnippet 取包含 [index] 的那个句子，去掉引用标记和强调符号
func extractSnippet(content string, index int) string {
	if content == "" {
		return ""
	}
	m := indexPattern(`[^.]*\[%d\][^.]*\.`, index).FindString(content)
	if m == "" {
		return ""
	}
	snippet := strings.TrimSpace(markerPattern.ReplaceAllString(strings.TrimSpace(m), ""))
	snippet = emphasisReplacer.Replace(snippet)
	if utf8.RuneCountInString(snippet) <= 10 {
		return ""
	}
	return snippet
}
