package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${name} 替换为 values 中同名字段的值。
// ${name|默认值} 在字段缺失时使用默认值；字段缺失且没有默认值时保留原占位符，
// 因此 shell 脚本中的 ${VAR} 之类的写法不会被破坏。
func Interpolate(text string, values map[string]string) string {
	if len(values) == 0 && !strings.Contains(text, "|") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name, fallback, hasFallback := strings.Cut(groups[1], "|")
		name = strings.TrimSpace(name)
		if name == "" {
			return match
		}
		if val, ok := values[name]; ok {
			return val
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Fields 返回 text 中引用的字段名，按首次出现的顺序去重。
func Fields(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		name, _, _ := strings.Cut(groups[1], "|")
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
