package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ${path} 或 ${path|默认值}
var exprPattern = regexp.MustCompile(`\$\{([^}|]*)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时使用 | 之后的默认值；没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		hasDefault := strings.Contains(match, "|")
		if path != "" && data != nil {
			if val, ok := Lookup(data, path); ok && val != nil {
				return format(val)
			}
		}
		if hasDefault {
			return groups[2]
		}
		return match
	})
}

// Missing 返回文本中既无法解析、也没有默认值的占位符路径。
func Missing(text string, data any) []string {
	var out []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		if strings.Contains(groups[0], "|") {
			continue
		}
		path := strings.TrimSpace(groups[1])
		if _, ok := Lookup(data, path); !ok || data == nil {
			out = append(out, path)
		}
	}
	return out
}

// Lookup 按 a.b[0].c 形式的路径取值，支持 map[string]any、[]any 以及结构体导出字段。
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendField(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendIndex(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := strings.TrimSpace(segment)
	var indexes []string
	if i := strings.Index(name, "["); i != -1 {
		rest := name[i:]
		name = name[:i]
		for strings.HasPrefix(rest, "[") {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendField(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	}
	v := reflect.Indirect(reflect.ValueOf(current))
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f := v.FieldByName(key)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

func descendIndex(current any, idx int) (any, bool) {
	if c, ok := current.([]any); ok {
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}
	v := reflect.ValueOf(current)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}
	if idx < 0 || idx >= v.Len() {
		return nil, false
	}
	return v.Index(idx).Interface(), true
}

// format 让 JSON 解码得到的整数 float64 不带小数点。
func format(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
