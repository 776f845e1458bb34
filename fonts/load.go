package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// builtins 是随程序一同编译的 Go 字体。
var builtins = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-italic":  goitalic.TTF,
	"go-mono":    gomono.TTF,
}

// Builtins 返回全部内置字体名称。
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体的字节数据。src 可写为 "builtin:go-regular"（也接受 "built-in:"），
// 或者相对 baseDir 的文件路径。
func Load(src, baseDir string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("字体路径为空")
	}
	if name, ok := builtinName(src); ok {
		data, found := builtins[name]
		if !found {
			return nil, fmt.Errorf("找不到内置字体 builtin:%s（可用：%s）", name, strings.Join(Builtins(), ", "))
		}
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{"builtin:", "built-in:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.TrimPrefix(src, prefix), true
		}
	}
	return "", false
}
