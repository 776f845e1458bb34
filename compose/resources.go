package compose

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ByLCY/anyquote/dsl"
	"github.com/ByLCY/anyquote/fonts"
	"github.com/ByLCY/anyquote/layout"
)

const defaultFontSize = 32.0

// resourceSet 保存 resources 段中声明的字体与颜色。
type resourceSet struct {
	fonts     map[string]*fonts.Face
	fontOrder []string
	colors    map[string]color.RGBA
}

func collectMeta(doc *dsl.Document) Meta {
	meta := Meta{Creator: "anyquote"}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for key, val := range section.Meta.Block.Attrs() {
			switch key {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "keywords":
				meta.Keywords = val.Strings()
			}
		}
	}
	return meta
}

func collectResources(doc *dsl.Document, opts Options) (*resourceSet, error) {
	res := &resourceSet{
		fonts:  map[string]*fonts.Face{},
		colors: map[string]color.RGBA{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			var err error
			switch stmt.Command.Name {
			case "font":
				err = res.addFont(stmt.Command, opts.BaseDir)
			case "color":
				err = res.addColor(stmt.Command)
			default:
				err = fmt.Errorf("%s: 未知的资源类型 %s", stmt.Command.Pos, stmt.Command.Name)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// addFont 解析 `font Name { src: ... size: ... offset: [dx, dy] index: n }`。
func (res *resourceSet) addFont(cmd *dsl.Command, baseDir string) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%s: font 缺少名称", cmd.Pos)
	}
	name := cmd.Args[0].Value
	if _, dup := res.fonts[name]; dup {
		return fmt.Errorf("%s: 字体 %s 重复声明", cmd.Pos, name)
	}
	attrs := cmd.Block.Attrs()

	size := defaultFontSize
	if v, ok := attrs["size"]; ok {
		l, err := layout.ParseLength(v.Text())
		if err != nil || l.PX() <= 0 {
			return fmt.Errorf("%s: 字体 %s 的字号 %q 无效", cmd.Pos, name, v.Text())
		}
		size = l.PX()
	}

	opts := fonts.Options{Name: name}
	if v, ok := attrs["offset"]; ok {
		parts := v.Strings()
		if len(parts) != 2 {
			return fmt.Errorf("%s: 字体 %s 的 offset 需要两个值", cmd.Pos, name)
		}
		for i, p := range parts {
			l, err := layout.ParseLength(p)
			if err != nil {
				return fmt.Errorf("%s: 字体 %s 的 offset 无效: %w", cmd.Pos, name, err)
			}
			opts.Offset[i] = l.PX()
		}
	}
	if v, ok := attrs["index"]; ok {
		idx, err := strconv.Atoi(v.Text())
		if err != nil || idx < 0 {
			return fmt.Errorf("%s: 字体 %s 的 index %q 无效", cmd.Pos, name, v.Text())
		}
		opts.Index = idx
	}

	data, err := fonts.Load(attrs["src"].Text(), baseDir)
	if err != nil {
		return fmt.Errorf("%s: 字体 %s: %w", cmd.Pos, name, err)
	}
	face, err := fonts.New(data, size, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	res.fonts[name] = face
	res.fontOrder = append(res.fontOrder, name)
	return nil
}

// addColor 解析 `color Name = #rrggbb`。
func (res *resourceSet) addColor(cmd *dsl.Command) error {
	if len(cmd.Args) < 2 {
		return fmt.Errorf("%s: color 需要名称与取值", cmd.Pos)
	}
	name := cmd.Args[0].Value
	c, err := parseColor(cmd.Args[len(cmd.Args)-1].Value)
	if err != nil {
		return fmt.Errorf("%s: 颜色 %s: %w", cmd.Pos, name, err)
	}
	res.colors[name] = c
	return nil
}

// lookupColor 先查找命名颜色，再按十六进制解析。
func (res *resourceSet) lookupColor(value string) (color.RGBA, error) {
	if c, ok := res.colors[value]; ok {
		return c, nil
	}
	return parseColor(value)
}

// faces 按名称返回克隆后的回退链；names 为空时使用全部字体的声明顺序。
func (res *resourceSet) faces(names []string) ([]*fonts.Face, error) {
	if len(names) == 0 {
		names = res.fontOrder
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("没有声明任何字体")
	}
	out := make([]*fonts.Face, 0, len(names))
	for _, name := range names {
		face, ok := res.fonts[name]
		if !ok {
			return nil, fmt.Errorf("未声明的字体 %s", name)
		}
		out = append(out, face.Clone())
	}
	return out, nil
}

func parseColor(value string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("无法解析开关值 %q", value)
}

func parsePX(value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, fmt.Errorf("无法解析长度 %q", value)
	}
	return l.PX(), nil
}
