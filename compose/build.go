package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/anyquote/binding"
	"github.com/ByLCY/anyquote/dsl"
	"github.com/ByLCY/anyquote/fonts"
	"github.com/ByLCY/anyquote/layout"
)

const defaultCardWidth = 600.0

// Build 根据 DSL AST 排版出一张卡片。
func Build(doc *dsl.Document, opts Options) (*Card, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	section := firstCard(doc)
	if section == nil {
		return nil, fmt.Errorf("文档中缺少 card 段落")
	}
	res, err := collectResources(doc, opts)
	if err != nil {
		return nil, err
	}

	card := &Card{
		Name:       doc.Name,
		Width:      defaultCardWidth,
		Background: parseColorOr("#ffffff"),
		Meta:       collectMeta(doc),
	}
	_, params, err := dsl.SplitArgs(section.Params)
	if err != nil {
		return nil, fmt.Errorf("card: %w", err)
	}
	st := &stack{card: card, res: res, opts: opts}
	if err := st.applyCardParams(params); err != nil {
		return nil, fmt.Errorf("card: %w", err)
	}

	st.cursor = card.Padding
	for _, stmt := range section.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		var err error
		switch cmd.Name {
		case "text":
			err = st.addText(cmd)
		case "image":
			err = st.addImage(cmd)
		case "gap":
			err = st.addGap(cmd)
		default:
			err = fmt.Errorf("未知的元素 %s", cmd.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}

	if st.fixedHeight <= 0 {
		card.Height = math.Ceil(st.bottom() + card.Padding)
	}
	layout.Logger.Debugf("compose: card %s %gx%g, %d texts, %d images",
		card.Name, card.Width, card.Height, len(card.Texts), len(card.Images))
	return card, nil
}

// stack 自上而下排放元素；带 x/y 的元素绝对定位，不推进游标。
type stack struct {
	card        *Card
	res         *resourceSet
	opts        Options
	cursor      float64
	gap         float64
	placed      int
	fixedHeight float64
	absBottom   float64
}

func (st *stack) applyCardParams(params map[string]string) error {
	c := st.card
	for key, val := range params {
		var err error
		switch key {
		case "width":
			c.Width, err = parsePX(val)
			if err == nil && c.Width <= 0 {
				err = fmt.Errorf("宽度必须为正数")
			}
		case "height":
			st.fixedHeight, err = parsePX(val)
			c.Height = st.fixedHeight
		case "padding":
			c.Padding, err = parsePX(val)
		case "radius":
			c.Radius, err = parsePX(val)
		case "gap":
			st.gap, err = parsePX(val)
		case "background":
			c.Background, err = st.res.lookupColor(val)
		default:
			err = fmt.Errorf("未知的参数 %s", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (st *stack) innerWidth() float64 {
	return st.card.Width - 2*st.card.Padding
}

func (st *stack) bottom() float64 {
	return math.Max(st.cursor, st.absBottom)
}

// place 返回元素左上角位置，并在流式排放时推进游标。
func (st *stack) place(attrs map[string]string, height float64) (float64, float64, error) {
	x, y := st.card.Padding, 0.0
	xs, hasX := attrs["x"]
	ys, hasY := attrs["y"]
	if hasX || hasY {
		if hasX {
			v, err := parsePX(xs)
			if err != nil {
				return 0, 0, err
			}
			x = st.card.Padding + v
		}
		y = st.card.Padding
		if hasY {
			v, err := parsePX(ys)
			if err != nil {
				return 0, 0, err
			}
			y += v
		}
		st.absBottom = math.Max(st.absBottom, y+height)
		return x, y, nil
	}
	if st.placed > 0 {
		st.cursor += st.gap
	}
	y = st.cursor
	st.cursor += height
	st.placed++
	return x, y, nil
}

func (st *stack) addGap(cmd *dsl.Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("gap 需要一个长度")
	}
	v, err := parsePX(cmd.Args[0].Value)
	if err != nil {
		return err
	}
	st.cursor += v
	return nil
}

func (st *stack) addText(cmd *dsl.Command) error {
	names, attrs, err := dsl.SplitArgs(cmd.Args)
	if err != nil {
		return err
	}
	for key, val := range cmd.Block.Attrs() {
		attrs[key] = val.Text()
	}

	faces, err := st.res.faces(names)
	if err != nil {
		return err
	}
	opts := layout.DefaultOptions()
	opts.MaxWidth = st.innerWidth()
	fill := parseColorOr("#000000")
	wrap := true

	for key, val := range attrs {
		var err error
		switch key {
		case "x", "y":
		case "size":
			var size float64
			if size, err = parsePX(val); err == nil {
				if size <= 0 {
					err = fmt.Errorf("字号必须为正数")
				}
				for _, f := range faces {
					f.Resize(size)
				}
			}
		case "width":
			opts.MaxWidth, err = parsePX(val)
		case "align":
			opts.Align, err = layout.ParseAlign(val)
		case "spacing":
			opts.Spacing, err = parsePX(val)
		case "line-spacing":
			opts.LineSpacing, err = parsePX(val)
		case "push":
			opts.SymbolPush, err = parseBool(val)
		case "push-threshold":
			opts.PushThreshold, err = strconv.ParseFloat(val, 64)
		case "normalize":
			opts.Normalize, err = parseBool(val)
		case "wrap":
			wrap, err = parseBool(val)
		case "color":
			fill, err = st.res.lookupColor(val)
		default:
			err = fmt.Errorf("未知的属性")
		}
		if err != nil {
			return fmt.Errorf("text %s: %w", key, err)
		}
	}
	width := opts.MaxWidth
	if !wrap {
		opts.MaxWidth = 0
	}

	content := binding.Interpolate(strings.Join(cmd.Block.Texts(), "\n"), st.opts.Data)
	if missing := binding.Missing(content, st.opts.Data); len(missing) > 0 {
		layout.Logger.Warnf("compose: unresolved placeholders %v", missing)
	}
	box, err := layout.NewTextBox(content, layoutFaces(faces), opts)
	if err != nil {
		return err
	}
	x, y, err := st.place(attrs, box.Height())
	if err != nil {
		return err
	}
	st.card.Texts = append(st.card.Texts, TextBlock{
		X:     x,
		Y:     y,
		Width: width,
		Fill:  fill,
		Faces: faces,
		Box:   box,
	})
	return nil
}

func (st *stack) addImage(cmd *dsl.Command) error {
	_, attrs, err := dsl.SplitArgs(cmd.Args)
	if err != nil {
		return err
	}
	for key, val := range cmd.Block.Attrs() {
		attrs[key] = val.Text()
	}
	src := attrs["src"]
	if src == "" {
		return fmt.Errorf("image 缺少 src")
	}
	data, err := st.loadImage(src)
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	if v, ok := attrs["width"]; ok {
		if w, err = parsePX(v); err != nil {
			return err
		}
		h = w * float64(cfg.Height) / float64(cfg.Width)
	}
	if v, ok := attrs["height"]; ok {
		if h, err = parsePX(v); err != nil {
			return err
		}
		if _, hasW := attrs["width"]; !hasW {
			w = h * float64(cfg.Width) / float64(cfg.Height)
		}
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("图片 %s 尺寸无效", src)
	}
	x, y, err := st.place(attrs, h)
	if err != nil {
		return err
	}
	st.card.Images = append(st.card.Images, ImageBlock{X: x, Y: y, Width: w, Height: h, Src: src, Data: data})
	return nil
}

func (st *stack) loadImage(src string) ([]byte, error) {
	path := src
	if !filepath.IsAbs(path) {
		if st.opts.BaseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用图片路径：%s", src)
		}
		path = filepath.Join(st.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	return data, nil
}

func layoutFaces(faces []*fonts.Face) []layout.Face {
	out := make([]layout.Face, len(faces))
	for i, f := range faces {
		out[i] = f
	}
	return out
}

func firstCard(doc *dsl.Document) *dsl.CardSection {
	for _, section := range doc.Sections {
		if section.Card != nil {
			return section.Card
		}
	}
	return nil
}

func parseColorOr(value string) color.RGBA {
	c, _ := parseColor(value)
	return c
}
