package compose

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/anyquote/dsl"
	"github.com/ByLCY/anyquote/layout"
)

const cardDSL = `
quote Hello v1 {
  meta {
    title: "Hello"
    keywords: ["a", "b"]
  }
  resources {
    font Body { src: "builtin:go-regular" size: 20px }
    font Mono { src: "builtin:go-mono" size: 20px }
    color Ink = #333
  }
  card width 300px padding 10px gap 4px background #fafafa {
    text Body align left { "Hello ${name|World}" }
    gap 6px
    text Mono size 10px color Ink { "abc" }
  }
}
`

func build(t *testing.T, src string, opts Options) *Card {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	card, err := Build(doc, opts)
	if err != nil {
		t.Fatalf("构建卡片失败: %v", err)
	}
	return card
}

func buildErr(t *testing.T, src string, opts Options) error {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	_, err = Build(doc, opts)
	if err == nil {
		t.Fatalf("期望构建失败")
	}
	return err
}

func TestBuildStacksBlocks(t *testing.T) {
	card := build(t, cardDSL, Options{})
	if card.Width != 300 || card.Padding != 10 {
		t.Fatalf("卡片尺寸错误: %#v", card)
	}
	if card.Background != (color.RGBA{0xfa, 0xfa, 0xfa, 0xff}) {
		t.Fatalf("背景色错误: %v", card.Background)
	}
	if card.Meta.Title != "Hello" || card.Meta.Creator != "anyquote" || len(card.Meta.Keywords) != 2 {
		t.Fatalf("元信息错误: %#v", card.Meta)
	}
	if len(card.Texts) != 2 {
		t.Fatalf("应有 2 个文本块，实际 %d", len(card.Texts))
	}

	first, second := card.Texts[0], card.Texts[1]
	if first.X != 10 || first.Y != 10 || first.Width != 280 {
		t.Fatalf("第一个文本块位置错误: x=%g y=%g w=%g", first.X, first.Y, first.Width)
	}
	if got := first.Box.Paragraphs()[0].Open().Text(); got != "Hello World" {
		t.Fatalf("默认值未生效: %q", got)
	}
	if first.Height() != 20 {
		t.Fatalf("单行高度应为字号 20，实际 %g", first.Height())
	}
	// 10 + 20 + gap 6 + 卡片间距 4
	if second.Y != 40 {
		t.Fatalf("第二个文本块 y got=%g want=40", second.Y)
	}
	if second.Fill != (color.RGBA{0x33, 0x33, 0x33, 0xff}) {
		t.Fatalf("命名颜色未生效: %v", second.Fill)
	}
	if second.Faces[0].Size() != 10 || first.Faces[0].Size() != 20 {
		t.Fatalf("字号只应作用于本文本块")
	}
	if card.Height != 60 {
		t.Fatalf("卡片高度 got=%g want=60", card.Height)
	}
}

func TestBuildBindsData(t *testing.T) {
	card := build(t, cardDSL, Options{Data: map[string]any{"name": "Go"}})
	if got := card.Texts[0].Box.Paragraphs()[0].Open().Text(); got != "Hello Go" {
		t.Fatalf("数据绑定失败: %q", got)
	}
}

func TestBuildFallbackChainAndGlyphErrors(t *testing.T) {
	src := strings.Replace(cardDSL, `"Hello ${name|World}"`, `"你好"`, 1)
	err := buildErr(t, src, Options{})
	if !errors.Is(err, layout.ErrGlyphNotFound) {
		t.Fatalf("期望 ErrGlyphNotFound，实际 %v", err)
	}
	var gerr *layout.GlyphNotFoundError
	if !errors.As(err, &gerr) || gerr.Rune != '你' {
		t.Fatalf("错误应指明缺失字符: %v", err)
	}
}

func TestBuildWrapsToInnerWidth(t *testing.T) {
	src := `
quote W v1 {
  resources { font Body { src: "builtin:go-regular" size: 20px } }
  card width 120px padding 10px {
    text Body line-spacing 2px { "the quick brown fox jumps over the lazy dog" }
  }
}`
	card := build(t, src, Options{})
	box := card.Texts[0].Box
	lines := box.Paragraphs()[0].Lines()
	if len(lines) < 3 {
		t.Fatalf("窄卡片应折成多行，实际 %d 行", len(lines))
	}
	for _, l := range lines {
		if w, _ := l.Width(); w > 100+1e-6 {
			t.Fatalf("行 %q 宽 %g 超出 100", l.Text(), w)
		}
		if strings.Contains(strings.TrimSpace(l.Text()), "  ") {
			t.Fatalf("行内出现多余空格: %q", l.Text())
		}
	}
	want := float64(len(lines))*20 + float64(len(lines)-1)*2
	if box.Height() != want {
		t.Fatalf("高度 got=%g want=%g", box.Height(), want)
	}
}

func TestBuildNoWrap(t *testing.T) {
	src := `
quote W v1 {
  resources { font Body { src: "builtin:go-regular" } }
  card width 100px {
    text wrap off { "the quick brown fox jumps over the lazy dog" }
  }
}`
	card := build(t, src, Options{})
	if n := len(card.Texts[0].Box.Paragraphs()[0].Lines()); n != 1 {
		t.Fatalf("关闭折行后应只有一行，实际 %d", n)
	}
	if card.Texts[0].Faces[0].Size() != defaultFontSize {
		t.Fatalf("默认字号错误")
	}
}

func TestBuildAbsoluteAndImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	f, err := os.Create(filepath.Join(dir, "avatar.png"))
	if err != nil {
		t.Fatalf("创建图片失败: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("编码图片失败: %v", err)
	}
	f.Close()

	src := `
quote A v1 {
  resources { font Body { src: "builtin:go-regular" size: 16px } }
  card width 400px padding 20px radius 12px {
    image src "avatar.png" width 80px
    text Body x 100px y 0px { "name" }
    text Body { "body" }
  }
}`
	card := build(t, src, Options{BaseDir: dir})
	if len(card.Images) != 1 {
		t.Fatalf("应有 1 张图片")
	}
	im := card.Images[0]
	if im.X != 20 || im.Y != 20 || im.Width != 80 || im.Height != 40 {
		t.Fatalf("图片几何错误: %#v", im)
	}
	name, body := card.Texts[0], card.Texts[1]
	if name.X != 120 || name.Y != 20 {
		t.Fatalf("绝对定位错误: x=%g y=%g", name.X, name.Y)
	}
	if body.Y != 60 {
		t.Fatalf("绝对定位元素不应推进游标: y=%g", body.Y)
	}
	if card.Height != 96 || card.Radius != 12 {
		t.Fatalf("卡片高度或圆角错误: h=%g r=%g", card.Height, card.Radius)
	}

	if err := buildErr(t, src, Options{}); !strings.Contains(err.Error(), "avatar.png") {
		t.Fatalf("缺少资源目录时应报告图片路径: %v", err)
	}
}

func TestBuildFixedHeight(t *testing.T) {
	src := strings.Replace(cardDSL, "card width 300px", "card width 300px height 500px", 1)
	if card := build(t, src, Options{}); card.Height != 500 {
		t.Fatalf("固定高度应保留，实际 %g", card.Height)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"缺少 card":  `quote E v1 { meta { title: "x" } }`,
		"未声明字体":    `quote E v1 { resources { font Body { src: "builtin:go-regular" } } card { text Nope { "x" } } }`,
		"没有字体":     `quote E v1 { card { text { "x" } } }`,
		"未知属性":     `quote E v1 { resources { font Body { src: "builtin:go-regular" } } card { text Body bogus 1 { "x" } } }`,
		"未知元素":     `quote E v1 { resources { font Body { src: "builtin:go-regular" } } card { table { } } }`,
		"错误对齐":     `quote E v1 { resources { font Body { src: "builtin:go-regular" } } card { text Body align middle { "x" } } }`,
		"错误颜色":     `quote E v1 { resources { color Bad = red } card { } }`,
		"重复字体":     `quote E v1 { resources { font A { src: "builtin:go-regular" } font A { src: "builtin:go-bold" } } card { } }`,
		"错误字号":     `quote E v1 { resources { font A { src: "builtin:go-regular" size: -3px } } card { } }`,
		"找不到内置字体":  `quote E v1 { resources { font A { src: "builtin:nope" } } card { } }`,
		"未知卡片参数":   `quote E v1 { card shadow 3px { } }`,
		"gap 缺少长度": `quote E v1 { card { gap } }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			buildErr(t, src, Options{})
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#fff":      {0xff, 0xff, 0xff, 0xff},
		"#0F62FE":   {0x0f, 0x62, 0xfe, 0xff},
		"#ff000080": {0x80, 0, 0, 0x80},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %v, %v；期望 %v", in, got, err, want)
		}
	}
	if _, err := parseColor("#zzzzzz"); err == nil {
		t.Fatalf("期望解析失败")
	}
}

func TestSnapshot(t *testing.T) {
	card := build(t, cardDSL, Options{})
	snap, err := card.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Height != card.Height || len(snap.Texts) != 2 {
		t.Fatalf("快照错误: %#v", snap)
	}
	if snap.Texts[1].Faces[0] != "Mono@10px" {
		t.Fatalf("字体描述错误: %v", snap.Texts[1].Faces)
	}
	if snap.Texts[0].Layout.Paragraphs[0].Lines[0].Content != "Hello World" {
		t.Fatalf("快照行内容错误")
	}

	path := filepath.Join(t.TempDir(), "card.json")
	if err := layout.WriteDebugJSON(snap, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || !strings.Contains(string(data), `"Hello World"`) {
		t.Fatalf("调试 JSON 内容错误: %v", err)
	}
}
