package layout

import (
	"image/color"
	"strings"
)

// fakeFace 是等宽测试字体：半角字符宽度为字号一半，其余为一个字号。
type fakeFace struct {
	size   float64
	only   string
	dx, dy float64
}

func newFakeFace(size float64) *fakeFace { return &fakeFace{size: size} }

func (f *fakeFace) HasGlyph(r rune) bool {
	if f.only == "" {
		return true
	}
	return strings.ContainsRune(f.only, r)
}

func (f *fakeFace) Advance(r rune) (float64, float64) {
	if IsHalfwidth(r) {
		return f.size / 2, f.size
	}
	return f.size, f.size
}

func (f *fakeFace) Size() float64 { return f.size }

func (f *fakeFace) Offset() (float64, float64) { return f.dx, f.dy }

// recorder 记录所有绘制指令。
type recorder struct {
	calls []PositionedGlyph
	fills []color.Color
}

func (r *recorder) DrawGlyph(g PositionedGlyph, fill color.Color) error {
	r.calls = append(r.calls, g)
	r.fills = append(r.fills, fill)
	return nil
}

func faces20() []Face { return []Face{newFakeFace(20)} }

func testOptions(maxWidth float64) Options {
	opts := DefaultOptions()
	opts.MaxWidth = maxWidth
	return opts
}
