package layout

import (
	"image/color"
	"strings"
)

// Run 是一段文本解析到字体并完成宽度调整后的字形序列。
// 它在每次测量或绘制时重新生成，不会被持久化。
type Run struct {
	runes   []rune
	glyphs  []Glyph
	spacing float64
}

// NewRun 按回退链为每个字符选择字体并计算调整后的宽度。
func NewRun(text string, faces []Face, spacing float64) (*Run, error) {
	runes := []rune(text)
	run := &Run{
		runes:   runes,
		glyphs:  make([]Glyph, 0, len(runes)),
		spacing: spacing,
	}
	last := len(runes) - 1
	for i, r := range runes {
		face, err := resolveFace(r, faces)
		if err != nil {
			return nil, err
		}
		adv, height := face.Advance(r)
		var offsetX float64

		// 行首开括号、行尾句读压缩为半宽
		if i == 0 && strings.ContainsRune(openingMarks, r) {
			adv /= 2
			offsetX = -adv
		} else if i == last && strings.ContainsRune(closingMarks, r) {
			adv /= 2
		}

		if i < last {
			next := runes[i+1]
			if strings.ContainsRune(squeezeFirst, r) && strings.ContainsRune(squeezeSecond, next) {
				adv /= 2
			}
			adv += boundarySpace(runes, i, face.Size())
		}

		run.glyphs = append(run.glyphs, Glyph{
			Rune:    r,
			Face:    face,
			Advance: adv,
			Height:  height,
			OffsetX: offsetX,
		})
	}
	return run, nil
}

// boundarySpace 在中文与字母数字相邻处补四分之一字号的间距。
func boundarySpace(runes []rune, i int, size float64) float64 {
	r, next := runes[i], runes[i+1]
	quarter := size / 4
	switch {
	case IsChinese(r) && IsAlnum(next):
		return quarter
	case IsAlnum(r) && IsChinese(next):
		return quarter
	case i+2 < len(runes) && IsChinese(r) && IsHalfwidth(next) && IsAlnum(runes[i+2]):
		return quarter
	case i > 0 && IsAlnum(runes[i-1]) && IsHalfwidth(r) && IsChinese(next):
		return quarter
	}
	return 0
}

func resolveFace(r rune, faces []Face) (Face, error) {
	for _, face := range faces {
		if face.HasGlyph(r) {
			return face, nil
		}
	}
	return nil, &GlyphNotFoundError{Rune: r}
}

// Glyphs 返回字形序列（调用方不应修改）。
func (run *Run) Glyphs() []Glyph { return run.glyphs }

// Spacing 返回生成时使用的字间距。
func (run *Run) Spacing() float64 { return run.spacing }

func (run *Run) step(r rune) float64 {
	if IsHalfwidth(r) {
		return run.spacing / 4
	}
	return run.spacing
}

// Length 返回排版长度：宽度与字间距之和，减去末尾多出的一次字间距。
func (run *Run) Length() float64 {
	x, lastStep := 0.0, 0.0
	for _, g := range run.glyphs {
		lastStep = run.step(g.Rune)
		x += g.Advance + lastStep
	}
	return x - lastStep
}

// BBox 返回 (长度, 最大字形高度)。
func (run *Run) BBox() (float64, float64) {
	h := 0.0
	for _, g := range run.glyphs {
		if g.Height > h {
			h = g.Height
		}
	}
	return run.Length(), h
}

// Positions 计算从 (x, y) 开始的绘制位置。
func (run *Run) Positions(x, y float64) []PositionedGlyph {
	out := make([]PositionedGlyph, 0, len(run.glyphs))
	for _, g := range run.glyphs {
		dx, dy := g.Face.Offset()
		out = append(out, PositionedGlyph{
			Rune:    g.Rune,
			Face:    g.Face,
			X:       x + dx + g.OffsetX,
			Y:       y + dy + g.OffsetY,
			Advance: g.Advance,
		})
		x += g.Advance + run.step(g.Rune)
	}
	return out
}

// Draw 将字形逐个交给 sink。
func (run *Run) Draw(sink Sink, x, y float64, fill color.Color) error {
	return drawAll(sink, run.Positions(x, y), fill)
}

func drawAll(sink Sink, glyphs []PositionedGlyph, fill color.Color) error {
	for _, g := range glyphs {
		if err := sink.DrawGlyph(g, fill); err != nil {
			return err
		}
	}
	return nil
}
