package layout

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// paragraphGap 是段落之间行间距的倍数。
const paragraphGap = 3

// TextBox 按换行符把文本拆成段落，并按字符类别逐段折行。
// 构造完成后只读。
type TextBox struct {
	faces      []Face
	opts       Options
	paragraphs []*Paragraph
	heights    [][]float64
}

// NewTextBox 对 text 完成全部折行。任何字符无法被回退链中的字体渲染时返回
// *GlyphNotFoundError。
func NewTextBox(text string, faces []Face, opts Options) (*TextBox, error) {
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}
	if opts.Normalize {
		text = norm.NFC.String(text)
	}
	tb := &TextBox{faces: faces, opts: opts}
	for i, segment := range strings.Split(text, "\n") {
		p, err := tb.wrap(strings.TrimSuffix(segment, "\r"))
		if err != nil {
			return nil, fmt.Errorf("layout: paragraph %d: %w", i, err)
		}
		tb.paragraphs = append(tb.paragraphs, p)
	}
	if err := tb.measure(); err != nil {
		return nil, err
	}
	return tb, nil
}

// wrap 是逐字符的折行状态机。
func (tb *TextBox) wrap(segment string) (*Paragraph, error) {
	p := NewParagraph(tb.faces, tb.opts)
	var word []rune
	flush := func() error {
		if len(word) == 0 {
			return nil
		}
		err := p.AddText(string(word))
		word = word[:0]
		return err
	}

	for _, r := range segment {
		// 连续字母数字缓存为一个单词，整体换行
		if IsAlnum(r) {
			word = append(word, r)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}

		s := string(r)
		fits, err := p.Check(s)
		if err != nil {
			return nil, err
		}
		if fits {
			if err := p.AddText(s); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case r == ' ':
			// 行已满时丢弃空格
		case IsSymbol(r):
			tb.overflowSymbol(p, r)
		default:
			p.place(s)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return p, nil
}

// overflowSymbol 处理放不下的标点：推挤到当前行，或者连同前面的字符一起换行。
func (tb *TextBox) overflowSymbol(p *Paragraph, r rune) {
	s := string(r)
	open := p.open
	if tb.opts.SymbolPush {
		count := float64(countFullWidthSymbols(open.runes))
		if count == 0 {
			count = 0.01
		}
		if 1/count < tb.opts.PushThreshold {
			Logger.Debugf("layout: push symbol %q, line has %v symbols", s, count)
			open.forceAppend(s)
			p.NewLine("")
			return
		}
	}
	if open.empty() {
		p.place(s)
		return
	}

	runes := open.runes
	pos := len(runes) - 1
	if last := runes[pos]; IsAlnum(last) || IsSymbol(last) {
		// 找到末尾单词（字母数字与标点组成）的起点，整体移到下一行
		pos = len(runes)
		for i := len(runes) - 1; i >= 0; i-- {
			if c := runes[i]; !IsAlnum(c) && !IsSymbol(c) {
				pos = i + 1
				break
			}
		}
	}
	if pos == 0 || pos == len(runes) {
		// 整行无处可断，标点只能留在本行
		open.forceAppend(s)
		return
	}

	seed := string(runes[pos:]) + s
	Logger.Debugf("layout: move %q to next line", seed)
	open.setRunes(runes[:pos])
	p.NewLine(seed)
}

func (tb *TextBox) measure() error {
	tb.heights = make([][]float64, len(tb.paragraphs))
	for i, p := range tb.paragraphs {
		for _, l := range p.Lines() {
			h, err := l.Height()
			if err != nil {
				return err
			}
			tb.heights[i] = append(tb.heights[i], h)
		}
	}
	return nil
}

// Paragraphs 返回全部段落。
func (tb *TextBox) Paragraphs() []*Paragraph { return tb.paragraphs }

// Options 返回排版配置。
func (tb *TextBox) Options() Options { return tb.opts }

// Height 返回总高度：行高之和，加上行间距，段落之间为三倍行间距。
// 与 Draw 使用同一套游标规则。
func (tb *TextBox) Height() float64 {
	bottom := 0.0
	tb.walk(0, func(_ *Line, y, h float64) { bottom = y + h })
	return bottom
}

// walk 按绘制顺序遍历每一行及其顶部坐标。
func (tb *TextBox) walk(y float64, fn func(l *Line, y, h float64)) {
	ls := tb.opts.LineSpacing
	for i, p := range tb.paragraphs {
		if i > 0 {
			y += paragraphGap * ls
		}
		for j, l := range p.Lines() {
			if j > 0 {
				y += ls
			}
			h := tb.heights[i][j]
			fn(l, y, h)
			y += h
		}
	}
}

// Positions 返回整段文本在 (x, y) 处的全部绘制位置。
func (tb *TextBox) Positions(x, y float64) ([]PositionedGlyph, error) {
	var out []PositionedGlyph
	var firstErr error
	tb.walk(y, func(l *Line, top, _ float64) {
		if firstErr != nil {
			return
		}
		glyphs, err := l.Positions(x, top)
		if err != nil {
			firstErr = err
			return
		}
		out = append(out, glyphs...)
	})
	return out, firstErr
}

// Draw 把所有行依次绘制到 sink。
func (tb *TextBox) Draw(sink Sink, x, y float64, fill color.Color) error {
	glyphs, err := tb.Positions(x, y)
	if err != nil {
		return err
	}
	return drawAll(sink, glyphs, fill)
}
