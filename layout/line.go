package layout

import (
	"image/color"
	"math"
)

// Line 是可以渲染的一行。构造期间处于打开状态，可以追加文本；
// 被段落闭合后文本冻结，Append 返回 ErrLineClosed。
type Line struct {
	runes  []rune
	faces  []Face
	opts   LineOptions
	closed bool
}

// NewLine 创建一个打开状态的行。
func NewLine(text string, faces []Face, opts LineOptions) *Line {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = math.Inf(1)
	}
	return &Line{runes: []rune(text), faces: faces, opts: opts}
}

func (l *Line) Text() string       { return string(l.runes) }
func (l *Line) Align() Align       { return l.opts.Align }
func (l *Line) MaxWidth() float64  { return l.opts.MaxWidth }
func (l *Line) Closed() bool       { return l.closed }
func (l *Line) RuneCount() int     { return len(l.runes) }
func (l *Line) empty() bool        { return len(l.runes) == 0 }
func (l *Line) lastRune() rune     { return l.runes[len(l.runes)-1] }
func (l *Line) setRunes(rs []rune) { l.runes = rs }

// Append 尝试把文本追加到行尾。放不下时返回 Overflow，行内容不变；
// 只有单个全角标点满足推挤条件时才允许超宽追加。
func (l *Line) Append(s string) (AppendResult, error) {
	if l.closed {
		return Overflow, ErrLineClosed
	}
	candidate := append(append([]rune{}, l.runes...), []rune(s)...)
	run, err := NewRun(string(candidate), l.faces, l.opts.Spacing)
	if err != nil {
		return Overflow, err
	}
	if run.Length() <= l.opts.MaxWidth {
		l.runes = candidate
		return Fits, nil
	}
	ok, err := l.canPush(s)
	if err != nil {
		return Overflow, err
	}
	if ok {
		Logger.Debugf("layout: push %q onto full line %q", s, l.Text())
		l.runes = candidate
		return Fits, nil
	}
	return Overflow, nil
}

func (l *Line) canPush(s string) (bool, error) {
	rs := []rune(s)
	if !l.opts.SymbolPush || len(rs) != 1 || !IsFullWidthSymbol(rs[0]) {
		return false, nil
	}
	run, err := NewRun(s, l.faces, 0)
	if err != nil {
		return false, err
	}
	count := float64(countFullWidthSymbols(l.runes))
	if count == 0 {
		count = 0.01
	}
	return run.Length()/count < 1-l.opts.PushThreshold, nil
}

// forceAppend 不检查宽度直接追加，用于单字符超宽或标点推挤。
func (l *Line) forceAppend(s string) {
	l.runes = append(l.runes, []rune(s)...)
}

// Close 去掉行尾空白、设置对齐方式并冻结该行。
func (l *Line) Close(align Align) {
	l.runes = trimRightSpace(l.runes)
	l.opts.Align = align
	l.closed = true
}

// Run 按行自身的字间距生成字形序列。
func (l *Line) Run() (*Run, error) {
	return NewRun(l.Text(), l.faces, l.opts.Spacing)
}

// Height 返回行内最大字形高度，与对齐方式无关。
func (l *Line) Height() (float64, error) {
	run, err := l.Run()
	if err != nil {
		return 0, err
	}
	_, h := run.BBox()
	return h, nil
}

// BBox 左对齐时返回实际长度，其余对齐方式占满整行宽度。
func (l *Line) BBox() (float64, float64, error) {
	run, err := l.Run()
	if err != nil {
		return 0, 0, err
	}
	w, h := run.BBox()
	if l.opts.Align != AlignLeft && !math.IsInf(l.opts.MaxWidth, 1) {
		w = l.opts.MaxWidth
	}
	return w, h, nil
}

// Width 返回对齐调整之后实际绘制的长度（不含左右对齐产生的位移）。
func (l *Line) Width() (float64, error) {
	run, _, err := l.arrange()
	if err != nil || run == nil {
		return 0, err
	}
	return run.Length(), nil
}

// Positions 计算整行在 (x, y) 处按对齐方式排布后的绘制位置。
func (l *Line) Positions(x, y float64) ([]PositionedGlyph, error) {
	run, shift, err := l.arrange()
	if err != nil || run == nil {
		return nil, err
	}
	return run.Positions(x+shift, y), nil
}

// arrange 返回按对齐方式调整后的字形序列以及水平位移。
func (l *Line) arrange() (*Run, float64, error) {
	if l.empty() {
		return nil, 0, nil
	}
	run, err := l.Run()
	if err != nil {
		return nil, 0, err
	}
	free := l.opts.MaxWidth - run.Length()
	if math.IsInf(free, 1) {
		free = 0
	}
	switch l.opts.Align {
	case AlignRight:
		return run, free, nil
	case AlignCenter:
		return run, free / 2, nil
	case AlignJustify:
		run, err = l.justify(run, free)
		return run, 0, err
	default:
		return run, 0, nil
	}
}

// justify 把剩余空间分配到字间距；已经超宽时压缩全角标点。
func (l *Line) justify(run *Run, diff float64) (*Run, error) {
	if len(l.runes) <= 1 {
		return run, nil
	}
	if diff > 0 {
		halves := float64(countHalfwidth(l.runes))
		fulls := float64(len(l.runes)) - halves
		q := 1.0
		if IsHalfwidth(l.lastRune()) {
			q = 0.25
		}
		divisor := halves/4 + fulls - q
		if divisor <= 0 {
			return run, nil
		}
		return NewRun(l.Text(), l.faces, l.opts.Spacing+diff/divisor)
	}

	symbols := countFullWidthSymbols(l.runes)
	if symbols == 0 || diff == 0 {
		return run, nil
	}
	indent := -diff / float64(symbols)
	for i := range run.glyphs {
		if IsFullWidthSymbol(run.glyphs[i].Rune) {
			run.glyphs[i].Advance -= indent
		}
	}
	return run, nil
}

// Draw 在 (x, y) 处绘制整行。
func (l *Line) Draw(sink Sink, x, y float64, fill color.Color) error {
	glyphs, err := l.Positions(x, y)
	if err != nil {
		return err
	}
	return drawAll(sink, glyphs, fill)
}

func (l *Line) String() string { return l.Text() }
