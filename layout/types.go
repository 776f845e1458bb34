package layout

// 该文件定义排版核心与外部协作者（字体度量、绘制目标）之间的接口与数据结构。

import (
	"fmt"
	"image/color"
	"strings"
)

// Face 提供单个字体在当前字号下的字形度量。
// 同一个 Face 可以被同一次排版中的多行共享，但并发修改字号需要调用方自行串行化。
type Face interface {
	// HasGlyph 判断字体是否包含该字符。
	HasGlyph(r rune) bool
	// Advance 返回字符在当前字号下的前进宽度与高度（像素）。
	Advance(r rune) (width, height float64)
	// Size 返回当前字号（像素）。
	Size() float64
	// Offset 返回绘制时附加的位移（像素）。
	Offset() (dx, dy float64)
}

// Glyph 是字形序列中的一项，宽度已经过上下文调整。
type Glyph struct {
	Rune    rune
	Face    Face
	Advance float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// PositionedGlyph 是交给绘制目标的一次绘制指令，坐标为字形左上角。
type PositionedGlyph struct {
	Rune    rune    `json:"rune"`
	Face    Face    `json:"-"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Advance float64 `json:"advance"`
}

// Sink 接收按从左到右、从上到下顺序发出的绘制指令。
type Sink interface {
	DrawGlyph(g PositionedGlyph, fill color.Color) error
}

// Align 描述行内水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
	AlignJustify
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignJustify:
		return "justify"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// ParseAlign 解析对齐方式，支持 start/end 别名。
func ParseAlign(v string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "left", "start":
		return AlignLeft, nil
	case "right", "end":
		return AlignRight, nil
	case "center":
		return AlignCenter, nil
	case "justify":
		return AlignJustify, nil
	default:
		return AlignLeft, fmt.Errorf("layout: unknown align %q", v)
	}
}

// AppendResult 是 Line.Append 的结果：放得下或溢出。
type AppendResult int

const (
	Fits AppendResult = iota
	Overflow
)

func (r AppendResult) String() string {
	if r == Fits {
		return "fits"
	}
	return "overflow"
}
