package layout

import "math"

// Options 配置一次 TextBox 排版。
type Options struct {
	// MaxWidth 是行的最大像素宽度，<=0 表示不限宽。
	MaxWidth float64
	// Spacing 是段落检查宽度时使用的字间距。
	Spacing float64
	// LineSpacing 是行间距；段落之间使用三倍行间距。
	LineSpacing float64
	// Align 是行被闭合时提升到的对齐方式，段落最后一行始终左对齐。
	Align Align
	// SymbolPush 允许把行尾全角标点挤进已满的行。
	SymbolPush bool
	// PushThreshold 是推挤判定的下限阈值。
	PushThreshold float64
	// Normalize 在排版前把输入规范化为 NFC。
	Normalize bool
}

// DefaultOptions 返回不限宽、两端对齐的默认配置。
func DefaultOptions() Options {
	return Options{
		MaxWidth:      math.Inf(1),
		Align:         AlignJustify,
		SymbolPush:    true,
		PushThreshold: 0.5,
		Normalize:     true,
	}
}

func (o Options) maxWidth() float64 {
	if o.MaxWidth <= 0 {
		return math.Inf(1)
	}
	return o.MaxWidth
}

// LineOptions 配置单行。
type LineOptions struct {
	Align         Align
	MaxWidth      float64
	Spacing       float64
	SymbolPush    bool
	PushThreshold float64
}

func (o Options) lineOptions() LineOptions {
	return LineOptions{
		Align:         AlignLeft,
		MaxWidth:      o.maxWidth(),
		SymbolPush:    o.SymbolPush,
		PushThreshold: o.PushThreshold,
	}
}
