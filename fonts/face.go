package fonts

import (
	"fmt"

	"github.com/tdewolff/font"

	"github.com/ByLCY/anyquote/layout"
)

// Options 配置一个字体。
type Options struct {
	// Name 是字体在文档中的名字，渲染器据此缓存字体族。
	Name string
	// Index 是字体集合（TTC）中的序号。
	Index int
	// Offset 是构造字号下的绘制位移（像素）。
	Offset [2]float64
}

// Face 基于 SFNT 表实现 layout.Face。
//
// Resize 会修改字号，多个文本块共享同一字体时应先 Clone。
type Face struct {
	name       string
	data       []byte
	index      int
	sfnt       *font.SFNT
	unitsPerEm float64
	size       float64
	// 相对字号的位移，换字号后按比例缩放
	relOffset [2]float64
}

var _ layout.Face = (*Face)(nil)

// New 解析字体数据并以 size（像素）创建字体。
func New(data []byte, size float64, opts Options) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("字体 %s 的字号必须为正数，实际 %g", opts.Name, size)
	}
	sfnt, err := font.ParseSFNT(data, opts.Index)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", opts.Name, err)
	}
	if sfnt.Head == nil || sfnt.Head.UnitsPerEm == 0 {
		return nil, fmt.Errorf("字体 %s 缺少有效的 head 表", opts.Name)
	}
	return &Face{
		name:       opts.Name,
		data:       data,
		index:      opts.Index,
		sfnt:       sfnt,
		unitsPerEm: float64(sfnt.Head.UnitsPerEm),
		size:       size,
		relOffset:  [2]float64{opts.Offset[0] / size, opts.Offset[1] / size},
	}, nil
}

// HasGlyph 查询 cmap，字形序号 0 表示缺字。
func (f *Face) HasGlyph(r rune) bool {
	return f.sfnt.GlyphIndex(r) != 0
}

// Advance 返回前进宽度与行盒高度（即字号）。
func (f *Face) Advance(r rune) (float64, float64) {
	id := f.sfnt.GlyphIndex(r)
	adv := float64(f.sfnt.GlyphAdvance(id)) * f.size / f.unitsPerEm
	return adv, f.size
}

func (f *Face) Size() float64 { return f.size }

// Resize 修改字号（像素）。
func (f *Face) Resize(size float64) {
	if size > 0 {
		f.size = size
	}
}

// Offset 把相对位移换算为当前字号下的像素。
func (f *Face) Offset() (float64, float64) {
	return f.relOffset[0] * f.size, f.relOffset[1] * f.size
}

// Clone 复制字体，解析结果与原始数据共享。
func (f *Face) Clone() *Face {
	c := *f
	return &c
}

func (f *Face) Name() string { return f.name }

// Data 返回原始字体数据，供渲染器加载。
func (f *Face) Data() []byte { return f.data }

// Index 返回字体在集合中的序号。
func (f *Face) Index() int { return f.index }

// Ascent 返回当前字号下的上升高度（像素）。
func (f *Face) Ascent() float64 {
	if f.sfnt.Hhea == nil {
		return f.size
	}
	return float64(f.sfnt.Hhea.Ascender) * f.size / f.unitsPerEm
}

func (f *Face) String() string {
	return fmt.Sprintf("%s@%gpx", f.name, f.size)
}
