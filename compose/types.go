package compose

import (
	"image/color"

	"github.com/ByLCY/anyquote/fonts"
	"github.com/ByLCY/anyquote/layout"
)

// Options 控制卡片构建。
type Options struct {
	// BaseDir 是解析相对字体与图片路径的目录。
	BaseDir string
	// Data 绑定到文本中的 ${path} 占位符。
	Data any
}

// Meta 是输出文件的元信息。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Author   string   `json:"author,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Card 是排版完成的卡片，所有坐标以像素为单位、原点在左上角。
type Card struct {
	Name       string
	Width      float64
	Height     float64
	Padding    float64
	Radius     float64
	Background color.RGBA
	Meta       Meta
	Images     []ImageBlock
	Texts      []TextBlock
}

// TextBlock 是卡片上的一段文本。
type TextBlock struct {
	X, Y  float64
	Width float64
	Fill  color.RGBA
	Faces []*fonts.Face
	Box   *layout.TextBox
}

// Height 返回文本块高度。
func (b TextBlock) Height() float64 { return b.Box.Height() }

// ImageBlock 是卡片上的一张图片，数据在渲染时解码。
type ImageBlock struct {
	X, Y          float64
	Width, Height float64
	Src           string
	Data          []byte
}
