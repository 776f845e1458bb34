package renderer

import "github.com/ByLCY/anyquote/compose"

// Renderer 将排版完成的卡片输出为最终文件，例如 PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(card *compose.Card) ([]byte, error)
}
