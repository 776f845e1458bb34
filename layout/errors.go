package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrGlyphNotFound 表示回退链中没有任何字体包含某个字符。
	ErrGlyphNotFound = errors.New("layout: glyph not found")
	// ErrNoFaces 表示调用方没有提供任何字体。
	ErrNoFaces = errors.New("layout: font fallback chain is empty")
	// ErrLineClosed 表示向已经闭合的行追加内容。
	ErrLineClosed = errors.New("layout: line is closed")
)

// GlyphNotFoundError 记录无法渲染的字符。
type GlyphNotFoundError struct {
	Rune rune
}

func (e *GlyphNotFoundError) Error() string {
	return fmt.Sprintf("layout: no font can render %q (U+%04X)", e.Rune, e.Rune)
}

// Is 让 errors.Is(err, ErrGlyphNotFound) 成立。
func (e *GlyphNotFoundError) Is(target error) bool {
	return target == ErrGlyphNotFound
}
