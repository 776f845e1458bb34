package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// 标点集合，全包只使用这一份。
const (
	// FullWidthSymbols 是参与推挤与两端对齐压缩的全角标点。
	FullWidthSymbols = "，。、；：？！《》（）【】“”『』「」"
	// HalfWidthSymbols 是与全角标点一起视作“标点类”的半角符号。
	HalfWidthSymbols = `'",.:;!?[](){}<>/\`

	// 行首出现时压缩半宽并向左偏移。
	openingMarks = "《（【〔“"
	// 行尾出现时压缩半宽。
	closingMarks = "》）】〕”、。"
	// 相邻标点挤压：前一个属于 squeezeFirst 且后一个属于 squeezeSecond 时，前者半宽。
	squeezeFirst  = "》）】，。、；：？！”"
	squeezeSecond = "《（【，。、“"
)

// IsHalfwidth 以编码长度判断半角：UTF-8 下单字节的字符为半角。
func IsHalfwidth(r rune) bool {
	return r < utf8.RuneSelf
}

// IsChinese 判断是否为 CJK 统一表意文字（基本区与扩展 A 区）。
func IsChinese(r rune) bool {
	return (r >= 0x3400 && r <= 0x4dbf) || (r >= 0x4e00 && r <= 0x9faf)
}

// IsAlnum 只认 ASCII 字母与数字。
func IsAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// IsFullWidthSymbol 判断是否为全角标点。
func IsFullWidthSymbol(r rune) bool {
	return strings.ContainsRune(FullWidthSymbols, r)
}

// IsSymbol 判断是否属于标点类（全角或半角）。
func IsSymbol(r rune) bool {
	return IsFullWidthSymbol(r) || strings.ContainsRune(HalfWidthSymbols, r)
}

func countFullWidthSymbols(runes []rune) int {
	n := 0
	for _, r := range runes {
		if IsFullWidthSymbol(r) {
			n++
		}
	}
	return n
}

func countHalfwidth(runes []rune) int {
	n := 0
	for _, r := range runes {
		if IsHalfwidth(r) {
			n++
		}
	}
	return n
}

func trimRightSpace(runes []rune) []rune {
	end := len(runes)
	for end > 0 && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return runes[:end]
}
