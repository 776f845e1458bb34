package layout

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestRunFallbackPicksFirstMatchingFace(t *testing.T) {
	latin := &fakeFace{size: 20, only: "Ab"}
	cjk := newFakeFace(24)
	run, err := NewRun("A你", []Face{latin, cjk}, 0)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	glyphs := run.Glyphs()
	if glyphs[0].Face != Face(latin) {
		t.Fatalf("'A' 应使用第一个字体")
	}
	if glyphs[1].Face != Face(cjk) {
		t.Fatalf("'你' 应回退到第二个字体")
	}
}

func TestRunGlyphNotFound(t *testing.T) {
	latin := &fakeFace{size: 20, only: "abc"}
	_, err := NewRun("ab你", []Face{latin}, 0)
	if !errors.Is(err, ErrGlyphNotFound) {
		t.Fatalf("期望 ErrGlyphNotFound，实际 %v", err)
	}
	var gerr *GlyphNotFoundError
	if !errors.As(err, &gerr) || gerr.Rune != '你' {
		t.Fatalf("错误中应记录缺失字符，实际 %#v", err)
	}
}

func TestRunContextualAdjustments(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		index   int
		advance float64
		offsetX float64
	}{
		{"行首开括号", "（你", 0, 10, -10},
		{"行首引号", "“你", 0, 10, -10},
		{"非行首开括号", "你（你", 1, 20, 0},
		{"行尾句号", "你。", 1, 10, 0},
		{"行尾顿号", "你、", 1, 10, 0},
		{"行尾感叹号不压缩", "你！", 1, 20, 0},
		{"标点挤压", "你，“好", 1, 10, 0},
		{"闭括号接开括号", "）（", 0, 10, 0},
		{"中文接字母", "你A", 0, 25, 0},
		{"字母接中文", "A你", 0, 15, 0},
		{"中文隔半角接字母", "你 A", 0, 25, 0},
		{"字母隔半角接中文", "A 你", 1, 15, 0},
		{"中文接中文", "你好", 0, 20, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			run, err := NewRun(c.text, faces20(), 0)
			if err != nil {
				t.Fatalf("NewRun: %v", err)
			}
			g := run.Glyphs()[c.index]
			if !near(g.Advance, c.advance) {
				t.Fatalf("advance: got=%g want=%g", g.Advance, c.advance)
			}
			if !near(g.OffsetX, c.offsetX) {
				t.Fatalf("offsetX: got=%g want=%g", g.OffsetX, c.offsetX)
			}
		})
	}
}

func TestRunLengthWithSpacing(t *testing.T) {
	// 你(20+5) + 4, A(10) + 1, 减去末尾的 1
	run, err := NewRun("你A", faces20(), 4)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if got := run.Length(); !near(got, 39) {
		t.Fatalf("Length: got=%g want=39", got)
	}
	w, h := run.BBox()
	if !near(w, 39) || !near(h, 20) {
		t.Fatalf("BBox: got=(%g,%g)", w, h)
	}
}

func TestRunEmpty(t *testing.T) {
	run, err := NewRun("", faces20(), 8)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if w, h := run.BBox(); w != 0 || h != 0 {
		t.Fatalf("空文本尺寸应为 0，实际 (%g,%g)", w, h)
	}
}

func TestRunPositionsApplyOffsets(t *testing.T) {
	face := &fakeFace{size: 20, dx: 1, dy: 2}
	run, err := NewRun("（你a", []Face{face}, 8)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	pos := run.Positions(100, 50)
	// （ 半宽 10，偏移 -10；你 在 100+10+8 处，后接字母补 5；a 在其后 25+8
	wantX := []float64{100 + 1 - 10, 118 + 1, 151 + 1}
	for i, g := range pos {
		if !near(g.X, wantX[i]) || !near(g.Y, 52) {
			t.Fatalf("glyph %d: got=(%g,%g) want=(%g,52)", i, g.X, g.Y, wantX[i])
		}
	}

	rec := &recorder{}
	if err := run.Draw(rec, 100, 50, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(rec.calls) != 3 || rec.calls[1] != pos[1] {
		t.Fatalf("Draw 应与 Positions 一致: %#v", rec.calls)
	}
}

func TestClassification(t *testing.T) {
	if !IsHalfwidth('a') || !IsHalfwidth(' ') || IsHalfwidth('，') || IsHalfwidth('é') {
		t.Fatalf("半角判断错误")
	}
	if !IsChinese('你') || !IsChinese('㐀') || IsChinese('a') || IsChinese('，') {
		t.Fatalf("中文判断错误")
	}
	if !IsAlnum('z') || !IsAlnum('7') || IsAlnum('_') || IsAlnum('你') {
		t.Fatalf("字母数字判断错误")
	}
	if !IsFullWidthSymbol('，') || IsFullWidthSymbol(',') {
		t.Fatalf("全角标点判断错误")
	}
	if !IsSymbol(',') || !IsSymbol('》') || IsSymbol('a') {
		t.Fatalf("标点类判断错误")
	}
}
