package layout

import (
	"encoding/json"
	"os"
)

// Snapshot 是 TextBox 的只读快照，便于调试或可视化。
type Snapshot struct {
	Height     float64             `json:"height"`
	Paragraphs []ParagraphSnapshot `json:"paragraphs"`
}

// ParagraphSnapshot 记录一个段落的全部行。
type ParagraphSnapshot struct {
	Lines []LineSnapshot `json:"lines"`
}

// LineSnapshot 记录一行的内容与几何信息，Y 相对 TextBox 顶部。
type LineSnapshot struct {
	Content string  `json:"content"`
	Align   string  `json:"align"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Snapshot 生成当前排版结果的快照。
func (tb *TextBox) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		Height:     tb.Height(),
		Paragraphs: make([]ParagraphSnapshot, len(tb.paragraphs)),
	}
	index := make(map[*Line]int)
	for i, p := range tb.paragraphs {
		for _, l := range p.Lines() {
			index[l] = i
		}
	}
	var firstErr error
	tb.walk(0, func(l *Line, y, h float64) {
		w, err := l.Width()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		i := index[l]
		snap.Paragraphs[i].Lines = append(snap.Paragraphs[i].Lines, LineSnapshot{
			Content: l.Text(),
			Align:   l.Align().String(),
			Y:       y,
			Width:   w,
			Height:  h,
		})
	})
	return snap, firstErr
}

// WriteDebugJSON 将任意布局结果输出为缩进 JSON。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
