package compose

import "github.com/ByLCY/anyquote/layout"

// Snapshot 是卡片的调试快照，可以用 layout.WriteDebugJSON 输出。
type Snapshot struct {
	Name   string          `json:"name"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Meta   Meta            `json:"meta"`
	Images []ImageSnapshot `json:"images,omitempty"`
	Texts  []TextSnapshot  `json:"texts"`
}

// ImageSnapshot 记录图片位置。
type ImageSnapshot struct {
	Src    string  `json:"src"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextSnapshot 记录文本块位置与逐行排版结果。
type TextSnapshot struct {
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Width  float64         `json:"width"`
	Faces  []string        `json:"faces"`
	Layout layout.Snapshot `json:"layout"`
}

// Snapshot 生成卡片快照。
func (c *Card) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		Name:   c.Name,
		Width:  c.Width,
		Height: c.Height,
		Meta:   c.Meta,
	}
	for _, img := range c.Images {
		snap.Images = append(snap.Images, ImageSnapshot{
			Src: img.Src, X: img.X, Y: img.Y, Width: img.Width, Height: img.Height,
		})
	}
	for _, t := range c.Texts {
		ls, err := t.Box.Snapshot()
		if err != nil {
			return Snapshot{}, err
		}
		names := make([]string, len(t.Faces))
		for i, f := range t.Faces {
			names[i] = f.String()
		}
		snap.Texts = append(snap.Texts, TextSnapshot{
			X: t.X, Y: t.Y, Width: t.Width, Faces: names, Layout: ls,
		})
	}
	return snap, nil
}
