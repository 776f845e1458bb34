package layout

import "strings"

// Paragraph 维护一个打开的行与若干已闭合的行。
type Paragraph struct {
	lines []*Line
	open  *Line
	faces []Face
	opts  Options
}

// NewParagraph 创建一个只含空白打开行的段落。
func NewParagraph(faces []Face, opts Options) *Paragraph {
	p := &Paragraph{faces: faces, opts: opts}
	p.open = NewLine("", faces, opts.lineOptions())
	return p
}

// AddText 把文本追加到打开行；溢出时闭合当前行并以该文本开启新行。
// 打开行为空时文本独占该行，即使超宽也不会产生空行。
func (p *Paragraph) AddText(s string) error {
	res, err := p.open.Append(s)
	if err != nil {
		return err
	}
	if res == Fits {
		return nil
	}
	if p.open.empty() {
		p.open.forceAppend(s)
		return nil
	}
	p.NewLine(s)
	return nil
}

// Check 判断追加 s 之后打开行是否仍不超宽。
func (p *Paragraph) Check(s string) (bool, error) {
	run, err := NewRun(p.open.Text()+s, p.faces, p.opts.Spacing)
	if err != nil {
		return false, err
	}
	return run.Length() <= p.opts.maxWidth(), nil
}

// NewLine 闭合打开行并以 seed 开启新的打开行。
func (p *Paragraph) NewLine(seed string) {
	p.open.Close(p.opts.Align)
	Logger.Debugf("layout: close line %q (%s)", p.open.Text(), p.opts.Align)
	p.lines = append(p.lines, p.open)
	p.open = NewLine(seed, p.faces, p.opts.lineOptions())
}

// place 把单个字符放到新行；打开行为空时直接放在打开行上。
func (p *Paragraph) place(s string) {
	if p.open.empty() {
		p.open.forceAppend(s)
		return
	}
	p.NewLine(s)
}

// Open 返回当前打开的行。
func (p *Paragraph) Open() *Line { return p.open }

// Finished 返回已闭合的行。
func (p *Paragraph) Finished() []*Line { return p.lines }

// Lines 按顺序返回全部行，最后一项是打开行。
func (p *Paragraph) Lines() []*Line {
	out := make([]*Line, 0, len(p.lines)+1)
	out = append(out, p.lines...)
	return append(out, p.open)
}

func (p *Paragraph) String() string {
	texts := make([]string, 0, len(p.lines)+1)
	for _, l := range p.Lines() {
		texts = append(texts, l.Text())
	}
	return strings.Join(texts, "\n")
}
