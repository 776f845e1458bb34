package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/anyquote/compose"
	"github.com/ByLCY/anyquote/fonts"
	"github.com/ByLCY/anyquote/layout"
	"github.com/ByLCY/anyquote/renderer"
)

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat 接受格式名或带扩展名的文件路径。
func ParseFormat(value string) (Format, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if ext := filepath.Ext(s); ext != "" {
		s = strings.TrimPrefix(ext, ".")
	}
	switch Format(s) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("不支持的输出格式 %q", value)
}

// Renderer draws composed cards via github.com/tdewolff/canvas.
// Canvas units are millimetres; card pixels map to them at 96 DPI.
type Renderer struct {
	format Format
	scale  float64

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Sink       = (*glyphSink)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// Scale multiplies the PNG resolution; 1 means one pixel per card pixel.
	Scale float64
}

// NewRenderer creates a PDF renderer.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer for the given format.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Renderer{
		format:       opts.Format,
		scale:        opts.Scale,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render 把卡片绘制为 PDF 或 PNG 字节。
func (r *Renderer) Render(card *compose.Card) ([]byte, error) {
	if card == nil {
		return nil, fmt.Errorf("渲染的卡片为空")
	}
	if card.Width <= 0 || card.Height <= 0 {
		return nil, fmt.Errorf("卡片尺寸无效: %gx%g", card.Width, card.Height)
	}

	w, h := toMm(card.Width), toMm(card.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	drawBackground(ctx, card, w, h)
	if err := drawImages(ctx, card.Images); err != nil {
		return nil, err
	}
	sink := &glyphSink{r: r, ctx: ctx}
	for i, tb := range card.Texts {
		if err := tb.Box.Draw(sink, tb.X, tb.Y, tb.Fill); err != nil {
			return nil, fmt.Errorf("绘制第 %d 个文本块失败: %w", i+1, err)
		}
	}
	layout.Logger.Debugf("render: card %s as %s, %d glyphs", card.Name, r.format, sink.drawn)

	switch r.format {
	case FormatPDF:
		return encodePDF(c, w, h, card.Meta)
	case FormatPNG:
		return r.encodePNG(c)
	}
	return nil, fmt.Errorf("不支持的输出格式 %q", r.format)
}

func encodePDF(c *canvas.Canvas, w, h float64, meta compose.Meta) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) encodePNG(c *canvas.Canvas) ([]byte, error) {
	img := rasterizer.Draw(c, canvas.DPMM(layout.MmToPx*r.scale), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBackground(ctx *canvas.Context, card *compose.Card, w, h float64) {
	if card.Background.A == 0 {
		return
	}
	path := canvas.Rectangle(w, h)
	if card.Radius > 0 {
		path = canvas.RoundedRectangle(w, h, toMm(card.Radius))
	}
	ctx.SetFillColor(card.Background)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, path)
}

func drawImages(ctx *canvas.Context, images []compose.ImageBlock) error {
	for _, img := range images {
		decoded, _, err := image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return fmt.Errorf("解码图片 %s 失败: %w", img.Src, err)
		}
		width := toMm(img.Width)
		if width <= 0 || decoded.Bounds().Dx() == 0 {
			continue
		}
		dpmm := float64(decoded.Bounds().Dx()) / width
		ctx.DrawImage(toMm(img.X), toMm(img.Y), decoded, canvas.DPMM(dpmm))
	}
	return nil
}

// glyphSink 把排版发出的字形逐个画到 canvas 上。
type glyphSink struct {
	r     *Renderer
	ctx   *canvas.Context
	drawn int
}

// DrawGlyph 以字形左上角加上升部作为基线绘制单个字符。
func (s *glyphSink) DrawGlyph(g layout.PositionedGlyph, fill color.Color) error {
	face, ok := g.Face.(*fonts.Face)
	if !ok {
		return fmt.Errorf("无法绘制字体 %T", g.Face)
	}
	if unicode.IsSpace(g.Rune) {
		return nil
	}
	ff, err := s.r.fontFace(face, fill)
	if err != nil {
		return err
	}
	line := canvas.NewTextLine(ff, string(g.Rune), canvas.Left)
	s.ctx.DrawText(toMm(g.X), toMm(g.Y+face.Ascent()), line)
	s.drawn++
	return nil
}

func (r *Renderer) fontFace(face *fonts.Face, fill color.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(face)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(face.Size()), fill, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(face *fonts.Face) (*canvas.FontFamily, error) {
	key := fontCacheKey(face)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(face.Name())
	if err := family.LoadFont(face.Data(), face.Index(), canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", face.Name(), err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

// 克隆出的 Face 共享同一份字体数据，按名称与数据地址复用字体族。
func fontCacheKey(face *fonts.Face) string {
	data := face.Data()
	if len(data) == 0 {
		return face.Name()
	}
	return fmt.Sprintf("%s|%d|%p", face.Name(), face.Index(), &data[0])
}

// toMm 将像素转换为毫米。
func toMm(px float64) float64 { return px / layout.MmToPx }

// toPt 将像素转换为点(pt)。
func toPt(px float64) float64 { return px / layout.PtToPx }
