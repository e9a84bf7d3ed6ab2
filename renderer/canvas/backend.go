// Package canvasrenderer 使用 github.com/tdewolff/canvas 实现 renderer.Backend，输出 PDF。
package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/AugustoPreis/flow-pdf/fonts"
	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/renderer"
)

var (
	errNoPage   = errors.New("canvas: 尚未调用 CreatePage")
	transparent = color.RGBA{}
)

// Info 是写入 PDF 的文档元信息。
type Info struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Options configures the backend.
type Options struct {
	Info Info
	// FontData 可替换内置的 Go 字体，键为字形变体。
	FontData map[fonts.Style][]byte
}

type page struct {
	c   *canvas.Canvas
	ctx *canvas.Context
}

// Backend 把绘制命令画到 canvas 上；每次 CreatePage 新建一页，Finalize 时写出 PDF。
// 输入坐标为 pt，内部按 canvas 的毫米单位换算。
type Backend struct {
	info Info

	fontOnce sync.Once
	fontErr  error
	family   *canvas.FontFamily
	fontData map[fonts.Style][]byte

	pages     []*page
	finalized bool
}

var _ renderer.Backend = (*Backend)(nil)

// New creates a backend.
func New(opts Options) *Backend {
	return &Backend{info: opts.Info, fontData: opts.FontData}
}

func (b *Backend) fontFamily() (*canvas.FontFamily, error) {
	b.fontOnce.Do(func() {
		family := canvas.NewFontFamily("flow")
		for _, s := range []fonts.Style{fonts.Regular, fonts.Bold, fonts.Italic, fonts.BoldItalic} {
			data := b.fontData[s]
			if len(data) == 0 {
				data = fonts.Data(s)
			}
			if err := family.LoadFont(data, 0, canvasStyle(s)); err != nil {
				b.fontErr = fmt.Errorf("canvas: 加载字体 %s 失败: %w", s, err)
				return
			}
		}
		b.family = family
	})
	return b.family, b.fontErr
}

func (b *Backend) face(sizePt float64, col color.Color, weight, style string) (*canvas.FontFace, error) {
	family, err := b.fontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, col, canvasStyle(fonts.StyleFor(weight, style)), canvas.FontNormal), nil
}

func (b *Backend) current() (*page, error) {
	if b.finalized {
		return nil, errors.New("canvas: 文档已经输出")
	}
	if len(b.pages) == 0 {
		return nil, errNoPage
	}
	return b.pages[len(b.pages)-1], nil
}

func (b *Backend) CreatePage(opts renderer.PageOptions) error {
	if b.finalized {
		return errors.New("canvas: 文档已经输出")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("canvas: 页面尺寸无效 %gx%g", opts.Width, opts.Height)
	}
	c := canvas.New(toMm(opts.Width), toMm(opts.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	b.pages = append(b.pages, &page{c: c, ctx: ctx})
	return nil
}

// DrawText 逐行绘制；(x, y) 为文本块左上角，每行基线位于行顶加上字体上升部。
func (b *Backend) DrawText(text string, x, y float64, style renderer.TextStyle) error {
	p, err := b.current()
	if err != nil {
		return err
	}
	size := style.FontSize
	if size <= 0 {
		size = 12
	}
	face, err := b.face(size, parseColor(style.Color, canvas.Black), style.FontWeight, style.FontStyle)
	if err != nil {
		return err
	}
	lineHeight := toMm(style.LineHeight)
	if lineHeight <= 0 {
		lineHeight = face.Metrics().LineHeight
	}
	ascent := face.Metrics().Ascent
	top := toMm(y)
	for i, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		baseline := top + float64(i)*lineHeight + ascent
		p.ctx.DrawText(toMm(x), baseline, canvas.NewTextLine(face, line, canvas.Left))
	}
	return nil
}

func (b *Backend) DrawRect(x, y, w, h float64, style renderer.RectStyle) error {
	p, err := b.current()
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 || (style.Fill == "" && style.Stroke == "") {
		return nil
	}
	ctx := p.ctx
	ctx.SetFillColor(parseColor(style.Fill, transparent))
	if style.Stroke != "" && style.StrokeWidth > 0 {
		ctx.SetStrokeColor(parseColor(style.Stroke, canvas.Black))
		ctx.SetStrokeWidth(toMm(style.StrokeWidth))
	} else {
		ctx.SetStrokeColor(transparent)
	}
	ctx.SetDashes(0)
	path := canvas.Rectangle(toMm(w), toMm(h))
	if style.Radius > 0 {
		path = canvas.RoundedRectangle(toMm(w), toMm(h), toMm(style.Radius))
	}
	ctx.DrawPath(toMm(x), toMm(y), path)
	return nil
}

func (b *Backend) DrawLine(x1, y1, x2, y2 float64, style renderer.LineStyle) error {
	p, err := b.current()
	if err != nil {
		return err
	}
	width := style.Width
	if width <= 0 {
		width = 1
	}
	ctx := p.ctx
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(parseColor(style.Color, canvas.Black))
	ctx.SetStrokeWidth(toMm(width))
	dashes := make([]float64, len(style.Dash))
	for i, d := range style.Dash {
		dashes[i] = toMm(d)
	}
	ctx.SetDashes(0, dashes...)

	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(toMm(x2-x1), toMm(y2-y1))
	ctx.DrawPath(toMm(x1), toMm(y1), path)
	ctx.SetDashes(0)
	return nil
}

// Finalize 写出全部页面，之后不能再绘制。
func (b *Backend) Finalize() ([]byte, error) {
	if b.finalized {
		return nil, errors.New("canvas: 文档已经输出")
	}
	if len(b.pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	b.finalized = true

	var buf bytes.Buffer
	first := b.pages[0].c
	writer := pdf.New(&buf, first.W, first.H, nil)
	writer.SetInfo(b.info.Title, b.info.Subject, strings.Join(b.info.Keywords, ", "), b.info.Author, b.info.Creator)
	for i, p := range b.pages {
		if i > 0 {
			writer.NewPage(p.c.W, p.c.H)
		}
		p.c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages created so far.
func (b *Backend) PageCount() int { return len(b.pages) }

func canvasStyle(s fonts.Style) canvas.FontStyle {
	switch s {
	case fonts.Bold:
		return canvas.FontBold
	case fonts.Italic:
		return canvas.FontRegular | canvas.FontItalic
	case fonts.BoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

// parseColor 接受 #RGB / #RRGGBB / #RRGGBBAA，空字符串或非法值返回 fallback。
func parseColor(s string, fallback color.Color) color.Color {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	switch len(s) {
	case 4, 7, 9:
		for _, r := range s[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return fallback
			}
		}
		return canvas.Hex(s)
	}
	return fallback
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * geometry.PtToMm }

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * geometry.MmToPt }
