package canvasrenderer

import (
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/AugustoPreis/flow-pdf/fonts"
	"github.com/AugustoPreis/flow-pdf/layout"
)

// Metrics 让布局阶段使用与渲染完全相同的 canvas 字体面测量文本，
// 这样折行结果与最终绘制的宽度一致。粗体与斜体通过 WithStyle 取得对应字形面。
type Metrics struct {
	b     *Backend
	style fonts.Style
	cache *faceCache
}

type faceKey struct {
	size  float64
	style fonts.Style
}

// faceCache 在同一后端派生出的所有 Metrics 之间共享。
type faceCache struct {
	mu    sync.Mutex
	faces map[faceKey]*canvas.FontFace
}

var _ layout.StyledMetrics = (*Metrics)(nil)

// Metrics 返回与该后端共享字体族的度量实现（regular 字形）。
func (b *Backend) Metrics() *Metrics {
	return &Metrics{b: b, style: fonts.Regular, cache: &faceCache{faces: make(map[faceKey]*canvas.FontFace)}}
}

// WithStyle 返回按 weight/style 选择字形的度量，与绘制文本时的选择规则相同。
func (m *Metrics) WithStyle(weight, style string) layout.FontMetrics {
	s := fonts.StyleFor(weight, style)
	if s == m.style {
		return m
	}
	return &Metrics{b: m.b, style: s, cache: m.cache}
}

func (m *Metrics) face(sizePt float64) *canvas.FontFace {
	key := faceKey{size: sizePt, style: m.style}
	m.cache.mu.Lock()
	defer m.cache.mu.Unlock()
	if f, ok := m.cache.faces[key]; ok {
		return f
	}
	family, err := m.b.fontFamily()
	if err != nil {
		return nil
	}
	f := family.Face(sizePt, canvas.Black, canvasStyle(m.style), canvas.FontNormal)
	m.cache.faces[key] = f
	return f
}

// Measure 返回宽度（pt）；canvas 的 TextWidth 以毫米为单位。
func (m *Metrics) Measure(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	f := m.face(fontSize)
	if f == nil {
		return 0
	}
	return toPt(f.TextWidth(text))
}

func (m *Metrics) LineHeight(fontSize float64) float64 {
	f := m.face(fontSize)
	if f == nil {
		return fontSize * layout.DefaultLineHeightFactor
	}
	return toPt(f.Metrics().LineHeight)
}

func (m *Metrics) BreakLines(text string, fontSize, maxWidth float64) []string {
	return layout.GreedyBreak(text, maxWidth, func(s string) float64 { return m.Measure(s, fontSize) })
}
