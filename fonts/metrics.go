package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/AugustoPreis/flow-pdf/layout"
)

// Metrics 使用真实字体的字形前进宽度实现 layout.FontMetrics。
// 按字号缓存 font.Face；Face 内部带缓冲区，所有测量都在锁内进行。
type Metrics struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face

	// builtin 为 true 时 WithStyle 可以切换到内置字族的其它变体。
	builtin  bool
	style    Style
	variants map[Style]*Metrics
}

// NewMetrics 解析 TTF/OTF 数据。
func NewMetrics(data []byte) (*Metrics, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: 解析字体失败: %w", err)
	}
	return &Metrics{font: f, faces: make(map[float64]font.Face)}, nil
}

// NewGoMetrics 使用内置的 Go Regular 字体。
func NewGoMetrics() (*Metrics, error) {
	m, err := NewMetrics(Data(Regular))
	if err != nil {
		return nil, err
	}
	m.builtin = true
	m.variants = map[Style]*Metrics{Regular: m}
	return m, nil
}

var _ layout.StyledMetrics = (*Metrics)(nil)

// WithStyle 返回内置字族中对应变体的度量；自定义字体与变体本身只有一个字形，返回自身。
func (m *Metrics) WithStyle(weight, style string) layout.FontMetrics {
	s := StyleFor(weight, style)
	if !m.builtin || s == m.style {
		return m
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.variants[s]; ok {
		return v
	}
	v, err := NewMetrics(Data(s))
	if err != nil {
		return m
	}
	v.style = s
	m.variants[s] = v
	return v
}

func (m *Metrics) face(size float64) (font.Face, error) {
	if f, ok := m.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[size] = f
	return f, nil
}

// Measure 返回文本前进宽度（pt，DPI 72 下 1px = 1pt）。
func (m *Metrics) Measure(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.face(fontSize)
	if err != nil {
		return 0
	}
	return toFloat(font.MeasureString(f, text))
}

// LineHeight 取字体自身的推荐行距（ascent + descent + lineGap）。
func (m *Metrics) LineHeight(fontSize float64) float64 {
	if fontSize <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.face(fontSize)
	if err != nil {
		return fontSize * layout.DefaultLineHeightFactor
	}
	return toFloat(f.Metrics().Height)
}

func (m *Metrics) BreakLines(text string, fontSize, maxWidth float64) []string {
	return layout.GreedyBreak(text, maxWidth, func(s string) float64 { return m.Measure(s, fontSize) })
}

// Close 释放缓存的字形面，包括 WithStyle 创建的变体。
func (m *Metrics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for s, v := range m.variants {
		if v != m {
			_ = v.Close()
		}
		delete(m.variants, s)
	}
	for size, f := range m.faces {
		_ = f.Close()
		delete(m.faces, size)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
