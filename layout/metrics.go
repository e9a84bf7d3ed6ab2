package layout

import (
	"github.com/mattn/go-runewidth"
)

// FontMetrics 为计算器提供文本测量能力，引擎把返回值视为精确值。
type FontMetrics interface {
	// Measure 返回单行文本在给定字号下的宽度。
	Measure(text string, fontSize float64) float64
	// LineHeight 返回给定字号的行高。
	LineHeight(fontSize float64) float64
	// BreakLines 在 maxWidth 内折行；maxWidth 为 +Inf 时整段文本为一行。
	BreakLines(text string, fontSize, maxWidth float64) []string
}

// StyledMetrics 由能区分字重与字形的度量实现。文本计算器在样式设置了
// weight 或 style 时改用 WithStyle 返回的度量，使折行宽度与绘制字体一致。
type StyledMetrics interface {
	FontMetrics
	WithStyle(weight, style string) FontMetrics
}

const (
	// DefaultCharWidth 是平均字符宽度与字号的比值。
	DefaultCharWidth = 0.55
	// DefaultLineHeightFactor 行高与字号的比值。
	DefaultLineHeightFactor = 1.2
)

// ApproxMetrics 用平均字符宽度估算文本宽度，不依赖任何字体文件。
// 东亚宽字符按两个单元计算（go-runewidth）。
type ApproxMetrics struct {
	CharWidth        float64
	LineHeightFactor float64
}

// NewApproxMetrics 返回使用默认系数的估算器。
func NewApproxMetrics() *ApproxMetrics {
	return &ApproxMetrics{CharWidth: DefaultCharWidth, LineHeightFactor: DefaultLineHeightFactor}
}

func (m *ApproxMetrics) Measure(text string, fontSize float64) float64 {
	cw := m.CharWidth
	if cw <= 0 {
		cw = DefaultCharWidth
	}
	return float64(runewidth.StringWidth(text)) * cw * fontSize
}

func (m *ApproxMetrics) LineHeight(fontSize float64) float64 {
	f := m.LineHeightFactor
	if f <= 0 {
		f = DefaultLineHeightFactor
	}
	return fontSize * f
}

func (m *ApproxMetrics) BreakLines(text string, fontSize, maxWidth float64) []string {
	return GreedyBreak(text, maxWidth, func(s string) float64 { return m.Measure(s, fontSize) })
}
