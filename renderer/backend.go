// Package renderer 把布局树转换为与后端无关的绘制命令，并交给 Backend 执行。
package renderer

// Backend 是最终输出（PDF、图片或测试记录器）需要实现的五个操作。
// 坐标单位与布局一致（pt），原点在页面左上角，y 轴向下。
type Backend interface {
	CreatePage(opts PageOptions) error
	DrawText(text string, x, y float64, style TextStyle) error
	DrawRect(x, y, w, h float64, style RectStyle) error
	DrawLine(x1, y1, x2, y2 float64, style LineStyle) error
	Finalize() ([]byte, error)
}

// PageOptions 描述新页面的尺寸。
type PageOptions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextStyle 原样携带节点上的文本样式；Text 中以 "\n" 分隔的每一行按 LineHeight 依次下移。
type TextStyle struct {
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Color      string  `json:"color,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// RectStyle 为空字符串的颜色表示不填充或不描边。
type RectStyle struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
}

// LineStyle 中 Dash 为 nil 表示实线。
type LineStyle struct {
	Color string    `json:"color,omitempty"`
	Width float64   `json:"width,omitempty"`
	Dash  []float64 `json:"dash,omitempty"`
}
