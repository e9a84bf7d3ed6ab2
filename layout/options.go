package layout

import (
	"github.com/AugustoPreis/flow-pdf/geometry"
)

// DefaultFontSize 在样式与配置均未指定字号时使用（pt）。
const DefaultFontSize = 12.0

// Options 在构造引擎时提供一次，作用于所有未显式传入约束的 Layout 调用。
type Options struct {
	PageSize        geometry.Dimensions
	Margin          geometry.Padding
	DefaultFontSize float64
	Metrics         FontMetrics
}

// DefaultOptions 返回 A4、无边距、12pt 与估算字体度量。
func DefaultOptions() Options {
	return Options{
		PageSize:        geometry.PageSizes["A4"],
		DefaultFontSize: DefaultFontSize,
		Metrics:         NewApproxMetrics(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PageSize.Width <= 0 || o.PageSize.Height <= 0 {
		o.PageSize = def.PageSize
	}
	if o.DefaultFontSize <= 0 {
		o.DefaultFontSize = def.DefaultFontSize
	}
	if o.Metrics == nil {
		o.Metrics = def.Metrics
	}
	o.Margin = geometry.PaddingTRBL(o.Margin.Top, o.Margin.Right, o.Margin.Bottom, o.Margin.Left)
	return o
}
