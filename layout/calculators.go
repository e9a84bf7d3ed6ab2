package layout

import (
	"math"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/node"
)

// Context 在一次布局中传给所有计算器。
// LayoutChild 回调到引擎完成子节点的布局，计算器因此无需了解引擎本身。
type Context struct {
	Metrics         FontMetrics
	DefaultFontSize float64
	LayoutChild     func(child *node.Node, c geometry.Constraints) (LayoutBox, error)
}

func (ctx *Context) metrics() FontMetrics {
	if ctx == nil || ctx.Metrics == nil {
		return NewApproxMetrics()
	}
	return ctx.Metrics
}

// textMetrics 返回与文本样式对应的度量。
func (ctx *Context) textMetrics(style *node.TextStyle) FontMetrics {
	m := ctx.metrics()
	if style == nil || (style.FontWeight == "" && style.FontStyle == "") {
		return m
	}
	if sm, ok := m.(StyledMetrics); ok {
		return sm.WithStyle(style.FontWeight, style.FontStyle)
	}
	return m
}

func (ctx *Context) fontSize(style *node.TextStyle) float64 {
	if style != nil && style.FontSize > 0 {
		return style.FontSize
	}
	if ctx != nil && ctx.DefaultFontSize > 0 {
		return ctx.DefaultFontSize
	}
	return DefaultFontSize
}

func (ctx *Context) layoutChild(child *node.Node, c geometry.Constraints) (LayoutBox, error) {
	if ctx == nil || ctx.LayoutChild == nil {
		return LayoutBox{}, nil
	}
	return ctx.LayoutChild(child, c)
}

// Calculator 根据约束为某一类节点计算尺寸。返回的宽高必须落在约束内。
// 位置由引擎统一分配，计算器返回的 X、Y 会被覆盖。
type Calculator interface {
	Calculate(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error)
}

// CalculatorFunc 让普通函数满足 Calculator。
type CalculatorFunc func(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error)

func (f CalculatorFunc) Calculate(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error) {
	return f(n, c, ctx)
}

// 内置计算器。
var (
	TextCalculator    Calculator = CalculatorFunc(calculateText)
	VStackCalculator  Calculator = CalculatorFunc(calculateVStack)
	HStackCalculator  Calculator = CalculatorFunc(calculateHStack)
	DividerCalculator Calculator = CalculatorFunc(calculateDivider)
	SpacerCalculator  Calculator = CalculatorFunc(calculateSpacer)
	BoxCalculator     Calculator = CalculatorFunc(calculateBox)
)

func calculateText(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error) {
	p, ok := n.Props.(node.TextProps)
	if !ok {
		return LayoutBox{}, mismatch(node.KindText, n)
	}
	m := ctx.textMetrics(p.Style)
	fs := ctx.fontSize(p.Style)
	measure := func(s string) float64 { return m.Measure(s, fs) }

	wrap := c.MaxWidth
	if p.Width != nil {
		wrap = *p.Width
	}
	text := &TextLayout{
		Lines:      m.BreakLines(p.Content, fs, wrap),
		FontSize:   fs,
		LineHeight: m.LineHeight(fs),
	}

	var w, h float64
	if p.Width != nil {
		w = *p.Width
	} else {
		w = widest(text.Lines, measure)
	}
	if p.Height != nil {
		h = *p.Height
	} else {
		h = float64(len(text.Lines)) * text.LineHeight
	}
	return LayoutBox{
		Width:  geometry.ClampWidth(w, c),
		Height: geometry.ClampHeight(h, c),
		Text:   text,
	}, nil
}

func calculateVStack(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error) {
	p, ok := n.Props.(node.VStackProps)
	if !ok {
		return LayoutBox{}, mismatch(node.KindVStack, n)
	}
	pad := paddingOf(p.Padding)

	budget := shrinkMax(c.MaxWidth, pad.Horizontal())
	if p.Width != nil {
		budget = *p.Width
	}
	childC := geometry.Constraints{MaxWidth: budget, MaxHeight: geometry.Inf}

	var maxW, sumH float64
	for _, child := range n.Children {
		box, err := ctx.layoutChild(child, childC)
		if err != nil {
			return LayoutBox{}, err
		}
		maxW = math.Max(maxW, box.Width)
		sumH += box.Height
	}
	sumH += gapTotal(p.Spacing, len(n.Children))

	w, h := maxW, sumH
	if p.Width != nil {
		w = *p.Width
	}
	if p.Height != nil {
		h = *p.Height
	}
	return LayoutBox{
		Width:   geometry.ClampWidth(w+pad.Horizontal(), c),
		Height:  geometry.ClampHeight(h+pad.Vertical(), c),
		Padding: paddingPtr(pad),
	}, nil
}

// calculateHStack 将可用宽度平均分给每个子节点（扣除间距后），不考虑子节点的固有宽度。
func calculateHStack(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error) {
	p, ok := n.Props.(node.HStackProps)
	if !ok {
		return LayoutBox{}, mismatch(node.KindHStack, n)
	}
	pad := paddingOf(p.Padding)
	count := len(n.Children)

	avail := shrinkMax(c.MaxWidth, pad.Horizontal())
	if p.Width != nil {
		avail = *p.Width
	}
	perChild := avail
	if count > 0 && !math.IsInf(avail, 1) {
		perChild = math.Max((avail-gapTotal(p.Spacing, count))/float64(count), 0)
	}
	maxH := shrinkMax(c.MaxHeight, pad.Vertical())
	if p.Height != nil {
		maxH = *p.Height
	}
	childC := geometry.Constraints{MaxWidth: perChild, MaxHeight: maxH}

	var sumW, tallest float64
	for _, child := range n.Children {
		box, err := ctx.layoutChild(child, childC)
		if err != nil {
			return LayoutBox{}, err
		}
		sumW += box.Width
		tallest = math.Max(tallest, box.Height)
	}
	sumW += gapTotal(p.Spacing, count)

	w, h := sumW, tallest
	if p.Width != nil {
		w = *p.Width
	}
	if p.Height != nil {
		h = *p.Height
	}
	return LayoutBox{
		Width:   geometry.ClampWidth(w+pad.Horizontal(), c),
		Height:  geometry.ClampHeight(h+pad.Vertical(), c),
		Padding: paddingPtr(pad),
	}, nil
}

func calculateDivider(n *node.Node, c geometry.Constraints, _ *Context) (LayoutBox, error) {
	p, ok := n.Props.(node.DividerProps)
	if !ok {
		return LayoutBox{}, mismatch(node.KindDivider, n)
	}
	t := p.EffectiveThickness()
	var w, h float64
	if p.IsVertical() {
		w = t
		h = lengthOr(p.Length, c.MaxHeight, c.MinHeight)
	} else {
		w = lengthOr(p.Length, c.MaxWidth, c.MinWidth)
		h = t
	}
	return LayoutBox{Width: geometry.ClampWidth(w, c), Height: geometry.ClampHeight(h, c)}, nil
}

// calculateSpacer：flex > 0 时独立占满所给的最大空间，不与兄弟节点按比例分配。
func calculateSpacer(n *node.Node, c geometry.Constraints, _ *Context) (LayoutBox, error) {
	p, ok := n.Props.(node.SpacerProps)
	if !ok {
		return LayoutBox{}, mismatch(node.KindSpacer, n)
	}
	var w, h float64
	if p.Flex > 0 {
		w = lengthOr(p.Width, c.MaxWidth, c.MinWidth)
		h = lengthOr(p.Height, c.MaxHeight, c.MinHeight)
	} else {
		w = lengthOr(p.Width, 0, 0)
		h = lengthOr(p.Height, 0, 0)
	}
	return LayoutBox{Width: geometry.ClampWidth(w, c), Height: geometry.ClampHeight(h, c)}, nil
}

// calculateBox 预留两侧边框与内边距后布局子节点；显式宽高表示边框盒尺寸。
func calculateBox(n *node.Node, c geometry.Constraints, ctx *Context) (LayoutBox, error) {
	p, ok := n.Props.(node.BoxProps)
	if !ok {
		return LayoutBox{}, mismatch(node.KindBox, n)
	}
	inset := paddingOf(p.Padding).Add(geometry.PaddingAll(p.BorderWidth()))
	dw, dh := inset.Horizontal(), inset.Vertical()

	childC := geometry.Shrink(c, dw, dh)
	if p.Width != nil {
		childC.MaxWidth = math.Min(childC.MaxWidth, math.Max(*p.Width-dw, 0))
	}
	if p.Height != nil {
		childC.MaxHeight = math.Min(childC.MaxHeight, math.Max(*p.Height-dh, 0))
	}
	childC = geometry.NewConstraints(
		math.Min(childC.MinWidth, childC.MaxWidth), childC.MaxWidth,
		math.Min(childC.MinHeight, childC.MaxHeight), childC.MaxHeight,
	)

	var maxW, maxH float64
	for _, child := range n.Children {
		box, err := ctx.layoutChild(child, childC)
		if err != nil {
			return LayoutBox{}, err
		}
		maxW = math.Max(maxW, box.Width)
		maxH = math.Max(maxH, box.Height)
	}

	w, h := maxW+dw, maxH+dh
	if p.Width != nil {
		w = *p.Width
	}
	if p.Height != nil {
		h = *p.Height
	}
	return LayoutBox{
		Width:   geometry.ClampWidth(w, c),
		Height:  geometry.ClampHeight(h, c),
		Padding: paddingPtr(inset),
	}, nil
}

func paddingOf(p *geometry.Padding) geometry.Padding {
	if p == nil {
		return geometry.Padding{}
	}
	return geometry.PaddingTRBL(p.Top, p.Right, p.Bottom, p.Left)
}

func paddingPtr(p geometry.Padding) *geometry.Padding {
	if p.IsZero() {
		return nil
	}
	return &p
}

func gapTotal(spacing float64, n int) float64 {
	if n < 2 || spacing <= 0 {
		return 0
	}
	return spacing * float64(n-1)
}

func shrinkMax(v, d float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	return math.Max(v-d, 0)
}

// lengthOr 返回显式值；未设置时取 fallback，fallback 无界时退回 floor。
func lengthOr(v *float64, fallback, floor float64) float64 {
	if v != nil {
		return *v
	}
	if math.IsInf(fallback, 1) {
		return floor
	}
	return fallback
}
