package geometry

// 该文件定义布局所用的基础值类型：点、尺寸、内边距与矩形。
// 所有数值单位与调用方一致（流水线中为 pt），这里不做换算。

// Point 表示二维坐标。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions 表示宽高。
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Padding 描述四条边的内边距，均为非负值。
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// PaddingAll 四边相同。
func PaddingAll(v float64) Padding {
	v = nonNegative(v)
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// PaddingXY 上下取 v，左右取 h。
func PaddingXY(v, h float64) Padding {
	v, h = nonNegative(v), nonNegative(h)
	return Padding{Top: v, Right: h, Bottom: v, Left: h}
}

// PaddingTRBL follows CSS order: top, right, bottom, left.
func PaddingTRBL(t, r, b, l float64) Padding {
	return Padding{Top: nonNegative(t), Right: nonNegative(r), Bottom: nonNegative(b), Left: nonNegative(l)}
}

// Horizontal returns Left + Right.
func (p Padding) Horizontal() float64 { return p.Left + p.Right }

// Vertical returns Top + Bottom.
func (p Padding) Vertical() float64 { return p.Top + p.Bottom }

// IsZero reports whether all edges are zero.
func (p Padding) IsZero() bool {
	return p.Top == 0 && p.Right == 0 && p.Bottom == 0 && p.Left == 0
}

// Add 按边相加，例如内边距叠加边框宽度。
func (p Padding) Add(o Padding) Padding {
	return Padding{
		Top:    p.Top + o.Top,
		Right:  p.Right + o.Right,
		Bottom: p.Bottom + o.Bottom,
		Left:   p.Left + o.Left,
	}
}

// Rect 以左上角为原点描述一个矩形区域。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle dimensions.
func (r Rect) Size() Dimensions { return Dimensions{Width: r.Width, Height: r.Height} }

// Inset 返回扣除内边距后的内容区域；内边距大于矩形时宽高取 0，不会出现负值。
func (r Rect) Inset(p Padding) Rect {
	return Rect{
		X:      r.X + p.Left,
		Y:      r.Y + p.Top,
		Width:  nonNegative(r.Width - p.Horizontal()),
		Height: nonNegative(r.Height - p.Vertical()),
	}
}

// Translate moves the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
