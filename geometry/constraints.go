package geometry

import (
	"fmt"
	"math"
)

// Inf 表示无上限的约束。
var Inf = math.Inf(1)

// Constraints 是父节点提供给子节点的宽高区间。
// 不变式：各轴 min ≤ max，且均非负；max 可以为 +Inf。
// 该不变式由构造函数保证，计算器不会再次校验。
type Constraints struct {
	MinWidth  float64 `json:"minWidth"`
	MaxWidth  float64 `json:"maxWidth"`
	MinHeight float64 `json:"minHeight"`
	MaxHeight float64 `json:"maxHeight"`
}

// NewConstraints normalises the four bounds: negatives become 0 and a max below
// its min is raised to the min.
func NewConstraints(minW, maxW, minH, maxH float64) Constraints {
	minW, minH = nonNegative(minW), nonNegative(minH)
	maxW, maxH = nonNegative(maxW), nonNegative(maxH)
	if maxW < minW {
		maxW = minW
	}
	if maxH < minH {
		maxH = minH
	}
	return Constraints{MinWidth: minW, MaxWidth: maxW, MinHeight: minH, MaxHeight: maxH}
}

// Loose 返回 0..w、0..h 的宽松约束。
func Loose(w, h float64) Constraints { return NewConstraints(0, w, 0, h) }

// Tight 返回宽高固定的约束。
func Tight(w, h float64) Constraints { return NewConstraints(w, w, h, h) }

// Unbounded 返回两个方向均无上限的约束。
func Unbounded() Constraints { return Constraints{MaxWidth: Inf, MaxHeight: Inf} }

// ClampWidth 返回 max(MinWidth, min(v, MaxWidth))。
func ClampWidth(v float64, c Constraints) float64 {
	return clamp(v, c.MinWidth, c.MaxWidth)
}

// ClampHeight 返回 max(MinHeight, min(v, MaxHeight))。
func ClampHeight(v float64, c Constraints) float64 {
	return clamp(v, c.MinHeight, c.MaxHeight)
}

// Shrink 从两个方向的 min 与 max 中分别扣除 dw/dh（用于预留内边距与边框），结果下限为 0。
// 无上限的 max 扣除后仍为无上限。
func Shrink(c Constraints, dw, dh float64) Constraints {
	return Constraints{
		MinWidth:  nonNegative(c.MinWidth - dw),
		MaxWidth:  shrinkMax(c.MaxWidth, dw),
		MinHeight: nonNegative(c.MinHeight - dh),
		MaxHeight: shrinkMax(c.MaxHeight, dh),
	}
}

// IsTight reports whether both axes have min == max.
func IsTight(c Constraints) bool {
	return c.MinWidth == c.MaxWidth && c.MinHeight == c.MaxHeight
}

// HasBoundedWidth reports whether MaxWidth is finite.
func (c Constraints) HasBoundedWidth() bool { return !math.IsInf(c.MaxWidth, 1) }

// HasBoundedHeight reports whether MaxHeight is finite.
func (c Constraints) HasBoundedHeight() bool { return !math.IsInf(c.MaxHeight, 1) }

// Loosen drops both minimums to 0.
func (c Constraints) Loosen() Constraints {
	return Constraints{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
}

func (c Constraints) String() string {
	return fmt.Sprintf("{w:%g..%g h:%g..%g}", c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight)
}

func shrinkMax(v, d float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	return nonNegative(v - d)
}

// clamp 限制 v 在 [lo, hi] 内；lo > hi 时以 lo 为准，结果不会为负。
func clamp(v, lo, hi float64) float64 {
	if v != v {
		v = 0
	}
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return nonNegative(v)
}
