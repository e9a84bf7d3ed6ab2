// Package node 定义文档的不可变节点树：每个节点带有类型标签与对应的属性记录，
// 容器节点另外持有有序的子节点。节点创建后不会被修改，因此可以被多个父节点共享。
package node

import (
	"encoding/json"

	"github.com/AugustoPreis/flow-pdf/geometry"
)

// Kind 是节点的类型标签。
type Kind string

const (
	KindText    Kind = "text"
	KindVStack  Kind = "vstack"
	KindHStack  Kind = "hstack"
	KindDivider Kind = "divider"
	KindSpacer  Kind = "spacer"
	KindBox     Kind = "box"
)

// Props is the per-variant property record. Custom variants declare their own
// Props type returning a new Kind.
type Props interface {
	Kind() Kind
}

// Axis is the main axis along which a container places its children.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Directional is implemented by props whose container lays children out along a
// specific axis. Containers that do not implement it stack vertically.
type Directional interface {
	Direction() Axis
}

// Gapped is implemented by props that declare spacing between children.
type Gapped interface {
	Gap() float64
}

// Aligned is implemented by props that declare cross-axis alignment.
type Aligned interface {
	CrossAlign() Alignment
}

// Node 是文档树中的一个不可变节点。
type Node struct {
	ID       int     `json:"id"`
	Props    Props   `json:"props"`
	Children []*Node `json:"children,omitempty"`
}

// Kind returns the variant tag, or "" for a node without props.
func (n *Node) Kind() Kind {
	if n == nil || n.Props == nil {
		return ""
	}
	return n.Props.Kind()
}

// MarshalJSON adds the kind tag so debug dumps stay readable.
func (n *Node) MarshalJSON() ([]byte, error) {
	type alias Node
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{Kind: n.Kind(), alias: (*alias)(n)})
}

// IsContainer reports whether the variant holds children.
func (n *Node) IsContainer() bool {
	switch n.Kind() {
	case KindVStack, KindHStack, KindBox:
		return true
	case KindText, KindDivider, KindSpacer:
		return false
	default:
		return len(n.Children) > 0
	}
}

// Dim returns a pointer to v, for optional width/height/length fields.
func Dim(v float64) *float64 { return &v }

// Alignment 控制容器在交叉轴上放置子节点的位置。
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// Orientation of a divider.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// LineStyle 是分割线的线型。
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// TextStyle 描述文本外观，字段为零值时由布局或渲染阶段取默认值。
type TextStyle struct {
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"` // normal | bold
	FontStyle  string  `json:"fontStyle,omitempty"`  // normal | italic
	Color      string  `json:"color,omitempty"`      // #RRGGBB
}

// TextProps 文本节点属性。
type TextProps struct {
	Content string     `json:"content"`
	Style   *TextStyle `json:"style,omitempty"`
	Width   *float64   `json:"width,omitempty"`
	Height  *float64   `json:"height,omitempty"`
}

func (TextProps) Kind() Kind { return KindText }

// StackProps 是 VStack 与 HStack 共用的属性。
type StackProps struct {
	Spacing float64           `json:"spacing,omitempty"`
	Align   Alignment         `json:"align,omitempty"`
	Width   *float64          `json:"width,omitempty"`
	Height  *float64          `json:"height,omitempty"`
	Padding *geometry.Padding `json:"padding,omitempty"`
}

func (p StackProps) Gap() float64          { return p.Spacing }
func (p StackProps) CrossAlign() Alignment { return p.Align }

// VStackProps 纵向堆叠。
type VStackProps struct {
	StackProps
}

func (VStackProps) Kind() Kind      { return KindVStack }
func (VStackProps) Direction() Axis { return Vertical }

// HStackProps 横向堆叠。
type HStackProps struct {
	StackProps
}

func (HStackProps) Kind() Kind      { return KindHStack }
func (HStackProps) Direction() Axis { return Horizontal }

// DividerProps 分割线属性；Thickness 为 0 时按 1 处理。
type DividerProps struct {
	Orientation Orientation `json:"orientation,omitempty"`
	Thickness   float64     `json:"thickness,omitempty"`
	Length      *float64    `json:"length,omitempty"`
	Color       string      `json:"color,omitempty"`
	LineStyle   LineStyle   `json:"lineStyle,omitempty"`
}

func (DividerProps) Kind() Kind { return KindDivider }

// EffectiveThickness returns Thickness, defaulting to 1.
func (p DividerProps) EffectiveThickness() float64 {
	if p.Thickness <= 0 {
		return 1
	}
	return p.Thickness
}

// IsVertical reports whether the divider runs top to bottom.
func (p DividerProps) IsVertical() bool { return p.Orientation == OrientationVertical }

// SpacerProps 占位节点属性；Flex > 0 表示占满可用空间。
type SpacerProps struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Flex   float64  `json:"flex,omitempty"`
}

func (SpacerProps) Kind() Kind { return KindSpacer }

// Border 描述盒子的边框，Width 为单边宽度。
type Border struct {
	Width  float64 `json:"width"`
	Color  string  `json:"color,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// BoxProps 盒子属性。
type BoxProps struct {
	Width      *float64          `json:"width,omitempty"`
	Height     *float64          `json:"height,omitempty"`
	Padding    *geometry.Padding `json:"padding,omitempty"`
	Background string            `json:"background,omitempty"`
	Border     *Border           `json:"border,omitempty"`
}

func (BoxProps) Kind() Kind { return KindBox }

// BorderWidth returns the single-side border width, 0 when unset.
func (p BoxProps) BorderWidth() float64 {
	if p.Border == nil || p.Border.Width < 0 {
		return 0
	}
	return p.Border.Width
}
