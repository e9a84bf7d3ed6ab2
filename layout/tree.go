package layout

// 该文件定义一次布局计算的产物：LayoutBox、LayoutNode 与 LayoutTree。
// 它们在每次 Layout 调用时重新生成，返回后不再修改。

import (
	"encoding/json"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/node"
)

// TextLayout 保存文本折行结果，渲染阶段直接按行绘制，无需再次测量。
type TextLayout struct {
	Lines      []string `json:"lines"`
	FontSize   float64  `json:"fontSize"`
	LineHeight float64  `json:"lineHeight"`
}

// LayoutBox 是节点解析后的位置与尺寸。
// Padding 为内容区相对边框盒的内缩量（盒子节点包含边框宽度）。
type LayoutBox struct {
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Width   float64           `json:"width"`
	Height  float64           `json:"height"`
	Padding *geometry.Padding `json:"padding,omitempty"`
	Text    *TextLayout       `json:"text,omitempty"`
}

// Rect returns the border box.
func (b LayoutBox) Rect() geometry.Rect {
	return geometry.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// ContentRect 返回扣除 Padding 后的内容区域，宽高不小于 0。
func (b LayoutBox) ContentRect() geometry.Rect {
	if b.Padding == nil {
		return b.Rect()
	}
	return b.Rect().Inset(*b.Padding)
}

// LayoutNode 将节点与其布局结果配对，子节点坐标均为页面绝对坐标。
type LayoutNode struct {
	Node     *node.Node
	Box      LayoutBox
	Children []*LayoutNode
}

// MarshalJSON 只输出节点的 id 与类型，避免把整棵 Node 子树重复写入调试文件。
func (n *LayoutNode) MarshalJSON() ([]byte, error) {
	out := struct {
		ID       int           `json:"id"`
		Kind     node.Kind     `json:"kind"`
		Box      LayoutBox     `json:"box"`
		Children []*LayoutNode `json:"children,omitempty"`
	}{Box: n.Box, Children: n.Children}
	if n.Node != nil {
		out.ID = n.Node.ID
		out.Kind = n.Node.Kind()
	}
	return json.Marshal(out)
}

// Walk visits n and its descendants depth-first in declaration order.
// Returning false from fn skips the node's children.
func (n *LayoutNode) Walk(fn func(ln *LayoutNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *LayoutNode) walk(fn func(*LayoutNode, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// LayoutTree 是一次布局的完整结果，附带页面尺寸供分页或居中等下游决策使用。
type LayoutTree struct {
	Root     *LayoutNode         `json:"root"`
	PageSize geometry.Dimensions `json:"pageSize"`
}
