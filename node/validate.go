package node

import (
	"fmt"

	"github.com/AugustoPreis/flow-pdf/geometry"
)

// MaxDepth bounds the tree depth accepted by Validate. Layout recursion depth
// equals tree depth, so callers reject deeper input before laying it out.
const MaxDepth = 256

// ValidationError 描述节点结构校验失败的位置与原因。
type ValidationError struct {
	NodeID int
	Kind   Kind
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("节点 #%d (%s) 校验失败: %s", e.NodeID, e.Kind, e.Reason)
}

// Validate 检查节点树是否“形状正确”：
// 内置类型的属性合法、叶子节点没有子节点、尺寸与间距非负、深度不超过 MaxDepth。
// 未知类型只要求有属性记录，是否支持由布局引擎的注册表决定。
func Validate(root *Node) error {
	if root == nil {
		return &ValidationError{Reason: "根节点为空"}
	}
	return validate(root, 1)
}

func validate(n *Node, depth int) error {
	if depth > MaxDepth {
		return &ValidationError{NodeID: n.ID, Kind: n.Kind(), Reason: fmt.Sprintf("树深度超过 %d", MaxDepth)}
	}
	fail := func(format string, args ...any) error {
		return &ValidationError{NodeID: n.ID, Kind: n.Kind(), Reason: fmt.Sprintf(format, args...)}
	}
	if n.Props == nil {
		return fail("缺少属性")
	}

	switch p := n.Props.(type) {
	case TextProps:
		if err := checkDims(p.Width, p.Height); err != "" {
			return fail("%s", err)
		}
		if p.Style != nil && p.Style.FontSize < 0 {
			return fail("字号不能为负数")
		}
	case VStackProps:
		if err := checkStack(p.StackProps); err != "" {
			return fail("%s", err)
		}
	case HStackProps:
		if err := checkStack(p.StackProps); err != "" {
			return fail("%s", err)
		}
	case DividerProps:
		if p.Thickness < 0 {
			return fail("线宽不能为负数")
		}
		if p.Length != nil && *p.Length < 0 {
			return fail("长度不能为负数")
		}
		switch p.Orientation {
		case "", OrientationHorizontal, OrientationVertical:
		default:
			return fail("未知方向 %q", p.Orientation)
		}
		switch p.LineStyle {
		case "", LineSolid, LineDashed, LineDotted:
		default:
			return fail("未知线型 %q", p.LineStyle)
		}
	case SpacerProps:
		if err := checkDims(p.Width, p.Height); err != "" {
			return fail("%s", err)
		}
		if p.Flex < 0 {
			return fail("flex 不能为负数")
		}
	case BoxProps:
		if err := checkDims(p.Width, p.Height); err != "" {
			return fail("%s", err)
		}
		if err := checkPadding(p.Padding); err != "" {
			return fail("%s", err)
		}
		if p.Border != nil && (p.Border.Width < 0 || p.Border.Radius < 0) {
			return fail("边框宽度与圆角不能为负数")
		}
	}

	switch n.Kind() {
	case KindText, KindDivider, KindSpacer:
		if len(n.Children) > 0 {
			return fail("叶子节点不能包含子节点")
		}
	}
	for i, child := range n.Children {
		if child == nil {
			return fail("第 %d 个子节点为空", i)
		}
		if err := validate(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func checkStack(p StackProps) string {
	if p.Spacing < 0 {
		return "间距不能为负数"
	}
	switch p.Align {
	case "", AlignStart, AlignCenter, AlignEnd:
	default:
		return fmt.Sprintf("未知对齐方式 %q", p.Align)
	}
	if err := checkDims(p.Width, p.Height); err != "" {
		return err
	}
	return checkPadding(p.Padding)
}

func checkDims(w, h *float64) string {
	if w != nil && *w < 0 {
		return "宽度不能为负数"
	}
	if h != nil && *h < 0 {
		return "高度不能为负数"
	}
	return ""
}

func checkPadding(p *geometry.Padding) string {
	if p == nil {
		return ""
	}
	if p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0 {
		return "内边距不能为负数"
	}
	return ""
}
