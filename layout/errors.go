package layout

import (
	"errors"
	"fmt"

	"github.com/AugustoPreis/flow-pdf/node"
)

// ErrUnsupportedKind 可用 errors.Is 判断布局时遇到了未注册的节点类型。
var ErrUnsupportedKind = errors.New("layout: 不支持的节点类型")

// UnsupportedKindError 标识注册表中没有对应计算器的节点。
// 这是调用方与注册表不匹配的问题，引擎不会为其猜测默认尺寸。
type UnsupportedKindError struct {
	Kind   node.Kind
	NodeID int
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("layout: 节点 #%d 的类型 %q 没有注册计算器", e.NodeID, e.Kind)
}

func (e *UnsupportedKindError) Is(target error) bool { return target == ErrUnsupportedKind }

// PropsMismatchError 表示计算器收到的属性记录与其类型不符。
type PropsMismatchError struct {
	Kind   node.Kind
	NodeID int
	Got    node.Props
}

func (e *PropsMismatchError) Error() string {
	return fmt.Sprintf("layout: 节点 #%d 的属性类型 %T 与计算器 %q 不匹配", e.NodeID, e.Got, e.Kind)
}

func mismatch(want node.Kind, n *node.Node) error {
	return &PropsMismatchError{Kind: want, NodeID: n.ID, Got: n.Props}
}
