package node

// Builder 负责创建节点并分配单调递增的 ID。
// 计数器由调用方持有并显式传递，不使用包级可变状态；零值即可使用。
// Builder 不是并发安全的，每棵树使用各自的 Builder。
type Builder struct {
	next int
}

func (b *Builder) make(p Props, children []*Node) *Node {
	b.next++
	var kids []*Node
	if len(children) > 0 {
		kids = make([]*Node, len(children))
		copy(kids, children)
	}
	return &Node{ID: b.next, Props: p, Children: kids}
}

// Count returns how many nodes the builder has created.
func (b *Builder) Count() int { return b.next }

// Node creates a node of any variant, including custom ones.
func (b *Builder) Node(p Props, children ...*Node) *Node { return b.make(p, children) }

// Text 创建文本节点。
func (b *Builder) Text(content string, style *TextStyle) *Node {
	return b.make(TextProps{Content: content, Style: style}, nil)
}

// TextWith 使用完整属性创建文本节点，可设置显式宽高。
func (b *Builder) TextWith(p TextProps) *Node { return b.make(p, nil) }

// VStack 创建纵向堆叠容器。
func (b *Builder) VStack(p StackProps, children ...*Node) *Node {
	return b.make(VStackProps{StackProps: p}, children)
}

// HStack 创建横向堆叠容器。
func (b *Builder) HStack(p StackProps, children ...*Node) *Node {
	return b.make(HStackProps{StackProps: p}, children)
}

// Box 创建盒子容器。
func (b *Builder) Box(p BoxProps, children ...*Node) *Node {
	return b.make(p, children)
}

// Divider 创建分割线。
func (b *Builder) Divider(p DividerProps) *Node { return b.make(p, nil) }

// Spacer 创建占位节点。
func (b *Builder) Spacer(p SpacerProps) *Node { return b.make(p, nil) }
