package layout

import (
	"fmt"
	"math"
	"sync"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/node"
)

// Engine 将节点树解析为带绝对坐标的布局树。
// 除计算器注册表外不保存任何跨调用状态，可被多个 goroutine 同时调用。
type Engine struct {
	opts Options

	mu          sync.RWMutex
	calculators map[node.Kind]Calculator
}

// NewEngine 创建引擎并注册全部内置计算器。
func NewEngine(opts Options) *Engine {
	e := &Engine{
		opts:        opts.withDefaults(),
		calculators: make(map[node.Kind]Calculator, 6),
	}
	e.calculators[node.KindText] = TextCalculator
	e.calculators[node.KindVStack] = VStackCalculator
	e.calculators[node.KindHStack] = HStackCalculator
	e.calculators[node.KindDivider] = DividerCalculator
	e.calculators[node.KindSpacer] = SpacerCalculator
	e.calculators[node.KindBox] = BoxCalculator
	return e
}

// Options returns the normalised options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

// Register 为 kind 注册（或替换）计算器；calc 为 nil 时移除该类型。
func (e *Engine) Register(kind node.Kind, calc Calculator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if calc == nil {
		delete(e.calculators, kind)
		return
	}
	e.calculators[kind] = calc
}

// Calculator returns the calculator registered for kind.
func (e *Engine) Calculator(kind node.Kind) (Calculator, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	calc, ok := e.calculators[kind]
	return calc, ok
}

// DefaultConstraints 是页面扣除边距后的宽松约束。
func (e *Engine) DefaultConstraints() geometry.Constraints {
	return geometry.Loose(
		e.opts.PageSize.Width-e.opts.Margin.Horizontal(),
		e.opts.PageSize.Height-e.opts.Margin.Vertical(),
	)
}

// Layout 计算 root 的布局。c 为 nil 时使用 DefaultConstraints。
// 根节点放在 (margin.Left, margin.Top)；遇到未注册的类型时返回 *UnsupportedKindError。
func (e *Engine) Layout(root *node.Node, c *geometry.Constraints) (*LayoutTree, error) {
	if root == nil {
		return nil, fmt.Errorf("layout: 根节点为空")
	}
	constraints := e.DefaultConstraints()
	if c != nil {
		constraints = geometry.NewConstraints(c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight)
	}

	p := &pass{engine: e}
	p.ctx = &Context{
		Metrics:         e.opts.Metrics,
		DefaultFontSize: e.opts.DefaultFontSize,
		LayoutChild:     p.layoutChild,
	}
	ln, err := p.resolve(root, constraints)
	if err != nil {
		return nil, err
	}
	absolutize(ln, e.opts.Margin.Left, e.opts.Margin.Top)
	return &LayoutTree{Root: ln, PageSize: e.opts.PageSize}, nil
}

// pass 保存单次 Layout 调用的状态。frames 为每个正在计算的父节点收集
// 其计算器通过 LayoutChild 布局过的子节点。
type pass struct {
	engine *Engine
	ctx    *Context
	frames [][]*LayoutNode
}

func (p *pass) layoutChild(child *node.Node, c geometry.Constraints) (LayoutBox, error) {
	if child == nil {
		return LayoutBox{}, nil
	}
	ln, err := p.resolve(child, c)
	if err != nil {
		return LayoutBox{}, err
	}
	if top := len(p.frames) - 1; top >= 0 {
		p.frames[top] = append(p.frames[top], ln)
	}
	return ln.Box, nil
}

// resolve 先由计算器求尺寸，再在父节点坐标系内依次放置子节点（相对坐标）。
func (p *pass) resolve(n *node.Node, c geometry.Constraints) (*LayoutNode, error) {
	calc, ok := p.engine.Calculator(n.Kind())
	if !ok {
		return nil, &UnsupportedKindError{Kind: n.Kind(), NodeID: n.ID}
	}

	p.frames = append(p.frames, nil)
	box, err := calc.Calculate(n, c, p.ctx)
	collected := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]
	if err != nil {
		return nil, err
	}
	box.X, box.Y = 0, 0

	ln := &LayoutNode{Node: n, Box: box}
	if len(n.Children) == 0 {
		return ln, nil
	}
	if ln.Children, err = p.matchChildren(n, box, collected); err != nil {
		return nil, err
	}
	place(ln)
	return ln, nil
}

// matchChildren 按节点身份把已收集的结果分配给子节点，与计算器布局子节点的顺序无关。
// 同一节点在 Children 中出现 k 次时取它最后 k 个结果（计算器可能先试算再定尺寸）；
// 计算器未布局的子节点以内容区的宽松约束补算。
func (p *pass) matchChildren(n *node.Node, box LayoutBox, collected []*LayoutNode) ([]*LayoutNode, error) {
	results := make(map[*node.Node][]*LayoutNode, len(collected))
	for _, ln := range collected {
		results[ln.Node] = append(results[ln.Node], ln)
	}
	occurrences := make(map[*node.Node]int, len(n.Children))
	for _, child := range n.Children {
		occurrences[child]++
	}
	for child, k := range occurrences {
		if got := results[child]; len(got) > k {
			results[child] = got[len(got)-k:]
		}
	}

	out := make([]*LayoutNode, 0, len(n.Children))
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if queue := results[child]; len(queue) > 0 {
			out = append(out, queue[0])
			results[child] = queue[1:]
			continue
		}
		content := box.ContentRect()
		ln, err := p.resolve(child, geometry.Loose(content.Width, content.Height))
		if err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	return out, nil
}

// place 在内容区内依次放置子节点：横向容器沿 x 轴推进，其余容器沿 y 轴推进。
func place(ln *LayoutNode) {
	content := ln.Box.ContentRect()
	horizontal := false
	if d, ok := ln.Node.Props.(node.Directional); ok {
		horizontal = d.Direction() == node.Horizontal
	}
	gap := 0.0
	if g, ok := ln.Node.Props.(node.Gapped); ok {
		gap = math.Max(g.Gap(), 0)
	}
	align := node.AlignStart
	if a, ok := ln.Node.Props.(node.Aligned); ok && a.CrossAlign() != "" {
		align = a.CrossAlign()
	}

	if horizontal {
		x := content.X
		for _, child := range ln.Children {
			child.Box.X = x
			child.Box.Y = content.Y + crossOffset(content.Height, child.Box.Height, align)
			x += child.Box.Width + gap
		}
		return
	}
	y := content.Y
	for _, child := range ln.Children {
		child.Box.X = content.X + crossOffset(content.Width, child.Box.Width, align)
		child.Box.Y = y
		y += child.Box.Height + gap
	}
}

func crossOffset(avail, size float64, align node.Alignment) float64 {
	var off float64
	switch align {
	case node.AlignCenter:
		off = (avail - size) / 2
	case node.AlignEnd:
		off = avail - size
	}
	return math.Max(off, 0)
}

// absolutize 将相对父节点的坐标转换为页面绝对坐标。
func absolutize(ln *LayoutNode, ox, oy float64) {
	ln.Box.X += ox
	ln.Box.Y += oy
	for _, child := range ln.Children {
		absolutize(child, ln.Box.X, ln.Box.Y)
	}
}
