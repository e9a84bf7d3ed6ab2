package renderer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/AugustoPreis/flow-pdf/layout"
	"github.com/AugustoPreis/flow-pdf/node"
)

const (
	// DefaultDebugColor 调试轮廓的描边颜色。
	DefaultDebugColor = "#FF0000"
	debugStrokeWidth  = 0.5
	defaultInkColor   = "#000000"
)

// Warning 记录生成命令时被跳过的节点。
type Warning struct {
	NodeID  int       `json:"nodeId"`
	Kind    node.Kind `json:"kind"`
	Message string    `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("节点 #%d (%s): %s", w.NodeID, w.Kind, w.Message)
}

// Emitter 为自定义节点类型生成命令；子节点仍由 Generator 继续处理。
type Emitter func(ln *layout.LayoutNode) []Command

// Generator 把布局树转换为绘制命令，生成过程不调用任何后端。
type Generator struct {
	// Debug 为每个节点在其自身命令之前追加一个轮廓矩形。
	Debug      bool
	DebugColor string
	// Emitters 为布局引擎中注册过的自定义类型提供绘制逻辑。
	Emitters map[node.Kind]Emitter
}

// GenerateDocument 生成完整的单页文档：先创建页面，再绘制整棵树。
func (g Generator) GenerateDocument(tree *layout.LayoutTree) ([]Command, []Warning) {
	if tree == nil {
		return nil, nil
	}
	page := PageOptions{Width: tree.PageSize.Width, Height: tree.PageSize.Height}
	cmds, warnings := g.GenerateCommands(tree.Root)
	return append([]Command{{Kind: CmdCreatePage, Page: &page}}, cmds...), warnings
}

// GenerateCommands 按深度优先、声明顺序生成 root 子树的命令。
// 未知类型记录为警告并跳过其自身的命令，子节点照常生成，不会中断生成。
func (g Generator) GenerateCommands(root *layout.LayoutNode) ([]Command, []Warning) {
	st := &genState{g: g}
	st.visit(root)
	return st.cmds, st.warnings
}

type genState struct {
	g        Generator
	cmds     []Command
	warnings []Warning
}

func (st *genState) visit(ln *layout.LayoutNode) {
	if ln == nil || ln.Node == nil {
		return
	}
	if st.g.Debug {
		st.cmds = append(st.cmds, st.g.outline(ln.Box))
	}

	switch p := ln.Node.Props.(type) {
	case node.TextProps:
		st.cmds = append(st.cmds, textCommand(ln.Box, p))
	case node.BoxProps:
		if cmd, ok := boxCommand(ln.Box, p); ok {
			st.cmds = append(st.cmds, cmd)
		}
	case node.DividerProps:
		st.cmds = append(st.cmds, dividerCommand(ln.Box, p))
	case node.VStackProps, node.HStackProps, node.SpacerProps:
		// 容器与占位节点没有自身的绘制命令
	default:
		if emit, ok := st.g.Emitters[ln.Node.Kind()]; ok {
			st.cmds = append(st.cmds, emit(ln)...)
		} else {
			st.warn(ln.Node, "没有对应的绘制逻辑，已跳过")
		}
	}

	for _, child := range ln.Children {
		st.visit(child)
	}
}

func (st *genState) warn(n *node.Node, msg string) {
	w := Warning{NodeID: n.ID, Kind: n.Kind(), Message: msg}
	st.warnings = append(st.warnings, w)
	Logger().Warn("renderer: skip node", slog.Int("node_id", w.NodeID), slog.String("kind", string(w.Kind)), slog.String("reason", msg))
}

func (g Generator) outline(box layout.LayoutBox) Command {
	color := g.DebugColor
	if color == "" {
		color = DefaultDebugColor
	}
	return Command{
		Kind: CmdRect, X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
		RectStyle: &RectStyle{Stroke: color, StrokeWidth: debugStrokeWidth},
	}
}

// textCommand 原样保留节点样式；字号未设置时取布局实际使用的字号。
func textCommand(box layout.LayoutBox, p node.TextProps) Command {
	style := TextStyle{}
	if p.Style != nil {
		style.FontSize = p.Style.FontSize
		style.FontWeight = p.Style.FontWeight
		style.FontStyle = p.Style.FontStyle
		style.Color = p.Style.Color
	}
	text := p.Content
	if box.Text != nil {
		text = strings.Join(box.Text.Lines, "\n")
		if style.FontSize <= 0 {
			style.FontSize = box.Text.FontSize
		}
		style.LineHeight = box.Text.LineHeight
	}
	return Command{Kind: CmdText, Text: text, X: box.X, Y: box.Y, TextStyle: &style}
}

// boxCommand 只在设置了背景或边框时返回矩形命令。
func boxCommand(box layout.LayoutBox, p node.BoxProps) (Command, bool) {
	style := RectStyle{Fill: p.Background}
	if bw := p.BorderWidth(); bw > 0 {
		style.StrokeWidth = bw
		style.Stroke = p.Border.Color
		if style.Stroke == "" {
			style.Stroke = defaultInkColor
		}
	}
	if p.Border != nil {
		style.Radius = p.Border.Radius
	}
	if style.Fill == "" && style.Stroke == "" {
		return Command{}, false
	}
	return Command{
		Kind: CmdRect, X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
		RectStyle: &style,
	}, true
}

// dividerCommand 沿盒子中线画线：横向时 y 相同、x 跨越整个宽度，纵向时反之。
func dividerCommand(box layout.LayoutBox, p node.DividerProps) Command {
	t := p.EffectiveThickness()
	style := LineStyle{Color: p.Color, Width: t, Dash: DashPattern(p.LineStyle, t)}
	if style.Color == "" {
		style.Color = defaultInkColor
	}
	cmd := Command{Kind: CmdLine, LineStyle: &style}
	if p.IsVertical() {
		x := box.X + box.Width/2
		cmd.X, cmd.Y, cmd.X2, cmd.Y2 = x, box.Y, x, box.Y+box.Height
	} else {
		y := box.Y + box.Height/2
		cmd.X, cmd.Y, cmd.X2, cmd.Y2 = box.X, y, box.X+box.Width, y
	}
	return cmd
}

// DashPattern 将命名线型转换为虚线数组：dashed 为 [3t, 2t]，dotted 为 [t, t]，solid 为 nil。
func DashPattern(style node.LineStyle, thickness float64) []float64 {
	if thickness <= 0 {
		thickness = 1
	}
	switch style {
	case node.LineDashed:
		return []float64{3 * thickness, 2 * thickness}
	case node.LineDotted:
		return []float64{thickness, thickness}
	default:
		return nil
	}
}
