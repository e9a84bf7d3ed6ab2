package renderer

import (
	"fmt"
)

// CommandKind 是绘制命令的类型标签。
type CommandKind string

const (
	CmdCreatePage CommandKind = "create-page"
	CmdText       CommandKind = "text"
	CmdRect       CommandKind = "rect"
	CmdLine       CommandKind = "line"
)

// Command 是一条与后端无关的绘制指令。各类型只使用与其相关的字段：
// text 用 Text/X/Y/TextStyle，rect 用 X/Y/Width/Height/RectStyle，
// line 用 X/Y/X2/Y2/LineStyle，create-page 用 Page。
type Command struct {
	Kind      CommandKind  `json:"kind"`
	Text      string       `json:"text,omitempty"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	X2        float64      `json:"x2,omitempty"`
	Y2        float64      `json:"y2,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
	Page      *PageOptions `json:"page,omitempty"`
	TextStyle *TextStyle   `json:"textStyle,omitempty"`
	RectStyle *RectStyle   `json:"rectStyle,omitempty"`
	LineStyle *LineStyle   `json:"lineStyle,omitempty"`
}

// Execute 按命令类型调用后端对应的唯一操作。
func (c Command) Execute(b Backend) error {
	switch c.Kind {
	case CmdCreatePage:
		var opts PageOptions
		if c.Page != nil {
			opts = *c.Page
		}
		return b.CreatePage(opts)
	case CmdText:
		var style TextStyle
		if c.TextStyle != nil {
			style = *c.TextStyle
		}
		return b.DrawText(c.Text, c.X, c.Y, style)
	case CmdRect:
		var style RectStyle
		if c.RectStyle != nil {
			style = *c.RectStyle
		}
		return b.DrawRect(c.X, c.Y, c.Width, c.Height, style)
	case CmdLine:
		var style LineStyle
		if c.LineStyle != nil {
			style = *c.LineStyle
		}
		return b.DrawLine(c.X, c.Y, c.X2, c.Y2, style)
	default:
		return fmt.Errorf("renderer: 未知命令类型 %q", c.Kind)
	}
}

// Execute 依次执行命令，遇到第一个错误即停止。
func Execute(b Backend, cmds []Command) error {
	for i, cmd := range cmds {
		if err := cmd.Execute(b); err != nil {
			return fmt.Errorf("执行第 %d 条命令 (%s) 失败: %w", i, cmd.Kind, err)
		}
	}
	return nil
}
