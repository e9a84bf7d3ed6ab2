package dsl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Pages 按声明顺序返回全部 page 段落。
func (d *Document) Pages() []*PageSection {
	var out []*PageSection
	for _, s := range d.Sections {
		if s.Page != nil {
			out = append(out, s.Page)
		}
	}
	return out
}

// Kind 返回元素类型名，与 node 包的类型名一致。
func (e *Element) Kind() string {
	switch {
	case e == nil:
		return ""
	case e.Text != nil, e.Literal != nil:
		return "text"
	case e.Stack != nil:
		return e.Stack.Direction
	case e.Box != nil:
		return "box"
	case e.Divider != nil:
		return "divider"
	case e.Spacer != nil:
		return "spacer"
	default:
		return ""
	}
}

// Content 拼接 text 元素中的全部字符串。
func (t *TextElement) Content() string {
	return strings.Join(t.Parts, "")
}

// Text 返回值的原始文本（字符串已去掉引号）。
func (s *Scalar) Text() string {
	switch {
	case s == nil:
		return ""
	case s.Number != nil:
		return *s.Number
	case s.Color != nil:
		return *s.Color
	case s.String != nil:
		return *s.String
	case s.Ident != nil:
		return *s.Ident
	default:
		return ""
	}
}

// Values 返回属性的全部取值，首个为 Value，其后为附加的数值。
func (a *Attr) Values() []string {
	return append([]string{a.Value.Text()}, a.Extra...)
}

// Text 返回标量取值；列表返回空串。
func (v *MetaValue) Text() string {
	if v == nil || v.Scalar == nil {
		return ""
	}
	return *v.Scalar
}

// Strings 把列表展开为字符串，标量值视为单元素列表。
func (v *MetaValue) Strings() []string {
	if v == nil {
		return nil
	}
	if v.Scalar != nil {
		if *v.Scalar == "" {
			return nil
		}
		return []string{*v.Scalar}
	}
	out := make([]string, 0, len(v.List))
	for _, s := range v.List {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PositionError 带有源码位置的语义错误。
type PositionError struct {
	Pos lexer.Position
	Msg string
}

func (e *PositionError) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("第 %d 行第 %d 列: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Errorf 返回指向 pos 的错误。
func Errorf(pos lexer.Position, format string, args ...any) error {
	return &PositionError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Errorf 返回指向该属性位置的错误。
func (a *Attr) Errorf(format string, args ...any) error {
	return Errorf(a.Pos, format, args...)
}

// Errorf 返回指向该页面位置的错误。
func (p *PageSection) Errorf(format string, args ...any) error {
	return Errorf(p.Pos, format, args...)
}
