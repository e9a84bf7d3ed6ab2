package document

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/AugustoPreis/flow-pdf/binding"
	"github.com/AugustoPreis/flow-pdf/dsl"
	"github.com/AugustoPreis/flow-pdf/node"
)

type converter struct {
	b    node.Builder
	res  resources
	data any
}

// children 按声明顺序转换元素；裸字符串视为默认样式的文本。
func (c *converter) children(els []*dsl.Element) ([]*node.Node, error) {
	var out []*node.Node
	for _, el := range els {
		n, err := c.element(el)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *converter) element(el *dsl.Element) (*node.Node, error) {
	switch {
	case el.Text != nil:
		return c.text(el.Text)
	case el.Stack != nil:
		return c.stack(el.Stack)
	case el.Box != nil:
		return c.box(el.Box)
	case el.Divider != nil:
		return c.divider(el.Divider)
	case el.Spacer != nil:
		return c.spacer(el.Spacer)
	case el.Literal != nil:
		return c.b.Text(c.content(*el.Literal), nil), nil
	default:
		return nil, dsl.Errorf(el.Pos, "空元素")
	}
}

func (c *converter) content(raw string) string {
	return norm.NFC.String(binding.Interpolate(raw, c.data))
}

func (c *converter) text(el *dsl.TextElement) (*node.Node, error) {
	inline, err := attributes(el.Attrs)
	if err != nil {
		return nil, err
	}
	attrs := inline
	if el.Style != nil {
		style, ok := c.res.styles[el.Style.Name]
		if !ok {
			return nil, dsl.Errorf(el.Style.Pos, "style %s 未定义", el.Style.Name)
		}
		attrs = mergeStyleAttributes(style.Props, inline)
	}

	props := node.TextProps{Content: c.content(el.Content())}
	var style node.TextStyle
	for key, val := range attrs {
		switch key {
		case "size", "font-size":
			style.FontSize, err = length(val)
		case "weight":
			style.FontWeight = normalizeWeight(val)
		case "style", "font-style":
			style.FontStyle = strings.ToLower(val)
		case "color":
			style.Color, err = c.res.color(val)
		case "width":
			props.Width, err = dim(val)
		case "height":
			props.Height, err = dim(val)
		default:
			err = fmt.Errorf("text 不支持属性 %s", key)
		}
		if err != nil {
			return nil, dsl.Errorf(el.Pos, "%s: %v", key, err)
		}
	}
	if style != (node.TextStyle{}) {
		props.Style = &style
	}
	return c.b.TextWith(props), nil
}

func (c *converter) stack(el *dsl.StackElement) (*node.Node, error) {
	var p node.StackProps
	err := eachAttr(el.Attrs, func(key, val string) (err error) {
		switch key {
		case "spacing", "gap":
			p.Spacing, err = length(val)
		case "align":
			p.Align = node.Alignment(strings.ToLower(val))
		case "width":
			p.Width, err = dim(val)
		case "height":
			p.Height, err = dim(val)
		case "padding":
			p.Padding, err = padding(val)
		default:
			err = fmt.Errorf("%s 不支持该属性", el.Direction)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	children, err := c.children(el.Children)
	if err != nil {
		return nil, err
	}
	if el.Direction == "hstack" {
		return c.b.HStack(p, children...), nil
	}
	return c.b.VStack(p, children...), nil
}

func (c *converter) box(el *dsl.BoxElement) (*node.Node, error) {
	var p node.BoxProps
	var border node.Border
	err := eachAttr(el.Attrs, func(key, val string) (err error) {
		switch key {
		case "width":
			p.Width, err = dim(val)
		case "height":
			p.Height, err = dim(val)
		case "padding":
			p.Padding, err = padding(val)
		case "background":
			p.Background, err = c.res.color(val)
		case "border":
			border.Width, err = length(val)
		case "border-color":
			border.Color, err = c.res.color(val)
		case "radius":
			border.Radius, err = length(val)
		default:
			err = fmt.Errorf("box 不支持该属性")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if border != (node.Border{}) {
		p.Border = &border
	}
	children, err := c.children(el.Children)
	if err != nil {
		return nil, err
	}
	return c.b.Box(p, children...), nil
}

func (c *converter) divider(el *dsl.DividerElement) (*node.Node, error) {
	var p node.DividerProps
	err := eachAttr(el.Attrs, func(key, val string) (err error) {
		switch key {
		case "orientation", "dir":
			p.Orientation = orientation(val)
		case "thickness":
			p.Thickness, err = length(val)
		case "length":
			p.Length, err = dim(val)
		case "color":
			p.Color, err = c.res.color(val)
		case "style":
			p.LineStyle = node.LineStyle(strings.ToLower(val))
		default:
			err = fmt.Errorf("divider 不支持该属性")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.b.Divider(p), nil
}

func (c *converter) spacer(el *dsl.SpacerElement) (*node.Node, error) {
	var p node.SpacerProps
	err := eachAttr(el.Attrs, func(key, val string) (err error) {
		switch key {
		case "width":
			p.Width, err = dim(val)
		case "height":
			p.Height, err = dim(val)
		case "flex":
			p.Flex, err = strconv.ParseFloat(val, 64)
		default:
			err = fmt.Errorf("spacer 不支持该属性")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.b.Spacer(p), nil
}

func normalizeWeight(v string) string {
	v = strings.ToLower(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 600 {
			return "bold"
		}
		return "normal"
	}
	return v
}

func orientation(v string) node.Orientation {
	switch strings.ToLower(v) {
	case "v", "vertical":
		return node.OrientationVertical
	case "h", "horizontal":
		return node.OrientationHorizontal
	default:
		return node.Orientation(v)
	}
}

func mergeStyleAttributes(style, inline map[string]string) map[string]string {
	out := make(map[string]string, len(style)+len(inline))
	for k, v := range style {
		out[k] = v
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}
