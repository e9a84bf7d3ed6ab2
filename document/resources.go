package document

import (
	"fmt"
	"strings"

	"github.com/AugustoPreis/flow-pdf/dsl"
)

// Style 是命名样式；Props 已合并 extends 链上的全部属性。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

type resources struct {
	colors map[string]string
	styles map[string]Style
}

func collectResources(doc *dsl.Document) (resources, error) {
	res := resources{colors: map[string]string{}, styles: map[string]Style{}}
	raw := map[string]Style{}
	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, item := range section.Resources.Items {
			switch {
			case item.Color != nil:
				res.colors[item.Color.Name] = item.Color.Value
			case item.Style != nil:
				raw[item.Style.Name] = styleResource(item.Style)
			}
		}
	}
	styles, err := resolveStyles(raw)
	if err != nil {
		return res, err
	}
	res.styles = styles
	return res, nil
}

func styleResource(s *dsl.StyleResource) Style {
	style := Style{Name: s.Name, Extends: s.Extends, Props: map[string]string{}}
	for _, p := range s.Props {
		if val := p.Value.Text(); val != "" {
			style.Props[strings.ToLower(p.Key)] = val
		}
	}
	return style
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
	}
	return resolved, nil
}

// color 把颜色名或十六进制值解析为十六进制字符串。
func (r resources) color(value string) (string, error) {
	if c, ok := r.colors[value]; ok {
		return c, nil
	}
	if isHexColor(value) {
		return value, nil
	}
	return "", fmt.Errorf("未知颜色 %s", value)
}

func isHexColor(value string) bool {
	hex, ok := strings.CutPrefix(value, "#")
	if !ok {
		return false
	}
	switch len(hex) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
