package document

import (
	"strings"

	"github.com/AugustoPreis/flow-pdf/dsl"
	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/node"
)

// multiValueKeys 后面可以跟 1 到 4 个长度（CSS 顺序）。
var multiValueKeys = map[string]bool{"padding": true}

// attrValue 返回属性取值；多值属性的取值以空格拼接。
func attrValue(key string, a *dsl.Attr) (string, error) {
	vals := a.Values()
	if !multiValueKeys[key] {
		if len(vals) > 1 {
			return "", a.Errorf("属性 %s 只接受一个取值", key)
		}
		return vals[0], nil
	}
	if len(vals) > 4 {
		return "", a.Errorf("属性 %s 至多 4 个取值", key)
	}
	return strings.Join(vals, " "), nil
}

// eachAttr 按声明顺序把属性交给 fn；fn 的错误带上属性位置。
func eachAttr(attrs []*dsl.Attr, fn func(key, val string) error) error {
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		val, err := attrValue(key, a)
		if err != nil {
			return err
		}
		if err := fn(key, val); err != nil {
			return a.Errorf("%s: %v", key, err)
		}
	}
	return nil
}

// attributes 把属性收集为映射，后出现的同名属性覆盖前者。
func attributes(attrs []*dsl.Attr) (map[string]string, error) {
	out := make(map[string]string, len(attrs))
	err := eachAttr(attrs, func(key, val string) error {
		out[key] = val
		return nil
	})
	return out, err
}

// length 解析长度并换算为 pt，无单位时按 pt 处理。
func length(v string) (float64, error) {
	l, err := geometry.ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.ToPT(), nil
}

func dim(v string) (*float64, error) {
	f, err := length(v)
	if err != nil {
		return nil, err
	}
	return node.Dim(f), nil
}

func padding(v string) (*geometry.Padding, error) {
	p, err := geometry.ParsePadding(v)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lengths 解析一组长度。
func lengths(vals []string) ([]float64, error) {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		f, err := length(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
