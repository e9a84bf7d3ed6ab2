// Package fonts 提供内置字体（Go 字体族）以及基于 OpenType 的文本度量。
package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style 是字族中的字形变体。
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// StyleFor 根据文本样式中的 weight/style 选择变体，未知取值按 regular 处理。
func StyleFor(weight, style string) Style {
	bold := strings.EqualFold(weight, "bold") || weight == "700" || weight == "800" || weight == "900"
	italic := strings.EqualFold(style, "italic") || strings.EqualFold(style, "oblique")
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

// Data 返回内置 Go 字体对应变体的 TTF 数据。
func Data(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Italic:
		return goitalic.TTF
	case BoldItalic:
		return gobolditalic.TTF
	default:
		return goregular.TTF
	}
}

// Load 返回字体字节数据。src 可写为 "builtin:bold"、"embed:regular" 或文件路径。
func Load(src string) ([]byte, error) {
	name, builtin := strings.CutPrefix(src, "builtin:")
	if !builtin {
		name, builtin = strings.CutPrefix(src, "embed:")
	}
	if builtin {
		switch strings.ToLower(strings.TrimPrefix(name, "go-")) {
		case "regular", "":
			return Data(Regular), nil
		case "bold":
			return Data(Bold), nil
		case "italic":
			return Data(Italic), nil
		case "bold-italic", "bolditalic":
			return Data(BoldItalic), nil
		}
		return nil, fmt.Errorf("未知的内置字体 %s", src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
