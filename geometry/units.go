package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. Layout works in PDF points (1/72 in);
// renderers convert at their boundary.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as points
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

func (u Unit) String() string {
	switch u {
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT converts the length to points. Unit-less values are already points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 { return l.ToPT() * PtToMm }

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}}

// ParseLength 解析带单位的长度字符串，例如 "12pt"、"20mm"、"1.5in" 或 "36"。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			num = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// PageSizes 常用纸张尺寸（pt，纵向）。
var PageSizes = map[string]Dimensions{
	"A3":     {Width: 841.89, Height: 1190.55},
	"A4":     {Width: 595.28, Height: 841.89},
	"A5":     {Width: 419.53, Height: 595.28},
	"LETTER": {Width: 612, Height: 792},
	"LEGAL":  {Width: 612, Height: 1008},
}

// Landscape returns the dimensions with the long side horizontal.
func (d Dimensions) Landscape() Dimensions {
	if d.Width < d.Height {
		return Dimensions{Width: d.Height, Height: d.Width}
	}
	return d
}

// LookupPageSize 按名称（大小写不敏感）查找纸张尺寸。
func LookupPageSize(name string) (Dimensions, bool) {
	d, ok := PageSizes[strings.ToUpper(strings.TrimSpace(name))]
	return d, ok
}

// PaddingSides 按 CSS 顺序展开 1 到 4 个取值：
// 1 个四边相同，2 个为上下/左右，3 个为上/左右/下，4 个为上/右/下/左。
func PaddingSides(v ...float64) (Padding, error) {
	switch len(v) {
	case 1:
		return Padding{Top: v[0], Right: v[0], Bottom: v[0], Left: v[0]}, nil
	case 2:
		return Padding{Top: v[0], Right: v[1], Bottom: v[0], Left: v[1]}, nil
	case 3:
		return Padding{Top: v[0], Right: v[1], Bottom: v[2], Left: v[1]}, nil
	case 4:
		return Padding{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}, nil
	default:
		return Padding{}, fmt.Errorf("需要 1 到 4 个取值，得到 %d 个", len(v))
	}
}

// ParsePadding 解析以空白分隔的 1 到 4 个长度，例如 "20mm" 或 "36pt 24pt"，结果为 pt。
func ParsePadding(value string) (Padding, error) {
	fields := strings.Fields(value)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		l, err := ParseLength(f)
		if err != nil {
			return Padding{}, err
		}
		vals[i] = l.ToPT()
	}
	return PaddingSides(vals...)
}
