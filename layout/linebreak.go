package layout

import (
	"math"
	"strings"
)

// GreedyBreak 按贪心策略折行：单词以任意空白（包括换行符）分隔，候选行宽度不超过
// maxWidth 时追加，否则换行。超宽的单词独占一行，不会截断也不会死循环。
// maxWidth 无界时整段文本为一行；全为空白时返回 nil。
func GreedyBreak(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if math.IsInf(maxWidth, 1) || maxWidth != maxWidth {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

// widest returns the largest measured width among lines.
func widest(lines []string, measure func(string) float64) float64 {
	w := 0.0
	for _, l := range lines {
		if lw := measure(l); lw > w {
			w = lw
		}
	}
	return w
}
