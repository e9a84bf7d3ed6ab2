package canvasrenderer

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/layout"
	"github.com/AugustoPreis/flow-pdf/node"
	"github.com/AugustoPreis/flow-pdf/renderer"
)

func a4() renderer.PageOptions {
	size := geometry.PageSizes["A4"]
	return renderer.PageOptions{Width: size.Width, Height: size.Height}
}

func TestDrawBeforeCreatePageFails(t *testing.T) {
	b := New(Options{})
	if err := b.DrawText("x", 0, 0, renderer.TextStyle{}); !errors.Is(err, errNoPage) {
		t.Fatalf("expected errNoPage, got %v", err)
	}
	if _, err := b.Finalize(); err == nil {
		t.Fatalf("Finalize without pages should fail")
	}
}

func TestCreatePageRejectsEmptySize(t *testing.T) {
	if err := New(Options{}).CreatePage(renderer.PageOptions{}); err == nil {
		t.Fatalf("expected error for zero page size")
	}
}

func TestFinalizeProducesPDF(t *testing.T) {
	b := New(Options{Info: Info{Title: "Invoice", Author: "ACME", Keywords: []string{"a", "b"}}})
	if err := b.CreatePage(a4()); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	steps := []error{
		b.DrawRect(20, 20, 200, 100, renderer.RectStyle{Fill: "#EEEEEE", Stroke: "#333333", StrokeWidth: 1, Radius: 4}),
		b.DrawText("Hello\n\nWorld", 30, 30, renderer.TextStyle{FontSize: 14, FontWeight: "bold", Color: "#0F62FE", LineHeight: 18}),
		b.DrawLine(20, 140, 220, 140, renderer.LineStyle{Color: "#999999", Width: 1, Dash: []float64{3, 2}}),
		b.DrawRect(0, 0, 0, 10, renderer.RectStyle{Fill: "#000000"}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if err := b.CreatePage(renderer.PageOptions{Width: 300, Height: 300}); err != nil {
		t.Fatalf("second page: %v", err)
	}
	if b.PageCount() != 2 {
		t.Fatalf("PageCount = %d", b.PageCount())
	}
	out, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
	if err := b.CreatePage(a4()); err == nil {
		t.Fatalf("CreatePage after Finalize should fail")
	}
}

func TestRenderLayoutTree(t *testing.T) {
	var nb node.Builder
	pad := geometry.PaddingAll(12)
	root := nb.VStack(node.StackProps{Spacing: 8, Padding: &pad},
		nb.Text("Invoice 42", &node.TextStyle{FontSize: 18, FontWeight: "bold"}),
		nb.Divider(node.DividerProps{LineStyle: node.LineDotted}),
		nb.HStack(node.StackProps{Spacing: 4},
			nb.Box(node.BoxProps{Background: "#EEEEEE", Border: &node.Border{Width: 1}}, nb.Text("left", nil)),
			nb.Text("right", &node.TextStyle{FontStyle: "italic"}),
		),
	)
	b := New(Options{})
	e := layout.NewEngine(layout.Options{PageSize: geometry.PageSizes["A4"], Margin: geometry.PaddingAll(36), Metrics: b.Metrics()})
	tree, err := e.Layout(root, nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	out, warnings, err := renderer.Render(b, tree, renderer.Generator{Debug: true})
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Render: %v %v", err, warnings)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestMetricsMatchCanvasFace(t *testing.T) {
	b := New(Options{})
	m := b.Metrics()
	if m.Measure("", 12) != 0 {
		t.Fatalf("empty text must be 0")
	}
	w := m.Measure("Hello World", 12)
	if w <= 0 || w > 12*11 {
		t.Fatalf("implausible width %g", w)
	}
	if ratio := m.Measure("Hello World", 24) / w; math.Abs(ratio-2) > 0.05 {
		t.Fatalf("width should scale with size, ratio %g", ratio)
	}
	if lh := m.LineHeight(12); lh < 12 || lh > 20 {
		t.Fatalf("implausible line height %g", lh)
	}
	lines := m.BreakLines("the quick brown fox jumps over the lazy dog", 12, 60)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", lines)
	}
}

func TestMetricsWithStyleUsesBoldFace(t *testing.T) {
	b := New(Options{})
	m := b.Metrics()
	if m.WithStyle("", "") != layout.FontMetrics(m) || m.WithStyle("normal", "normal") != layout.FontMetrics(m) {
		t.Fatalf("regular style must reuse the same metrics")
	}
	text := "Invoice Total Amount"
	regular := m.Measure(text, 12)
	bold := m.WithStyle("bold", "").Measure(text, 12)
	if bold <= regular {
		t.Fatalf("bold width %g should exceed regular width %g", bold, regular)
	}
	if again := m.WithStyle("700", "").Measure(text, 12); again != bold {
		t.Fatalf("numeric weight should select the same bold face: %g vs %g", again, bold)
	}
	if italic := m.WithStyle("", "italic").Measure(text, 12); italic <= 0 {
		t.Fatalf("italic width %g", italic)
	}
}

func TestParseColor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}
	tests := map[string]bool{
		"#FF0000":   true,
		"#f00":      true,
		"#FF000080": true,
		"":          false,
		"red":       false,
		"#GG0000":   false,
		"#12345":    false,
	}
	for in, valid := range tests {
		got := parseColor(in, fallback)
		if valid && got == color.Color(fallback) {
			t.Fatalf("parseColor(%q) fell back", in)
		}
		if !valid && got != color.Color(fallback) {
			t.Fatalf("parseColor(%q) = %v, want fallback", in, got)
		}
	}
	if got := parseColor("#FF0000", fallback); got != color.Color(canvas.Hex("#FF0000")) {
		t.Fatalf("parseColor mismatch: %v", got)
	}
}

func TestUnitConversion(t *testing.T) {
	if d := math.Abs(toMm(72) - 25.4); d > 1e-9 {
		t.Fatalf("toMm(72) = %g", toMm(72))
	}
	if d := math.Abs(toPt(toMm(123.4)) - 123.4); d > 1e-9 {
		t.Fatalf("round trip drift %g", d)
	}
}
