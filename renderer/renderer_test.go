package renderer

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/layout"
	"github.com/AugustoPreis/flow-pdf/node"
)

func layoutTree(t *testing.T, root *node.Node, register ...func(*layout.Engine)) *layout.LayoutTree {
	t.Helper()
	e := layout.NewEngine(layout.Options{PageSize: geometry.Dimensions{Width: 400, Height: 600}})
	for _, fn := range register {
		fn(e)
	}
	tree, err := e.Layout(root, nil)
	if err != nil {
		t.Fatalf("Layout 失败: %v", err)
	}
	return tree
}

func kinds(cmds []Command) []CommandKind {
	out := make([]CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestTextCommandCarriesStyle(t *testing.T) {
	var b node.Builder
	style := &node.TextStyle{FontSize: 14, FontWeight: "bold", FontStyle: "italic", Color: "#112233"}
	tree := layoutTree(t, b.Text("Hello", style))
	cmds, warnings := Generator{}.GenerateCommands(tree.Root)
	if len(warnings) != 0 || len(cmds) != 1 {
		t.Fatalf("got %d commands, %d warnings", len(cmds), len(warnings))
	}
	c := cmds[0]
	if c.Kind != CmdText || c.Text != "Hello" || c.X != tree.Root.Box.X || c.Y != tree.Root.Box.Y {
		t.Fatalf("unexpected text command %+v", c)
	}
	ts := c.TextStyle
	if ts.FontSize != 14 || ts.FontWeight != "bold" || ts.FontStyle != "italic" || ts.Color != "#112233" {
		t.Fatalf("style not carried through: %+v", ts)
	}
	if ts.LineHeight <= 0 {
		t.Fatalf("line height missing")
	}
}

func TestTextCommandFontSize(t *testing.T) {
	var b node.Builder
	tree := layoutTree(t, b.Text("Hello", &node.TextStyle{FontWeight: "bold"}))
	cmds, _ := Generator{}.GenerateCommands(tree.Root)
	ts := cmds[0].TextStyle
	if ts.FontSize != tree.Root.Box.Text.FontSize || ts.FontSize <= 0 || ts.FontWeight != "bold" {
		t.Fatalf("unset font size must come from layout: %+v", ts)
	}

	// 布局信息与节点样式不一致时，以节点样式为准
	ln := &layout.LayoutNode{
		Node: b.Text("Hi", &node.TextStyle{FontSize: 9}),
		Box:  layout.LayoutBox{Width: 10, Height: 10, Text: &layout.TextLayout{Lines: []string{"Hi"}, FontSize: 12, LineHeight: 14}},
	}
	cmds, _ = Generator{}.GenerateCommands(ln)
	if cmds[0].TextStyle.FontSize != 9 || cmds[0].TextStyle.LineHeight != 14 {
		t.Fatalf("style font size overwritten: %+v", cmds[0].TextStyle)
	}
}

func TestWrappedTextJoinsLines(t *testing.T) {
	var b node.Builder
	n := b.TextWith(node.TextProps{Content: "alpha beta gamma delta", Width: node.Dim(40)})
	tree := layoutTree(t, n)
	cmds, _ := Generator{}.GenerateCommands(tree.Root)
	if got := strings.Count(cmds[0].Text, "\n") + 1; got != len(tree.Root.Box.Text.Lines) || got < 2 {
		t.Fatalf("expected wrapped lines in command, got %q", cmds[0].Text)
	}
}

func TestBoxRectOnlyWhenStyled(t *testing.T) {
	var b node.Builder
	plain := b.Box(node.BoxProps{}, b.Text("x", nil))
	cmds, _ := Generator{}.GenerateCommands(layoutTree(t, plain).Root)
	if !reflect.DeepEqual(kinds(cmds), []CommandKind{CmdText}) {
		t.Fatalf("plain box should not draw a rect: %v", kinds(cmds))
	}

	styled := b.Box(node.BoxProps{Background: "#EEEEEE", Border: &node.Border{Width: 2, Radius: 4}}, b.Text("x", nil))
	tree := layoutTree(t, styled)
	cmds, _ = Generator{}.GenerateCommands(tree.Root)
	if !reflect.DeepEqual(kinds(cmds), []CommandKind{CmdRect, CmdText}) {
		t.Fatalf("styled box: %v", kinds(cmds))
	}
	rs := cmds[0].RectStyle
	if rs.Fill != "#EEEEEE" || rs.Stroke != defaultInkColor || rs.StrokeWidth != 2 || rs.Radius != 4 {
		t.Fatalf("rect style = %+v", rs)
	}
	if cmds[0].Width != tree.Root.Box.Width || cmds[0].Height != tree.Root.Box.Height {
		t.Fatalf("rect size does not match box")
	}
}

func TestDividerEndpointsAndDash(t *testing.T) {
	var b node.Builder
	h := b.Divider(node.DividerProps{Thickness: 2, LineStyle: node.LineDashed, Color: "#999999"})
	v := b.Divider(node.DividerProps{Orientation: node.OrientationVertical, Length: node.Dim(30), LineStyle: node.LineDotted})
	tree := layoutTree(t, b.VStack(node.StackProps{}, h, v))
	cmds, _ := Generator{}.GenerateCommands(tree.Root)
	if len(cmds) != 2 {
		t.Fatalf("expected 2 line commands, got %v", kinds(cmds))
	}
	hb := tree.Root.Children[0].Box
	hc := cmds[0]
	if hc.Y != hc.Y2 || hc.X != hb.X || hc.X2 != hb.X+hb.Width {
		t.Fatalf("horizontal endpoints wrong: %+v", hc)
	}
	if !reflect.DeepEqual(hc.LineStyle.Dash, []float64{6, 4}) || hc.LineStyle.Color != "#999999" || hc.LineStyle.Width != 2 {
		t.Fatalf("horizontal style = %+v", hc.LineStyle)
	}
	vb := tree.Root.Children[1].Box
	vc := cmds[1]
	if vc.X != vc.X2 || vc.Y != vb.Y || vc.Y2 != vb.Y+30 {
		t.Fatalf("vertical endpoints wrong: %+v", vc)
	}
	if !reflect.DeepEqual(vc.LineStyle.Dash, []float64{1, 1}) {
		t.Fatalf("dotted dash = %v", vc.LineStyle.Dash)
	}
}

func TestDashPattern(t *testing.T) {
	if DashPattern(node.LineSolid, 3) != nil || DashPattern("", 3) != nil {
		t.Fatalf("solid must have no dash")
	}
	if got := DashPattern(node.LineDashed, 0); !reflect.DeepEqual(got, []float64{3, 2}) {
		t.Fatalf("dashed with default thickness = %v", got)
	}
}

func TestStacksAndSpacersEmitNothing(t *testing.T) {
	var b node.Builder
	root := b.VStack(node.StackProps{}, b.HStack(node.StackProps{}, b.Spacer(node.SpacerProps{Flex: 1})))
	cmds, warnings := Generator{}.GenerateCommands(layoutTree(t, root).Root)
	if len(cmds) != 0 || len(warnings) != 0 {
		t.Fatalf("expected no output, got %v / %v", cmds, warnings)
	}
}

func TestCommandOrderIsDepthFirst(t *testing.T) {
	var b node.Builder
	root := b.VStack(node.StackProps{},
		b.Text("one", nil),
		b.Box(node.BoxProps{Background: "#FFFFFF"}, b.Text("two", nil)),
		b.Divider(node.DividerProps{}),
		b.Text("three", nil),
	)
	cmds, _ := Generator{}.GenerateCommands(layoutTree(t, root).Root)
	want := []CommandKind{CmdText, CmdRect, CmdText, CmdLine, CmdText}
	if !reflect.DeepEqual(kinds(cmds), want) {
		t.Fatalf("order = %v, want %v", kinds(cmds), want)
	}
	if cmds[2].Text != "two" || cmds[4].Text != "three" {
		t.Fatalf("text order wrong")
	}
}

func TestDebugOutlinesPrecedeNodeCommands(t *testing.T) {
	var b node.Builder
	root := b.VStack(node.StackProps{}, b.Text("a", nil), b.Spacer(node.SpacerProps{Height: node.Dim(5)}))
	cmds, _ := Generator{Debug: true}.GenerateCommands(layoutTree(t, root).Root)
	want := []CommandKind{CmdRect, CmdRect, CmdText, CmdRect}
	if !reflect.DeepEqual(kinds(cmds), want) {
		t.Fatalf("debug order = %v, want %v", kinds(cmds), want)
	}
	if cmds[0].RectStyle.Stroke != DefaultDebugColor || cmds[0].RectStyle.Fill != "" {
		t.Fatalf("outline style = %+v", cmds[0].RectStyle)
	}

	cmds, _ = Generator{Debug: true, DebugColor: "#00FF00"}.GenerateCommands(layoutTree(t, root).Root)
	if cmds[0].RectStyle.Stroke != "#00FF00" {
		t.Fatalf("custom debug color ignored")
	}
}

type badgeProps struct{}

func (badgeProps) Kind() node.Kind { return "badge" }

func registerBadge(e *layout.Engine) {
	e.Register("badge", layout.CalculatorFunc(func(n *node.Node, c geometry.Constraints, _ *layout.Context) (layout.LayoutBox, error) {
		return layout.LayoutBox{Width: geometry.ClampWidth(20, c), Height: geometry.ClampHeight(10, c)}, nil
	}))
}

func TestUnknownKindIsWarningAndSkipped(t *testing.T) {
	var b node.Builder
	root := b.VStack(node.StackProps{}, b.Text("before", nil), b.Node(badgeProps{}, b.Text("inside", nil)), b.Text("after", nil))
	tree := layoutTree(t, root, registerBadge)

	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	defer SetLogger(nil)

	cmds, warnings := Generator{}.GenerateCommands(tree.Root)
	if len(warnings) != 1 || warnings[0].Kind != "badge" || warnings[0].NodeID != root.Children[1].ID {
		t.Fatalf("warnings = %+v", warnings)
	}
	texts := make([]string, len(cmds))
	for i, c := range cmds {
		texts[i] = c.Text
	}
	if !reflect.DeepEqual(texts, []string{"before", "inside", "after"}) {
		t.Fatalf("siblings and children must still render: %q", texts)
	}
	if !strings.Contains(logs.String(), "node_id=") || !strings.Contains(logs.String(), "kind=badge") {
		t.Fatalf("warning not logged: %q", logs.String())
	}
}

func TestCustomEmitter(t *testing.T) {
	var b node.Builder
	tree := layoutTree(t, b.Node(badgeProps{}), registerBadge)
	g := Generator{Emitters: map[node.Kind]Emitter{
		"badge": func(ln *layout.LayoutNode) []Command {
			return []Command{{Kind: CmdRect, X: ln.Box.X, Y: ln.Box.Y, Width: ln.Box.Width, Height: ln.Box.Height, RectStyle: &RectStyle{Fill: "#FF0000"}}}
		},
	}}
	cmds, warnings := g.GenerateCommands(tree.Root)
	if len(warnings) != 0 || len(cmds) != 1 || cmds[0].Width != 20 {
		t.Fatalf("emitter output = %+v, warnings %+v", cmds, warnings)
	}
}

func TestGenerateDocumentPrependsPage(t *testing.T) {
	var b node.Builder
	tree := layoutTree(t, b.Text("x", nil))
	cmds, _ := Generator{}.GenerateDocument(tree)
	if cmds[0].Kind != CmdCreatePage || cmds[0].Page.Width != 400 || cmds[0].Page.Height != 600 {
		t.Fatalf("first command = %+v", cmds[0])
	}
}

func TestGenerationIsPure(t *testing.T) {
	var b node.Builder
	tree := layoutTree(t, b.VStack(node.StackProps{Spacing: 2}, b.Text("a b c", nil), b.Divider(node.DividerProps{LineStyle: node.LineDashed})))
	g := Generator{Debug: true}
	first, _ := g.GenerateDocument(tree)
	second, _ := g.GenerateDocument(tree)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("generation must be deterministic")
	}
}

func TestRenderThroughRecorder(t *testing.T) {
	var b node.Builder
	tree := layoutTree(t, b.Box(node.BoxProps{Border: &node.Border{Width: 1}}, b.Text("hi", nil)))
	rec := &Recorder{}
	out, warnings, err := Render(rec, tree, Generator{})
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Render: %v %v", err, warnings)
	}
	want, _ := Generator{}.GenerateDocument(tree)
	if !reflect.DeepEqual(rec.Commands, want) {
		t.Fatalf("recorded commands differ from generated:\n%+v\n%+v", rec.Commands, want)
	}
	var decoded []Command
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("recorder output is not JSON: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("decoded %d commands", len(decoded))
	}
	if err := rec.DrawLine(0, 0, 1, 1, LineStyle{}); err == nil {
		t.Fatalf("drawing after Finalize should fail")
	}
}

type failingBackend struct {
	Recorder
	failOn CommandKind
}

func (f *failingBackend) DrawRect(x, y, w, h float64, s RectStyle) error {
	if f.failOn == CmdRect {
		return errors.New("boom")
	}
	return f.Recorder.DrawRect(x, y, w, h, s)
}

func TestExecuteStopsOnError(t *testing.T) {
	cmds := []Command{
		{Kind: CmdCreatePage, Page: &PageOptions{Width: 1, Height: 1}},
		{Kind: CmdRect, Width: 1, Height: 1},
		{Kind: CmdText, Text: "never"},
	}
	fb := &failingBackend{failOn: CmdRect}
	err := Execute(fb, cmds)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if len(fb.Commands) != 1 {
		t.Fatalf("execution should stop at the failing command, recorded %d", len(fb.Commands))
	}
	if err := (Command{Kind: "circle"}).Execute(fb); err == nil {
		t.Fatalf("unknown command kind must fail")
	}
}

func TestRenderNilTree(t *testing.T) {
	if _, _, err := Render(&Recorder{}, nil, Generator{}); err == nil {
		t.Fatalf("expected error for nil tree")
	}
}

func TestRenderPagesStartsEachPage(t *testing.T) {
	var b node.Builder
	first := layoutTree(t, b.Text("one", nil))
	second := layoutTree(t, b.Text("two", nil))
	rec := &Recorder{}
	if _, _, err := RenderPages(rec, []*layout.LayoutTree{first, second}, Generator{}); err != nil {
		t.Fatalf("RenderPages: %v", err)
	}
	want := []CommandKind{CmdCreatePage, CmdText, CmdCreatePage, CmdText}
	if got := kinds(rec.Commands); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if rec.Commands[3].Text != "two" {
		t.Fatalf("pages out of order: %+v", rec.Commands[3])
	}
	if _, _, err := GeneratePages(nil, Generator{}); err == nil {
		t.Fatalf("expected error for no pages")
	}
}
