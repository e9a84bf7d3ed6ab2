package pipeline

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/renderer"
)

const invoiceDSL = `
doc Invoice v1 {
  meta { title: "Invoice" author: "ACME" }
  resources {
    style Title { size: 18pt; weight: bold }
  }
  page A5 margin 10pt {
    vstack spacing 4 {
      text Title { "Invoice ${invoice.number}" }
      divider
      text { "Thanks" }
    }
  }
}
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	size, _ := cfg.PageSize()
	if size != geometry.PageSizes["A4"] {
		t.Fatalf("default size = %+v", size)
	}
	m, _ := cfg.Margin()
	if !near(m.Left, 20*geometry.MmToPt) {
		t.Fatalf("default margin = %+v", m)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	yaml := "page:\n  size: letter\n  orientation: landscape\nmetrics: opentype\ndebug: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Metrics != MetricsOpenType || !cfg.Debug || cfg.FontSize != 12 || cfg.Page.Margin != "20mm" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	size, err := cfg.PageSize()
	if err != nil || size.Width != 792 || size.Height != 612 {
		t.Fatalf("PageSize = %+v, %v", size, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad yaml":        "page: [",
		"bad metrics":     "metrics: magic\n",
		"bad size":        "page:\n  size: B9\n",
		"bad orientation": "page:\n  orientation: diagonal\n",
		"bad margin":      "page:\n  margin: wide\n",
		"negative font":   "fontSize: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatalf("expected error for %q", content)
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func runJSON(t *testing.T, src string, cfg *Config, data any) *Result {
	t.Helper()
	res, err := Run(strings.NewReader(src), Options{Config: cfg, Data: data, Format: FormatJSON})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRunJSON(t *testing.T) {
	data := map[string]any{"invoice": map[string]any{"number": "42"}}
	res := runJSON(t, invoiceDSL, nil, data)

	if len(res.Trees) != 1 {
		t.Fatalf("expected 1 tree, got %d", len(res.Trees))
	}
	tree := res.Trees[0]
	if tree.PageSize != geometry.PageSizes["A5"] {
		t.Fatalf("page size should come from the DSL: %+v", tree.PageSize)
	}
	if tree.Root.Box.X != 10 || tree.Root.Box.Y != 10 {
		t.Fatalf("root should start at the DSL margin: %+v", tree.Root.Box)
	}

	var recorded []renderer.Command
	if err := json.Unmarshal(res.Output, &recorded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(recorded) != len(res.Commands) || recorded[0].Kind != renderer.CmdCreatePage {
		t.Fatalf("unexpected recorded commands %+v", recorded)
	}
	if recorded[1].Kind != renderer.CmdText || recorded[1].Text != "Invoice 42" || recorded[1].TextStyle.FontSize != 18 {
		t.Fatalf("unexpected title command %+v", recorded[1])
	}
	if recorded[2].Kind != renderer.CmdLine {
		t.Fatalf("expected divider line, got %+v", recorded[2])
	}
}

func TestRunUsesConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Page = PageConfig{Size: "LETTER", Orientation: "landscape", Margin: "1in"}
	cfg.FontSize = 20
	cfg.Debug = true
	res := runJSON(t, `doc X v1 { page default { text { "hi" } } }`, cfg, nil)
	tree := res.Trees[0]
	if tree.PageSize.Width != 792 || tree.PageSize.Height != 612 {
		t.Fatalf("config size and orientation not applied: %+v", tree.PageSize)
	}
	if tree.Root.Box.X != 72 {
		t.Fatalf("config margin not applied: %+v", tree.Root.Box)
	}
	if tree.Root.Box.Text.FontSize != 20 {
		t.Fatalf("config font size not applied: %+v", tree.Root.Box.Text)
	}
	// 调试模式下文本前有轮廓矩形
	if res.Commands[1].Kind != renderer.CmdRect || res.Commands[1].RectStyle.Stroke != renderer.DefaultDebugColor {
		t.Fatalf("expected debug outline, got %+v", res.Commands[1])
	}
}

func TestRunMultiplePages(t *testing.T) {
	res := runJSON(t, `doc X v1 { page A4 { text { "one" } } page A5 landscape { text { "two" } } }`, nil, nil)
	if len(res.Trees) != 2 {
		t.Fatalf("expected 2 trees, got %d", len(res.Trees))
	}
	if res.Trees[1].PageSize.Width <= res.Trees[1].PageSize.Height {
		t.Fatalf("second page should be landscape: %+v", res.Trees[1].PageSize)
	}
	pages := 0
	for _, c := range res.Commands {
		if c.Kind == renderer.CmdCreatePage {
			pages++
		}
	}
	if pages != 2 {
		t.Fatalf("expected 2 create-page commands, got %d", pages)
	}
}

func TestRunPDF(t *testing.T) {
	for _, metrics := range []string{MetricsApprox, MetricsOpenType, MetricsCanvas} {
		t.Run(metrics, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Metrics = metrics
			res, err := Run(strings.NewReader(invoiceDSL), Options{Config: cfg})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !bytes.HasPrefix(res.Output, []byte("%PDF")) {
				t.Fatalf("output is not a PDF")
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := map[string]struct {
		src  string
		opts Options
		want string
	}{
		"parse":   {src: `doc X {`, want: "解析 DSL 失败"},
		"element": {src: `doc X v1 { page A4 { badge } }`, want: "解析 DSL 失败"},
		"build":   {src: `doc X v1 { page A4 { text Nope { "x" } } }`, want: "构建文档失败"},
		"format":  {src: `doc X v1 { page A4 { } }`, opts: Options{Format: "svg"}, want: "svg"},
		"config":  {src: `doc X v1 { page A4 { } }`, opts: Options{Config: &Config{Metrics: "magic"}}, want: "magic"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Run(strings.NewReader(tt.src), tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %v should mention %q", err, tt.want)
			}
		})
	}
}

func TestRunLogsStages(t *testing.T) {
	var buf bytes.Buffer
	renderer.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer renderer.SetLogger(nil)

	runJSON(t, invoiceDSL, nil, nil)
	for _, s := range []string{"parse", "build", "layout", "generate", "render"} {
		if !strings.Contains(buf.String(), "stage="+s) {
			t.Fatalf("missing log for stage %s:\n%s", s, buf.String())
		}
	}
}
