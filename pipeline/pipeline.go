// Package pipeline 串联解析、构建、布局、命令生成与后端输出。
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/AugustoPreis/flow-pdf/document"
	"github.com/AugustoPreis/flow-pdf/dsl"
	"github.com/AugustoPreis/flow-pdf/fonts"
	"github.com/AugustoPreis/flow-pdf/layout"
	"github.com/AugustoPreis/flow-pdf/renderer"
	canvasrenderer "github.com/AugustoPreis/flow-pdf/renderer/canvas"
)

// Format 是输出格式。
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Options 控制一次运行。
type Options struct {
	Config *Config
	// Data 绑定到文本中的 ${path} 占位符。
	Data   any
	Format Format
}

// Result 是一次运行的全部产物。
type Result struct {
	Document *document.Document
	Trees    []*layout.LayoutTree
	Commands []renderer.Command
	Warnings []renderer.Warning
	Output   []byte
}

// Run 解析 src 并输出 PDF（或命令 JSON）。
func Run(src io.Reader, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format := opts.Format
	if format == "" {
		format = FormatPDF
	}

	var ast *dsl.Document
	err := stage("parse", func() (err error) {
		ast, err = dsl.Parse(src)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}

	res := &Result{}
	err = stage("build", func() (err error) {
		res.Document, err = document.Build(ast, document.Options{Data: opts.Data})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("构建文档失败: %w", err)
	}

	backend, err := newBackend(format, res.Document.Meta)
	if err != nil {
		return nil, err
	}
	metrics, closeMetrics, err := newMetrics(cfg.Metrics, backend)
	if err != nil {
		return nil, err
	}
	defer closeMetrics()

	err = stage("layout", func() (err error) {
		res.Trees, err = layoutPages(res.Document.Pages, cfg, metrics)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}

	g := renderer.Generator{Debug: cfg.Debug, DebugColor: cfg.DebugColor}
	err = stage("generate", func() (err error) {
		res.Commands, res.Warnings, err = renderer.GeneratePages(res.Trees, g)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = stage("render", func() error {
		if err := renderer.Execute(backend, res.Commands); err != nil {
			return err
		}
		out, err := backend.Finalize()
		if err != nil {
			return err
		}
		res.Output = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	return res, nil
}

func stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	renderer.Logger().Debug("pipeline: stage",
		slog.String("stage", name),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil),
	)
	return err
}

func newBackend(format Format, meta document.Meta) (renderer.Backend, error) {
	switch format {
	case FormatPDF:
		return canvasrenderer.New(canvasrenderer.Options{Info: canvasrenderer.Info{
			Title:    meta.Title,
			Subject:  meta.Subject,
			Author:   meta.Author,
			Creator:  meta.Creator,
			Keywords: meta.Keywords,
		}}), nil
	case FormatJSON:
		return &renderer.Recorder{}, nil
	default:
		return nil, fmt.Errorf("pipeline: 未知的输出格式 %q", format)
	}
}

// newMetrics 按配置选择字体度量。canvas 度量需要 PDF 后端；输出 JSON 时临时创建一个。
func newMetrics(kind string, backend renderer.Backend) (layout.FontMetrics, func(), error) {
	noop := func() {}
	switch kind {
	case "", MetricsApprox:
		return layout.NewApproxMetrics(), noop, nil
	case MetricsOpenType:
		m, err := fonts.NewGoMetrics()
		if err != nil {
			return nil, noop, err
		}
		return m, func() { _ = m.Close() }, nil
	case MetricsCanvas:
		cb, ok := backend.(*canvasrenderer.Backend)
		if !ok {
			cb = canvasrenderer.New(canvasrenderer.Options{})
		}
		return cb.Metrics(), noop, nil
	default:
		return nil, noop, fmt.Errorf("pipeline: 未知的 metrics %q", kind)
	}
}

func layoutPages(pages []document.Page, cfg *Config, metrics layout.FontMetrics) ([]*layout.LayoutTree, error) {
	defSize, err := cfg.PageSize()
	if err != nil {
		return nil, err
	}
	defMargin, err := cfg.Margin()
	if err != nil {
		return nil, err
	}
	trees := make([]*layout.LayoutTree, 0, len(pages))
	for i, page := range pages {
		if page.Orientation == "" {
			page.Orientation = document.Orientation(strings.ToLower(cfg.Page.Orientation))
		}
		size, margin := page.Resolve(defSize, defMargin)
		engine := layout.NewEngine(layout.Options{
			PageSize:        size,
			Margin:          margin,
			DefaultFontSize: cfg.FontSize,
			Metrics:         metrics,
		})
		tree, err := engine.Layout(page.Root, nil)
		if err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}
