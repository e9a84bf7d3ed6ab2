package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AugustoPreis/flow-pdf/binding"
	"github.com/AugustoPreis/flow-pdf/layout"
	"github.com/AugustoPreis/flow-pdf/pipeline"
	"github.com/AugustoPreis/flow-pdf/renderer"
)

func main() {
	input := flag.String("in", "examples/demo.flow", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "输出路径")
	configPath := flag.String("config", "", "YAML 配置文件路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据；以 @ 开头时读取文件")
	debug := flag.Bool("debug", false, "为每个节点绘制调试轮廓")
	debugJSON := flag.String("debug-json", "", "布局调试 JSON 输出路径")
	format := flag.String("format", string(pipeline.FormatPDF), "输出格式：pdf 或 json")
	verbose := flag.Bool("verbose", false, "在 stderr 输出调试日志")
	flag.Parse()

	if *verbose {
		renderer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := pipeline.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(*configPath); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	data, err := loadData(*dataJSON)
	if err != nil {
		log.Fatalf("解析 data JSON 失败: %v", err)
	}

	opts := pipeline.Options{Config: cfg, Data: data, Format: pipeline.Format(*format)}
	if err := run(*input, *output, *debugJSON, opts); err != nil {
		log.Fatalf("生成文档失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", *output)
}

func loadData(arg string) (any, error) {
	switch {
	case arg == "":
		return nil, nil
	case strings.HasPrefix(arg, "@"):
		return binding.LoadFile(strings.TrimPrefix(arg, "@"))
	default:
		return binding.Decode([]byte(arg))
	}
}

// run 串联解析、布局与渲染，并写出结果文件。
func run(inputPath, outputPath, debugPath string, opts pipeline.Options) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	res, err := pipeline.Run(file, opts)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Printf("警告: %s", w)
	}

	if debugPath != "" {
		if err := writeDebug(res.Trees, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, res.Output, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// writeDebug 第一页写入 debugPath，其余页在文件名后追加 -p2、-p3 ...
func writeDebug(trees []*layout.LayoutTree, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	ext := filepath.Ext(debugPath)
	base := strings.TrimSuffix(debugPath, ext)
	for i, tree := range trees {
		path := debugPath
		if i > 0 {
			path = fmt.Sprintf("%s-p%d%s", base, i+1, ext)
		}
		if err := layout.WriteDebugJSON(tree, path); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	return nil
}
