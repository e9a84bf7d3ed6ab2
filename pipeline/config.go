package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/layout"
)

// 字体度量来源。
const (
	MetricsApprox   = "approx"
	MetricsOpenType = "opentype"
	MetricsCanvas   = "canvas"
)

// Config 是 flow-pdf 的运行配置。DSL 中 page 段落的尺寸与边距优先于这里的取值。
type Config struct {
	Page       PageConfig `yaml:"page"`
	FontSize   float64    `yaml:"fontSize"`
	Metrics    string     `yaml:"metrics"`
	Debug      bool       `yaml:"debug"`
	DebugColor string     `yaml:"debugColor"`
}

// PageConfig 页面默认值。Margin 接受 1 到 4 个长度，例如 "20mm" 或 "36pt 24pt"。
type PageConfig struct {
	Size        string `yaml:"size"`
	Orientation string `yaml:"orientation"`
	Margin      string `yaml:"margin"`
}

// DefaultConfig returns the built-in defaults: A4 portrait, 20mm margins, 12pt text.
func DefaultConfig() *Config {
	return &Config{
		Page: PageConfig{
			Size:        "A4",
			Orientation: "portrait",
			Margin:      "20mm",
		},
		FontSize: layout.DefaultFontSize,
		Metrics:  MetricsApprox,
	}
}

// LoadConfig 在默认值之上叠加 YAML 文件中的设置。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: 读取配置失败: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("pipeline: 解析配置 %s 失败: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置能否解析为页面尺寸、边距与度量来源。
func (c *Config) Validate() error {
	if _, err := c.PageSize(); err != nil {
		return err
	}
	if _, err := c.Margin(); err != nil {
		return err
	}
	if c.FontSize < 0 {
		return fmt.Errorf("pipeline: fontSize 不能为负数")
	}
	switch c.Metrics {
	case "", MetricsApprox, MetricsOpenType, MetricsCanvas:
	default:
		return fmt.Errorf("pipeline: 未知的 metrics %q（可选 approx、opentype、canvas）", c.Metrics)
	}
	return nil
}

// PageSize 返回按方向调整后的默认纸张尺寸（pt）。
func (c *Config) PageSize() (geometry.Dimensions, error) {
	name := c.Page.Size
	if name == "" {
		name = "A4"
	}
	size, ok := geometry.LookupPageSize(name)
	if !ok {
		return geometry.Dimensions{}, fmt.Errorf("pipeline: 暂不支持的纸张尺寸：%s", name)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait":
	case "landscape":
		size = size.Landscape()
	default:
		return geometry.Dimensions{}, fmt.Errorf("pipeline: 未知的页面方向 %q", c.Page.Orientation)
	}
	return size, nil
}

// Margin 返回默认页边距（pt）；未设置时为 0。
func (c *Config) Margin() (geometry.Padding, error) {
	if strings.TrimSpace(c.Page.Margin) == "" {
		return geometry.Padding{}, nil
	}
	m, err := geometry.ParsePadding(c.Page.Margin)
	if err != nil {
		return geometry.Padding{}, fmt.Errorf("pipeline: page.margin: %w", err)
	}
	return m, nil
}
