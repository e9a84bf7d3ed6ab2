// Package document 把 DSL 语法树转换为可布局的节点树：解析页面规格、元数据、
// 命名颜色与样式，并将数据插值到文本中。
package document

import (
	"fmt"
	"strings"

	"github.com/AugustoPreis/flow-pdf/dsl"
	"github.com/AugustoPreis/flow-pdf/geometry"
	"github.com/AugustoPreis/flow-pdf/node"
)

// DefaultCreator 是 meta 未声明 creator 时写入 PDF 的值。
const DefaultCreator = "flow-pdf"

// Meta 文档元数据，对应 PDF 信息字典。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Orientation 是页面方向；空值表示沿用配置。
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Page 是一页的规格与内容。Size、Margin 为 nil 时由调用方的配置补齐。
type Page struct {
	Size        *geometry.Dimensions `json:"size,omitempty"`
	Orientation Orientation          `json:"orientation,omitempty"`
	Margin      *geometry.Padding    `json:"margin,omitempty"`
	Root        *node.Node           `json:"root"`
}

// Resolve 以 size、margin 作为默认值返回最终的纸张尺寸与边距。
func (p Page) Resolve(size geometry.Dimensions, margin geometry.Padding) (geometry.Dimensions, geometry.Padding) {
	if p.Size != nil {
		size = *p.Size
	}
	switch p.Orientation {
	case Landscape:
		size = size.Landscape()
	case Portrait:
		if size.Width > size.Height {
			size = geometry.Dimensions{Width: size.Height, Height: size.Width}
		}
	}
	if p.Margin != nil {
		margin = *p.Margin
	}
	return size, margin
}

// Document 是转换后的文档。
type Document struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Meta    Meta              `json:"meta"`
	Colors  map[string]string `json:"colors,omitempty"`
	Styles  map[string]Style  `json:"styles,omitempty"`
	Pages   []Page            `json:"pages"`
}

// Options 控制转换过程。
type Options struct {
	// Data 用于 ${path} 插值，为 nil 时占位符原样保留。
	Data any
}

// Build 根据 DSL 文档生成节点树。每个 page 段落生成一页，
// 页面内有多个根元素时用隐式 vstack 包裹。
func Build(doc *dsl.Document, opts Options) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("document: 文档为空")
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	out := &Document{
		Name:    doc.Name,
		Version: doc.Version,
		Meta:    collectMeta(doc),
		Colors:  res.colors,
		Styles:  res.styles,
	}

	sections := doc.Pages()
	if len(sections) == 0 {
		return nil, fmt.Errorf("document: 文档中缺少 page 段落")
	}
	// 同一文档的节点 ID 跨页递增
	c := &converter{res: res, data: opts.Data}
	for i, section := range sections {
		page, err := c.page(section)
		if err != nil {
			return nil, fmt.Errorf("document: 第 %d 页: %w", i+1, err)
		}
		if err := node.Validate(page.Root); err != nil {
			return nil, fmt.Errorf("document: 第 %d 页: %w", i+1, err)
		}
		out.Pages = append(out.Pages, page)
	}
	return out, nil
}

func collectMeta(doc *dsl.Document) Meta {
	meta := Meta{Creator: DefaultCreator}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for _, a := range section.Meta.Entries {
			switch strings.ToLower(a.Key) {
			case "title":
				meta.Title = a.Value.Text()
			case "author":
				meta.Author = a.Value.Text()
			case "subject":
				meta.Subject = a.Value.Text()
			case "creator":
				meta.Creator = a.Value.Text()
			case "keywords":
				meta.Keywords = a.Value.Strings()
			}
		}
	}
	return meta
}

func (c *converter) page(section *dsl.PageSection) (Page, error) {
	var page Page
	if !strings.EqualFold(section.Size, "default") {
		size, ok := geometry.LookupPageSize(section.Size)
		if !ok {
			return page, section.Errorf("暂不支持的纸张尺寸：%s", section.Size)
		}
		page.Size = &size
	}

	for _, opt := range section.Options {
		switch {
		case opt.Orientation == "portrait":
			page.Orientation = Portrait
		case opt.Orientation == "landscape":
			page.Orientation = Landscape
		case len(opt.Margin) > 0:
			vals, err := lengths(opt.Margin)
			if err != nil {
				return page, dsl.Errorf(opt.Pos, "margin: %v", err)
			}
			m, err := geometry.PaddingSides(vals...)
			if err != nil {
				return page, dsl.Errorf(opt.Pos, "margin: %v", err)
			}
			page.Margin = &m
		}
	}

	children, err := c.children(section.Body)
	if err != nil {
		return page, err
	}
	if len(children) == 1 {
		page.Root = children[0]
	} else {
		page.Root = c.b.VStack(node.StackProps{}, children...)
	}
	return page, nil
}
