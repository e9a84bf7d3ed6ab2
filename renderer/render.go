package renderer

import (
	"fmt"

	"github.com/AugustoPreis/flow-pdf/layout"
)

// Render 生成命令、交给后端执行并返回最终字节；警告不会导致失败。
func Render(b Backend, tree *layout.LayoutTree, g Generator) ([]byte, []Warning, error) {
	return RenderPages(b, []*layout.LayoutTree{tree}, g)
}

// RenderPages 按顺序把每棵布局树输出为一页，最后统一 Finalize。
func RenderPages(b Backend, trees []*layout.LayoutTree, g Generator) ([]byte, []Warning, error) {
	cmds, warnings, err := GeneratePages(trees, g)
	if err != nil {
		return nil, nil, err
	}
	if err := Execute(b, cmds); err != nil {
		return nil, warnings, err
	}
	out, err := b.Finalize()
	if err != nil {
		return nil, warnings, fmt.Errorf("renderer: 输出失败: %w", err)
	}
	return out, warnings, nil
}

// GeneratePages 拼接各页的命令，每页以 create-page 开头。
func GeneratePages(trees []*layout.LayoutTree, g Generator) ([]Command, []Warning, error) {
	if len(trees) == 0 {
		return nil, nil, fmt.Errorf("renderer: 布局树为空")
	}
	var (
		cmds     []Command
		warnings []Warning
	)
	for i, tree := range trees {
		if tree == nil || tree.Root == nil {
			return nil, nil, fmt.Errorf("renderer: 第 %d 页布局树为空", i+1)
		}
		c, w := g.GenerateDocument(tree)
		cmds = append(cmds, c...)
		warnings = append(warnings, w...)
	}
	return cmds, warnings, nil
}
