package renderer

import (
	"encoding/json"
	"errors"
)

// Recorder 是只记录调用的后端，用于测试与 -format json 输出。
type Recorder struct {
	Commands  []Command
	finalized bool
}

var _ Backend = (*Recorder)(nil)

var errFinalized = errors.New("renderer: recorder 已经 Finalize")

func (r *Recorder) record(c Command) error {
	if r.finalized {
		return errFinalized
	}
	r.Commands = append(r.Commands, c)
	return nil
}

func (r *Recorder) CreatePage(opts PageOptions) error {
	return r.record(Command{Kind: CmdCreatePage, Page: &opts})
}

func (r *Recorder) DrawText(text string, x, y float64, style TextStyle) error {
	return r.record(Command{Kind: CmdText, Text: text, X: x, Y: y, TextStyle: &style})
}

func (r *Recorder) DrawRect(x, y, w, h float64, style RectStyle) error {
	return r.record(Command{Kind: CmdRect, X: x, Y: y, Width: w, Height: h, RectStyle: &style})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, style LineStyle) error {
	return r.record(Command{Kind: CmdLine, X: x1, Y: y1, X2: x2, Y2: y2, LineStyle: &style})
}

// Finalize 返回已记录命令的 JSON；之后的绘制调用会返回错误。
func (r *Recorder) Finalize() ([]byte, error) {
	r.finalized = true
	return json.MarshalIndent(r.Commands, "", "  ")
}
