package dsl

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][,=;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	identTokenType = dslLexer.Symbols()["Ident"]

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.Unquote("String"),
	)
)

// Document 是 DSL 文件的根节点：`doc <Name> <Version> { ... }`。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/resources/page).
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection 是 `meta { key: value ... }`，取值为字符串或字符串列表。
type MetaSection struct {
	Entries []*MetaEntry `parser:"'meta' Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type MetaEntry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':' Newline*"`
	Value *MetaValue     `parser:"@@"`
}

type MetaValue struct {
	List   []string `parser:"  '[' Newline* ( @( String | Ident | Number ) ( ',' | Newline )* )* ']'"`
	Scalar *string  `parser:"| @( String | Ident | Number )"`
}

// ResourcesSection 声明命名颜色与样式。
type ResourcesSection struct {
	Items []*Resource `parser:"'resources' Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type Resource struct {
	Color *ColorResource `parser:"  @@"`
	Style *StyleResource `parser:"| @@"`
}

// ColorResource 是 `color Name = #RRGGBB`，等号可省略。
type ColorResource struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident '='?"`
	Value string         `parser:"@Color"`
}

// StyleResource 是 `style Name [extends Parent] { key: value; ... }`。
type StyleResource struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'style' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Props   []*StyleProp   `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type StyleProp struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Scalar        `parser:"@@"`
}

// PageSection 描述一页：纸张、方向、边距以及页面内容。每个 page 段落输出为一页。
type PageSection struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Size    string         `parser:"'page' @Ident"`
	Options []*PageOption  `parser:"@@*"`
	Body    []*Element     `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PageOption 是页面头部的方向关键字或 `margin` 后跟 1 到 4 个长度。
type PageOption struct {
	Pos         lexer.Position `parser:"" json:"-"`
	Orientation string         `parser:"  @( 'portrait' | 'landscape' )"`
	Margin      []string       `parser:"| 'margin' @Number+"`
}

// Element 是页面与容器中的一个元素；块内的裸字符串是默认样式的文本。
type Element struct {
	Pos     lexer.Position  `parser:"" json:"-"`
	Text    *TextElement    `parser:"  @@"`
	Stack   *StackElement   `parser:"| @@"`
	Box     *BoxElement     `parser:"| @@"`
	Divider *DividerElement `parser:"| @@"`
	Spacer  *SpacerElement  `parser:"| @@"`
	Literal *string         `parser:"| @String"`
}

// TextElement 是 `text [Style] key value ... { "..." }`，多个字符串直接拼接。
type TextElement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Style *StyleRef      `parser:"'text' @@?"`
	Attrs []*Attr        `parser:"@@*"`
	Parts []string       `parser:"Newline* '{' Newline* ( @String ( ';' | Newline )* )* '}'"`
}

// StackElement 是 `vstack`/`hstack` 容器。
type StackElement struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Direction string         `parser:"@( 'vstack' | 'hstack' )"`
	Attrs     []*Attr        `parser:"@@*"`
	Children  []*Element     `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type BoxElement struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Attrs    []*Attr        `parser:"'box' @@*"`
	Children []*Element     `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// DividerElement 与 SpacerElement 没有子元素块。
type DividerElement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Attrs []*Attr        `parser:"'divider' @@*"`
}

type SpacerElement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Attrs []*Attr        `parser:"'spacer' @@*"`
}

// Attr 是元素头部的 `key value`；padding 之类的属性可以再跟若干数值。
type Attr struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Scalar        `parser:"@@"`
	Extra []string       `parser:"@Number*"`
}

// Scalar 是单个属性值。
type Scalar struct {
	Number *string `parser:"  @Number"`
	Color  *string `parser:"| @Color"`
	String *string `parser:"| @String"`
	Ident  *string `parser:"| @Ident"`
}

// TextAttrKeys 是 text 元素接受的属性名；text 后的第一个标识符不在其中时视为样式名。
var TextAttrKeys = map[string]bool{
	"size": true, "font-size": true, "weight": true, "style": true, "font-style": true,
	"color": true, "width": true, "height": true,
}

// StyleRef 是 text 元素引用的命名样式。
type StyleRef struct {
	Pos  lexer.Position
	Name string
}

// Parse implements participle.Parseable：只接受不是 text 属性名的标识符。
func (s *StyleRef) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok.EOF() || tok.Type != identTokenType || TextAttrKeys[tok.Value] {
		return participle.NextMatch
	}
	tok = lex.Next()
	s.Pos, s.Name = tok.Pos, tok.Value
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
