package graphfs

import (
	"html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var propertyLine = regexp.MustCompile(`^([A-Za-z0-9_\-]+)::\s?(.*)$`)

// ParseOutline parses a markdown outline into blocks. Block content is the
// rendered inline text, so emphasis markers and link syntax are dropped.
func ParseOutline(data []byte) []Block {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(data)

	var blocks []Block
	for _, child := range doc.GetChildren() {
		if list, ok := child.(*ast.List); ok {
			blocks = append(blocks, listBlocks(list)...)
		}
	}
	return blocks
}

func listBlocks(list *ast.List) []Block {
	var blocks []Block
	for _, item := range list.GetChildren() {
		if _, ok := item.(*ast.ListItem); !ok {
			continue
		}
		var b Block
		var lines []string
		for _, child := range item.GetChildren() {
			switch c := child.(type) {
			case *ast.List:
				b.Children = append(b.Children, listBlocks(c)...)
			case *ast.CodeBlock:
				lines = append(lines, "```"+string(c.Info), strings.TrimRight(string(c.Literal), "\n"), "```")
			default:
				lines = append(lines, strings.Split(inlineText(c), "\n")...)
			}
		}

		var content []string
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if m := propertyLine.FindStringSubmatch(line); m != nil {
				if m[1] == idProperty {
					b.UUID = strings.TrimSpace(m[2])
					continue
				}
				if b.Properties == nil {
					b.Properties = map[string]string{}
				}
				b.Properties[m[1]] = strings.TrimSpace(m[2])
				continue
			}
			content = append(content, line)
		}
		b.Content = strings.TrimSpace(strings.Join(content, "\n"))
		blocks = append(blocks, b)
	}
	return blocks
}

func inlineText(n ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch node.(type) {
		case *ast.List:
			return ast.SkipChildren
		case *ast.Softbreak, *ast.Hardbreak:
			sb.WriteByte('\n')
		case *ast.Text, *ast.Code:
			sb.Write(node.AsLeaf().Literal)
		}
		return ast.GoToNext
	})
	return sb.String()
}

// RenderHTML renders block content to sanitized HTML.
func RenderHTML(content string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(content))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	out := markdown.Render(doc, renderer)

	return string(bluemonday.UGCPolicy().SanitizeBytes(out))
}

// PlainText strips all markup from an HTML fragment and collapses
// surrounding whitespace.
func PlainText(fragment string) string {
	stripped := bluemonday.StrictPolicy().Sanitize(fragment)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
