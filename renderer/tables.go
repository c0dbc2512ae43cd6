package renderer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Table is a markdown table, header row included.
type Table [][]string

// Tables parses markdown and returns the plain text content of each of its tables.
func Tables(markdown string) []Table {
	src := []byte(markdown)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var tables []Table
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			tables = append(tables, nil)
		case *east.TableHeader, *east.TableRow:
			t := &tables[len(tables)-1]
			*t = append(*t, nil)
		case *east.TableCell:
			t := tables[len(tables)-1]
			t[len(t)-1] = append(t[len(t)-1], cellText(n, src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return tables
}

// cellText concatenates the text found under n.
func cellText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Value(src))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// Column returns the cells of the column named header, without the header itself.
func (t Table) Column(header string) []string {
	if len(t) == 0 {
		return nil
	}
	col := -1
	for i, h := range t[0] {
		if h == header {
			col = i
		}
	}
	if col < 0 {
		return nil
	}
	var cells []string
	for _, row := range t[1:] {
		if col < len(row) {
			cells = append(cells, row[col])
		}
	}
	return cells
}
