// Package parser extracts light metadata from markdown notes: the YAML front
// matter and the first heading.
package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Document is the metadata of a single note.
type Document struct {
	Path        string
	Title       string
	Description string
	Tags        []string
}

// Heading returns the text of the first markdown heading in source, ignoring
// any front matter. It returns "" when the document has no heading.
func Heading(source []byte) string {
	_, body := SplitFrontMatter(source)

	document := goldmark.DefaultParser().Parse(text.NewReader(body))

	var title string
	ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if h, ok := n.(*ast.Heading); ok {
				title = strings.TrimSpace(string(h.Text(body)))
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		},
	)

	return title
}

// Parse builds the Document for source. The title prefers the front matter,
// then the first heading, then the file stem of path.
func Parse(path string, source []byte) Document {
	doc := Document{Path: path}

	// Templates carry unrendered placeholders in their headers, which are
	// not always valid YAML. Those headers are treated as absent.
	if fm, err := ParseFrontMatter(source); err == nil {
		doc.Title = strings.TrimSpace(fm.Title)
		doc.Description = strings.TrimSpace(fm.Description)
		doc.Tags = fm.Tags
	}

	if doc.Title == "" {
		doc.Title = Heading(source)
	}
	if doc.Title == "" {
		doc.Title = Stem(path)
	}

	return doc
}

// ParseFile reads and parses the note at path.
func ParseFile(path string) (Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Parse(path, source), nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
