// Package fzf lets the user pick a note with a fuzzy finder.
package fzf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/nt/internal/handler"
	"github.com/Paintersrp/nt/internal/parser"
	"github.com/Paintersrp/nt/utils"
)

// ErrNoSelection is returned when the finder is closed without a choice.
var ErrNoSelection = errors.New("no note selected")

// FuzzyFinder lists the notes below a notes directory with a rendered
// markdown preview.
type FuzzyFinder struct {
	handler *handler.FileHandler
	preview utils.PreviewOptions
	Header  string

	files  []string
	labels []string

	find func(slice interface{}, itemFunc func(int) string, opts ...fuzzyfinder.Option) (int, error)
}

func NewFuzzyFinder(h *handler.FileHandler, preview utils.PreviewOptions, header string) *FuzzyFinder {
	return &FuzzyFinder{
		handler: h,
		preview: preview,
		Header:  header,
		find:    fuzzyfinder.Find,
	}
}

// Run shows the finder, pre-filled with query, and returns the chosen path.
func (f *FuzzyFinder) Run(query string) (string, error) {
	files, err := f.handler.AllNotes()
	if err != nil {
		return "", fmt.Errorf("error listing notes: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no notes in %s", f.handler.Root())
	}

	f.files = files
	f.labels = make([]string, len(files))
	for i, file := range files {
		f.labels[i] = f.label(file)
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(f.files, func(i int) string {
		return f.labels[i]
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("error selecting note: %w", err)
	}
	if idx < 0 || idx >= len(f.files) {
		return "", ErrNoSelection
	}
	return f.files[idx], nil
}

// label formats a note as "title [tags] (path)" for matching and display.
func (f *FuzzyFinder) label(path string) string {
	rel := f.handler.Rel(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return rel
	}
	doc := parser.Parse(path, content)

	if len(doc.Tags) == 0 {
		return fmt.Sprintf("%s [No tags] (%s)", doc.Title, rel)
	}
	return fmt.Sprintf("%s [Tags: %s] (%s)", doc.Title, strings.Join(doc.Tags, ", "), rel)
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i < 0 || i >= len(f.files) {
		return ""
	}
	return utils.RenderMarkdownPreview(f.files[i], w, f.preview)
}
