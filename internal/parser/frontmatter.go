package parser

import (
	"bytes"
	"regexp"

	"gopkg.in/yaml.v3"
)

var frontMatterRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)

// FrontMatter is the subset of YAML header fields nt reads from notes and
// templates.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
}

// SplitFrontMatter separates a leading YAML block delimited by --- lines from
// the rest of the document. raw is nil when the document has no such block.
func SplitFrontMatter(content []byte) (raw []byte, body []byte) {
	loc := frontMatterRe.FindSubmatchIndex(content)
	if loc == nil {
		return nil, content
	}
	return content[loc[2]:loc[3]], content[loc[1]:]
}

// ParseFrontMatter decodes the YAML header of content. A document without a
// header yields a zero FrontMatter and no error.
func ParseFrontMatter(content []byte) (FrontMatter, error) {
	var fm FrontMatter

	raw, _ := SplitFrontMatter(content)
	if len(bytes.TrimSpace(raw)) == 0 {
		return fm, nil
	}

	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return FrontMatter{}, err
	}
	return fm, nil
}
