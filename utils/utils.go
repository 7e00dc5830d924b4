package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/nt/internal/parser"
)

const (
	// previewHorizontalSpace is the room taken by the preview pane's border
	// and padding.
	previewHorizontalSpace = 4
	defaultWrapWidth       = 80
)

var noteNameRe = regexp.MustCompile(`^[\p{L}\p{N} _\-./]+$`)

// AppendIfNotExists appends value unless slice already holds it.
func AppendIfNotExists(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

// ValidateNoteName checks a note name typed by the user. Names may contain
// letters, digits, spaces, hyphens, underscores, dots and forward slashes for
// subdirectories, but may not climb out of the notes directory.
func ValidateNoteName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("note name cannot be empty")
	}
	if !noteNameRe.MatchString(name) {
		return fmt.Errorf(
			"invalid note name %q: use letters, numbers, spaces, hyphens, underscores, dots and /",
			name,
		)
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("invalid note name %q: must be relative", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("invalid note name %q: must not contain %q", name, part)
		}
	}
	return nil
}

// ParseVars turns key=value pairs into template bindings.
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// PreviewOptions controls markdown rendering.
type PreviewOptions struct {
	Style    string
	WordWrap int
}

// PreviewWrapWidth returns the wrap width for a preview pane of the given
// width, capped by the configured word wrap.
func PreviewWrapWidth(paneWidth int, opts PreviewOptions) int {
	wrap := paneWidth - previewHorizontalSpace
	if wrap <= 0 {
		wrap = defaultWrapWidth
	}
	if opts.WordWrap > 0 && opts.WordWrap < wrap {
		wrap = opts.WordWrap
	}
	return wrap
}

// RenderMarkdown renders content with glamour. A YAML header is shown as a
// code block instead of being parsed as markdown.
func RenderMarkdown(content string, paneWidth int, opts PreviewOptions) (string, error) {
	styleOpt := glamour.WithStandardStyle(opts.Style)
	switch opts.Style {
	case "":
		styleOpt = glamour.WithStandardStyle("dracula")
	case "auto":
		styleOpt = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(PreviewWrapWidth(paneWidth, opts)),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", err
	}

	raw, body := parser.SplitFrontMatter([]byte(content))
	if raw != nil {
		content = "```yaml\n" + string(raw) + "\n```\n\n" + string(body)
	}

	return r.Render(content)
}

// RenderMarkdownPreview reads the note at path and renders it for a preview
// pane of the given width. Failures are returned as displayable text.
func RenderMarkdownPreview(path string, paneWidth int, opts PreviewOptions) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}

	markdown, err := RenderMarkdown(string(content), paneWidth, opts)
	if err != nil {
		return fmt.Sprintf("Error rendering markdown: %v", err)
	}
	return markdown
}
