// Package search finds markdown notes containing a query string.
package search

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Paintersrp/nt/internal/parser"
	"github.com/Paintersrp/nt/internal/pathutil"
)

// MaxLines is the number of matching lines kept per result.
const MaxLines = 5

// Line is a single matching line of a note.
type Line struct {
	Number int
	Text   string
}

// Result captures the matches found in one note.
type Result struct {
	Path         string
	RelativePath string
	Title        string
	Matches      int
	Lines        []Line
}

// Search walks root for .md files and returns those containing query,
// ignoring case. Results are ordered by descending match count; ties keep
// walk order. Files that are not valid UTF-8 or cannot be read for lack of
// permission are skipped. The query is matched as given, surrounding spaces
// included. A blank query matches nothing.
func Search(root, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	needle := strings.ToLower(query)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("search: %s is not a directory", root)
	}

	var results []Result
	err = filepath.WalkDir(
		root,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path != root && errors.Is(err, fs.ErrPermission) {
					if d != nil && d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".md" {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrPermission) {
					return nil
				}
				return err
			}

			result, ok := match(path, data, needle)
			if !ok {
				return nil
			}
			if rel, err := pathutil.NotesRelative(root, path); err == nil {
				result.RelativePath = rel
			}
			results = append(results, result)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Matches > results[j].Matches
	})
	return results, nil
}

// match scans data line by line for needle, which must already be lower case.
func match(path string, data []byte, needle string) (Result, bool) {
	if !utf8.Valid(data) {
		return Result{}, false
	}

	result := Result{Path: path}
	for i, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		result.Matches++
		if len(result.Lines) < MaxLines {
			result.Lines = append(result.Lines, Line{
				Number: i + 1,
				Text:   strings.TrimSpace(line),
			})
		}
	}
	if result.Matches == 0 {
		return Result{}, false
	}

	result.Title = parser.Parse(path, data).Title
	return result, true
}
