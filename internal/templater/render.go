package templater

import (
	"regexp"
	"sort"
	"strings"
)

var (
	scalarDefaultRe = regexp.MustCompile(
		`\{\{\s*(\w+)\s*\|\s*default\(\s*(?:'([^']*)'|"([^"]*)")\s*\)\s*\}\}`,
	)
	arrayDefaultRe = regexp.MustCompile(
		`\{\{\s*(\w+)\s*\|\s*default\(\s*(\[.*?\])\s*\)\s*\}\}`,
	)
	bareRe = regexp.MustCompile(`\{\{ (\w+) \}\}`)
)

// segment is a span of the text being rendered. Frozen spans were produced by
// an earlier pass and are never scanned again.
type segment struct {
	text   string
	frozen bool
}

// Render resolves the placeholders in text against bindings.
//
// Three passes run in order: bare {{ name }} placeholders are replaced for
// every bound name, then {{ name|default('literal') }} placeholders, then
// {{ name|default([...]) }} placeholders. Output of a pass is not rescanned by
// later passes. Scalar default literals are trimmed of surrounding
// whitespace. Unbound bare placeholders and anything that matches none of
// the grammars are left untouched.
func Render(text string, bindings map[string]string) string {
	segs := []segment{{text: text}}

	segs = replaceBare(segs, bindings)
	segs = replacePattern(segs, scalarDefaultRe, func(m []string) string {
		if v, ok := bindings[m[1]]; ok {
			return v
		}
		if m[2] != "" {
			return strings.TrimSpace(m[2])
		}
		return strings.TrimSpace(m[3])
	})
	segs = replacePattern(segs, arrayDefaultRe, func(m []string) string {
		if v, ok := bindings[m[1]]; ok {
			return v
		}
		return m[2]
	})

	var b strings.Builder
	b.Grow(len(text))
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

// replaceBare substitutes the literal token "{{ name }}" for every bound
// name. Names are matched as plain strings. When several tokens start at the
// same offset the longest one wins.
func replaceBare(segs []segment, bindings map[string]string) []segment {
	if len(bindings) == 0 {
		return segs
	}

	type token struct {
		text  string
		value string
	}
	tokens := make([]token, 0, len(bindings))
	for name, value := range bindings {
		tokens = append(tokens, token{text: "{{ " + name + " }}", value: value})
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i].text) != len(tokens[j].text) {
			return len(tokens[i].text) > len(tokens[j].text)
		}
		return tokens[i].text < tokens[j].text
	})

	out := make([]segment, 0, len(segs))
	for _, seg := range segs {
		if seg.frozen {
			out = append(out, seg)
			continue
		}

		s := seg.text
		start := 0
		for i := 0; i < len(s); {
			next := strings.Index(s[i:], "{{ ")
			if next < 0 {
				break
			}
			i += next

			matched := false
			for _, tok := range tokens {
				if strings.HasPrefix(s[i:], tok.text) {
					if start < i {
						out = append(out, segment{text: s[start:i]})
					}
					out = append(out, segment{text: tok.value, frozen: true})
					i += len(tok.text)
					start = i
					matched = true
					break
				}
			}
			if !matched {
				i++
			}
		}
		if start < len(s) {
			out = append(out, segment{text: s[start:]})
		}
	}
	return out
}

// replacePattern runs re over every unfrozen segment and freezes the
// replacement produced by fn for each match.
func replacePattern(
	segs []segment,
	re *regexp.Regexp,
	fn func(groups []string) string,
) []segment {
	out := make([]segment, 0, len(segs))
	for _, seg := range segs {
		if seg.frozen {
			out = append(out, seg)
			continue
		}

		s := seg.text
		start := 0
		for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = s[loc[2*g]:loc[2*g+1]]
				}
			}

			if start < loc[0] {
				out = append(out, segment{text: s[start:loc[0]]})
			}
			out = append(out, segment{text: fn(groups), frozen: true})
			start = loc[1]
		}
		if start < len(s) {
			out = append(out, segment{text: s[start:]})
		}
	}
	return out
}

// Variables lists the names referenced by placeholders in text, sorted and
// without duplicates.
func Variables(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{bareRe, scalarDefaultRe, arrayDefaultRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			seen[m[1]] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
