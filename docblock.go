package apidoc

import (
	"strings"
	"unicode"
)

// CommentBlock is the parsed form of a structured comment attached to a
// handler or to the container a handler belongs to.
type CommentBlock struct {
	Short string
	Long  string
	Tags  []Tag
}

// Tag is one "@name content" annotation. Order and duplicates are kept.
type Tag struct {
	Kind    TagKind
	Name    string
	Content string
}

// ParseCommentBlock parses a structured comment. It accepts Go line
// comments, C-style doc blocks with a "*" gutter, or bare text. Parsing is
// purely lexical; tag content is validated later by the interpreters.
func ParseCommentBlock(raw string) CommentBlock {
	lines := commentLines(raw)
	if len(lines) == 0 {
		return CommentBlock{}
	}

	var (
		desc []string
		tags []Tag
		body []string
	)
	flush := func() {
		if len(tags) == 0 {
			return
		}
		last := &tags[len(tags)-1]
		last.Content = strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
	}

	for _, l := range lines {
		if name, rest, ok := tagLine(l); ok {
			flush()
			tags = append(tags, Tag{Kind: kindOf(name), Name: name})
			body = append(body, rest)
			continue
		}
		if len(tags) > 0 {
			body = append(body, l)
			continue
		}
		desc = append(desc, l)
	}
	flush()

	short, long := splitDescription(desc)
	return CommentBlock{Short: short, Long: long, Tags: tags}
}

// commentLines strips comment markers and trims blank lines from both ends.
// The "*" gutter is only recognized when the comment opens with "/*". The
// indentation shared by every line is removed; deeper indentation is kept.
func commentLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	block := strings.HasPrefix(strings.TrimSpace(raw), "/*")

	var out []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimRightFunc(l, unicode.IsSpace)
		trimmed := strings.TrimLeftFunc(l, unicode.IsSpace)

		switch {
		case block:
			trimmed = strings.TrimSuffix(trimmed, "*/")
			switch {
			case strings.HasPrefix(trimmed, "/**"):
				l = strings.TrimPrefix(strings.TrimPrefix(trimmed, "/**"), " ")
			case strings.HasPrefix(trimmed, "/*"):
				l = strings.TrimPrefix(strings.TrimPrefix(trimmed, "/*"), " ")
			case strings.HasPrefix(trimmed, "*"):
				l = strings.TrimPrefix(strings.TrimPrefix(trimmed, "*"), " ")
			default:
				l = strings.TrimSuffix(l, "*/")
			}
		case strings.HasPrefix(trimmed, "//"):
			l = strings.TrimPrefix(strings.TrimPrefix(trimmed, "//"), " ")
		}

		out = append(out, strings.TrimRightFunc(l, unicode.IsSpace))
	}

	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return dedent(out)
}

// dedent removes the leading whitespace common to all non-blank lines.
func dedent(lines []string) []string {
	var (
		prefix string
		first  = true
	)
	for _, l := range lines {
		if l == "" {
			continue
		}
		indent := l[:len(l)-len(strings.TrimLeftFunc(l, unicode.IsSpace))]
		if first {
			prefix, first = indent, false
			continue
		}
		n := 0
		for n < len(prefix) && n < len(indent) && prefix[n] == indent[n] {
			n++
		}
		prefix = prefix[:n]
	}
	if prefix == "" {
		return lines
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, prefix)
	}
	return lines
}

// tagLine reports whether l opens a tag and splits it into name and the
// rest of the line.
func tagLine(l string) (string, string, bool) {
	t := strings.TrimLeftFunc(l, unicode.IsSpace)
	if len(t) < 2 || t[0] != '@' || !isTagNameRune(rune(t[1])) {
		return "", "", false
	}
	end := 1
	for end < len(t) && isTagNameRune(rune(t[end])) {
		end++
	}
	return t[1:end], strings.TrimSpace(t[end:]), true
}

func isTagNameRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// splitDescription separates the short description (first paragraph, or up
// to the first line ending in a period) from the long description.
func splitDescription(lines []string) (string, string) {
	var short []string
	i := 0
	for ; i < len(lines); i++ {
		l := strings.TrimSpace(lines[i])
		if l == "" {
			if len(short) > 0 {
				break
			}
			continue
		}
		short = append(short, l)
		if strings.HasSuffix(l, ".") {
			i++
			break
		}
	}

	long := strings.Trim(strings.Join(lines[min(i, len(lines)):], "\n"), "\n")
	return strings.Join(short, " "), long
}
