package preprocess

import "strings"

// EscapePlaceholders quotes every bare "${...}" placeholder that forms a
// whole YAML scalar, so the text parses and the placeholder survives as a
// string. Placeholders inside quoted scalars, comments or block scalar
// bodies, and those embedded in a longer plain scalar, are left alone.
// Nested braces inside a placeholder are allowed.
func EscapePlaceholders(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"' && quoteOpens(text, i):
			i = pastQuoted(text, skipDoubleQuoted(text, i))
		case c == '\'' && quoteOpens(text, i):
			i = pastQuoted(text, skipSingleQuoted(text, i))
		case c == '#' && startsComment(text, i):
			i = lineEnd(text, i)
		case (c == '|' || c == '>') && opensBlockScalar(text, i):
			i = blockScalarEnd(text, i)
		case strings.HasPrefix(text[i:], "${"):
			end := placeholderEnd(text, i)
			if end < 0 {
				i += 2
				continue
			}
			if bareBefore(text, i) && bareAfter(text, end) {
				b.WriteString(text[last:i])
				b.WriteString(quoteScalar(text[i:end]))
				last = end
			}
			i = end
		default:
			i++
		}
	}
	b.WriteString(text[last:])
	return b.String()
}

// pastQuoted returns the offset after a closing quote, or the end of text
// when the scalar never closes.
func pastQuoted(text string, closing int) int {
	if closing < 0 {
		return len(text)
	}
	return closing + 1
}

// opensBlockScalar reports whether the '|' or '>' at i is a block scalar
// header: it starts a node and only indicators or a comment follow it.
func opensBlockScalar(text string, i int) bool {
	j := i - 1
	spaced := false
	for j >= 0 && (text[j] == ' ' || text[j] == '\t') {
		j--
		spaced = true
	}
	if j >= 0 {
		switch text[j] {
		case '\n', '\r':
		case ':', '-', '?':
			if !spaced {
				return false
			}
		default:
			return false
		}
	}

	k := i + 1
	for k < len(text) && (text[k] == '-' || text[k] == '+' || (text[k] >= '1' && text[k] <= '9')) {
		k++
	}
	for k < len(text) && (text[k] == ' ' || text[k] == '\t') {
		k++
	}
	return k >= len(text) || text[k] == '\n' || text[k] == '\r' || (text[k] == '#' && startsComment(text, k))
}

// blockScalarEnd returns the offset of the first line after the block scalar
// whose header is at i. Body lines are blank or indented deeper than the
// header's line.
func blockScalarEnd(text string, i int) int {
	parent := indentOf(text, strings.LastIndexByte(text[:i], '\n')+1)
	pos := lineEnd(text, i)
	for pos < len(text) {
		next := pos + 1
		end := lineEnd(text, next)
		line := strings.TrimRight(text[next:end], " \t\r")
		if line != "" && indentOf(text, next) <= parent {
			return next
		}
		pos = end
	}
	return len(text)
}

func indentOf(text string, lineStart int) int {
	n := 0
	for lineStart+n < len(text) && text[lineStart+n] == ' ' {
		n++
	}
	return n
}

// lineEnd returns the offset of the newline ending the line holding i, or
// the end of text.
func lineEnd(text string, i int) int {
	if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(text)
}

// placeholderEnd returns the index just past the brace closing the
// placeholder opened at start, or -1 when it does not close on its line.
func placeholderEnd(text string, start int) int {
	depth := 0
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// bareBefore reports whether the placeholder at start begins a scalar: it
// follows a line start, a flow indicator, or a mapping/sequence indicator
// separated by whitespace.
func bareBefore(text string, start int) bool {
	i := start - 1
	spaced := false
	for i >= 0 && (text[i] == ' ' || text[i] == '\t') {
		i--
		spaced = true
	}
	if i < 0 {
		return true
	}
	switch text[i] {
	case '\n', '\r', ',', '[', '{':
		return true
	case ':', '-':
		return spaced
	default:
		return false
	}
}

// bareAfter reports whether the placeholder ending at end also ends its scalar.
func bareAfter(text string, end int) bool {
	i := end
	spaced := false
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
		spaced = true
	}
	if i >= len(text) {
		return true
	}
	switch text[i] {
	case '\n', '\r', ',', ']', '}':
		return true
	case '#':
		return spaced
	default:
		return false
	}
}

// quoteScalar wraps s in double quotes, or in single quotes when s holds a
// character double quotes would treat specially.
func quoteScalar(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
