package preprocess

import (
	"strings"

	"github.com/mrz1836/flowsynth/internal/constants"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// callSpan locates one "<namespace>.Task(<arg>)" call in text.
type callSpan struct {
	// Start is the offset of the namespace's first byte.
	Start int
	// End is the offset just past the closing parenthesis.
	End int
	// Arg is the text between the parentheses.
	Arg string
}

// findCall returns the first call at or after from. Calls inside "#"
// comments are skipped. The argument span is found by counting parentheses
// outside quoted strings, so parentheses inside values such as
// "rate(5 minutes)" do not end the call early.
func findCall(text string, from int, namespace string) (callSpan, bool, error) {
	needle := namespace + "." + constants.TaskFunctionName + "("
	pos := from
	for pos <= len(text) {
		idx := strings.Index(text[pos:], needle)
		if idx < 0 {
			return callSpan{}, false, nil
		}
		start := pos + idx
		if (start > 0 && isIdentByte(text[start-1])) || inComment(text, start) {
			pos = start + len(needle)
			continue
		}

		argStart := start + len(needle)
		closeIdx, ok := matchParen(text, argStart)
		if !ok {
			return callSpan{}, false, &fserrors.SyntaxError{
				Offset:  start,
				Snippet: excerpt(text, start),
				Err:     errUnterminatedCall,
			}
		}
		return callSpan{Start: start, End: closeIdx + 1, Arg: text[argStart:closeIdx]}, true, nil
	}
	return callSpan{}, false, nil
}

// matchParen returns the index of the parenthesis that closes the one
// opened just before from.
func matchParen(text string, from int) (int, bool) {
	depth := 1
	for i := 0; from+i < len(text); i++ {
		at := from + i
		switch c := text[at]; c {
		case '"':
			if !opensScalar(text, at, from) {
				continue
			}
			end := skipDoubleQuoted(text, at)
			if end < 0 {
				return 0, false
			}
			i = end - from
		case '\'':
			if !opensScalar(text, at, from) {
				continue
			}
			end := skipSingleQuoted(text, at)
			if end < 0 {
				return 0, false
			}
			i = end - from
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return at, true
			}
		}
	}
	return 0, false
}

// skipDoubleQuoted returns the index of the quote closing the string opened
// at start, honoring backslash escapes, or -1.
func skipDoubleQuoted(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// skipSingleQuoted returns the index of the quote closing the string opened
// at start, where '' is an escaped quote, or -1.
func skipSingleQuoted(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		if text[i] != '\'' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '\'' {
			i++
			continue
		}
		return i
	}
	return -1
}

// opensScalar reports whether a quote at i starts a quoted scalar rather than
// sitting inside a plain one (as in "it's").
func opensScalar(text string, i, floor int) bool {
	j := i - 1
	for j >= floor && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
		j--
	}
	if j < floor {
		return true
	}
	switch text[j] {
	case ':', ',', '[', '{', '-', '?':
		return true
	default:
		return false
	}
}

// quoteOpens reports whether a quote at i starts a quoted scalar: only
// blanks or a flow, mapping or sequence indicator precede it on its line.
func quoteOpens(text string, i int) bool {
	j := i - 1
	for j >= 0 && (text[j] == ' ' || text[j] == '\t') {
		j--
	}
	if j < 0 {
		return true
	}
	switch text[j] {
	case '\n', '\r', ':', ',', '[', '{', '-', '?':
		return true
	default:
		return false
	}
}

// startsComment reports whether a '#' at i opens a comment rather than
// sitting inside a plain scalar.
func startsComment(text string, i int) bool {
	return i == 0 || text[i-1] == ' ' || text[i-1] == '\t' || text[i-1] == '\n' || text[i-1] == '\r'
}

// inComment reports whether offset at lies in a comment on its line.
func inComment(text string, at int) bool {
	for i := strings.LastIndexByte(text[:at], '\n') + 1; i < at; i++ {
		var closing int
		switch c := text[i]; {
		case c == '"' && quoteOpens(text, i):
			closing = skipDoubleQuoted(text, i)
		case c == '\'' && quoteOpens(text, i):
			closing = skipSingleQuoted(text, i)
		case c == '#' && startsComment(text, i):
			return true
		default:
			continue
		}
		if closing < 0 || closing >= at {
			return false
		}
		i = closing
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func excerpt(text string, start int) string {
	const maxExcerpt = 60
	end := min(start+maxExcerpt, len(text))
	if nl := strings.IndexByte(text[start:end], '\n'); nl >= 0 {
		end = start + nl
	}
	return text[start:end]
}
