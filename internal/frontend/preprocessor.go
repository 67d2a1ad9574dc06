package frontend

import "strings"

// Preprocess strips `//` line comments and `/* */` block comments from src.
// A line comment is cut at its trailing newline, which is kept. A block
// comment -- however many lines it spans -- collapses to a single newline
// emitted at its closing `*/`, so the lexer never sees it but the next
// token still starts on a line of its own. String literal contents are
// left untouched even if they contain characters that would otherwise
// start a comment.
func Preprocess(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
	)
	state := stateCode

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case r == '"':
				state = stateString
				sb.WriteRune(r)
			case r == '/' && next == '/':
				state = stateLineComment
				sb.WriteRune(' ')
				sb.WriteRune(' ')
				i++
			case r == '/' && next == '*':
				state = stateBlockComment
				i++
			default:
				sb.WriteRune(r)
			}
		case stateString:
			sb.WriteRune(r)
			if r == '\\' && i+1 < len(runes) {
				sb.WriteRune(next)
				i++
				continue
			}
			if r == '"' {
				state = stateCode
			}
		case stateLineComment:
			if r == '\n' {
				state = stateCode
				sb.WriteRune(r)
			} else {
				sb.WriteRune(' ')
			}
		case stateBlockComment:
			if r == '*' && next == '/' {
				state = stateCode
				sb.WriteRune('\n')
				i++
			}
		}
	}
	return sb.String()
}
