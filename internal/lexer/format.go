package lexer

import "strings"

// Format writes tokens back as source text. Words are separated by a single space
// and parentheses are kept adjacent to their contents, so lexing the result yields
// the same token sequence.
func Format(tokens []Token) string {
	var b strings.Builder
	var prev *Token

	for i := range tokens {
		tk := &tokens[i]
		if tk.Type == TokenEOF {
			break
		}

		// A word directly followed by "(" would swallow it
		if prev != nil && prev.Type == TokenWord && tk.Type != TokenParenClose {
			b.WriteByte(' ')
		}

		b.WriteString(tk.String())
		prev = tk
	}

	return b.String()
}
