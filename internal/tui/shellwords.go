package tui

import "unicode"

// splitShellWords splits an editor command like `code --wait` into argv. Single and double
// quotes group words; a backslash escapes the next rune outside single quotes.
func splitShellWords(s string) []string {
	var (
		out     []string
		word    []rune
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range s {
		switch {
		case escaped:
			word = append(word, r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			inWord = true
		case quote == 0 && unicode.IsSpace(r):
			if inWord {
				out = append(out, string(word))
				word = word[:0]
				inWord = false
			}
		default:
			word = append(word, r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, string(word))
	}
	return out
}
