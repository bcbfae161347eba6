package fatshell

import (
	"strings"

	"github.com/admgrn/fatshell/checkpoint"
)

// Tokenize splits one input line into the command name and its
// arguments. Tokens are separated by spaces and tabs; a double-quoted
// segment keeps its spaces. A line with an unterminated quote yields
// ErrUnclosedQuote and must not be dispatched.
func Tokenize(input string) (string, []string, error) {
	var tokens []string
	var current strings.Builder

	inQuote := false
	inToken := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuote = !inQuote
			inToken = true
		case (r == ' ' || r == '\t') && !inQuote:
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if inQuote {
		return "", nil, checkpoint.From(ErrUnclosedQuote)
	}
	if inToken {
		tokens = append(tokens, current.String())
	}

	if len(tokens) == 0 {
		return "", nil, nil
	}
	return tokens[0], tokens[1:], nil
}
