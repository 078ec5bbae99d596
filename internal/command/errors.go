package command

import (
	"strings"
)

// usageHint is attached as a suggestion to most parse failures so the user
// always sees the expected shape of a command.
const usageHint = "expected: buy|sell SYMBOL SIZE[u|usdt|%] [xLEVERAGE] [slN%] [tpN%] [reduce] [limit PRICE]"

// ParseError collects everything wrong with one input line. It carries
// human-readable errors plus "did you mean" suggestions instead of a single
// opaque failure, so the UI layer can show all problems at once.
type ParseError struct {
	Errors      []string
	Suggestions []string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return "parse error"
	}
	return strings.Join(e.Errors, "; ")
}

// HasErrors returns true when at least one error was recorded.
func (e *ParseError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ParseError) add(msg string) {
	e.Errors = append(e.Errors, msg)
}

func (e *ParseError) suggest(msg string) {
	for _, s := range e.Suggestions {
		if s == msg {
			return
		}
	}
	e.Suggestions = append(e.Suggestions, msg)
}
