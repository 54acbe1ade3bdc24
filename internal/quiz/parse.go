// Package quiz drives the four-question conversation as a finite state machine.
package quiz

import (
	"strconv"
	"strings"
	"unicode"

	"loyalty_quiz/internal/domain"
)

// MaxSelections is the number of answers honoured per question.
const MaxSelections = 2

// ParseSelection extracts option numbers in 1..max from free text such as
// "1 і 3" or "2,4". Out-of-range and repeated numbers are ignored, input
// order is kept and anything past MaxSelections is dropped.
func ParseSelection(text string, max int) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
	var out []int
	seen := map[int]bool{}
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > max || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		if len(out) == MaxSelections {
			break
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoSelection
	}
	return out, nil
}
