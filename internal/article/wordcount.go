package article

import "regexp"

var wordRe = regexp.MustCompile(`\w+`)

// CountWords returns the number of maximal runs of [0-9A-Za-z_] in s.
// It is a crude heuristic and loop termination depends on it staying this way.
func CountWords(s string) int {
	return len(wordRe.FindAllStringIndex(s, -1))
}
