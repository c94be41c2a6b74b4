package formula

import "strings"

// MatchCriteria implements the wildcard matching SUMIF/COUNTIF use: "*"
// matches any run of characters, "?" matches any single character, and
// "~*"/"~?"/"~~" escape the following character to a literal.
func MatchCriteria(pattern, text string) bool {
	pattern = strings.ToUpper(pattern)
	text = strings.ToUpper(text)
	return matchGlob(pattern, text)
}

func matchGlob(pattern, text string) bool {
	pi, ti := 0, 0
	starPi, starTi := -1, -1
	for ti < len(text) {
		if pi < len(pattern) {
			pc := pattern[pi]
			if pc == '~' && pi+1 < len(pattern) {
				if text[ti] == pattern[pi+1] {
					pi += 2
					ti++
					continue
				}
			} else if pc == '?' {
				pi++
				ti++
				continue
			} else if pc == '*' {
				starPi = pi
				starTi = ti
				pi++
				continue
			} else if pc == text[ti] {
				pi++
				ti++
				continue
			}
		}
		if starPi >= 0 {
			pi = starPi + 1
			starTi++
			ti = starTi
			continue
		}
		return false
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
