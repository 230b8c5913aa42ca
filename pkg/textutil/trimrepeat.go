// Package textutil holds small string helpers independent of the
// bookkeeping core.
package textutil

import "strings"

// TrimAndRepeat drops the first offset characters from s and concatenates
// the remainder repetitions times. The offset counts runes, not bytes, so
// multibyte input is never split mid-character. A negative offset clamps to
// zero; an offset past the end of s, or a non-positive repetition count,
// yields the empty string.
func TrimAndRepeat(s string, offset int, repetitions int) string {
	if offset < 0 {
		offset = 0
	}
	if repetitions <= 0 {
		return ""
	}
	runes := []rune(s)
	if offset >= len(runes) {
		return ""
	}
	return strings.Repeat(string(runes[offset:]), repetitions)
}
