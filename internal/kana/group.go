package kana

import (
	"regexp"
	"unicode"
)

// rows lists the gojūon rows; the first rune of each entry is the row's
// representative.
var rows = []string{
	"アイウエオ",
	"カキクケコ",
	"サシスセソ",
	"タチツテト",
	"ナニヌネノ",
	"ハヒフヘホ",
	"マミムメモ",
	"ヤユヨ",
	"ラリルレロ",
	"ワヲン",
}

// rowHeads maps each row member to its representative.
var rowHeads = func() map[rune]rune {
	m := make(map[rune]rune, 48)
	for _, row := range rows {
		members := []rune(row)
		for _, r := range members {
			m[r] = members[0]
		}
	}
	return m
}()

// RowOf returns the representative of the row containing r ('キ' → 'カ').
// Runes outside every row are returned unchanged.
func RowOf(r rune) rune {
	if h, ok := rowHeads[r]; ok {
		return h
	}
	return r
}

// GroupCode maps the first two runes of a normalized reading to their row
// representatives. An empty reading yields "", and a single-rune reading
// yields a single-rune code; callers validate the result with [IsKatakana].
func GroupCode(normalized string) string {
	if normalized == "" {
		return ""
	}
	head := []rune(Head(normalized, 2))
	for i, r := range head {
		head[i] = RowOf(r)
	}
	return string(head)
}

// Head returns the first n runes of s.
func Head(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// katakanaNamed covers the code points whose Unicode character name begins
// with "KATAKANA", including the shared KATAKANA-HIRAGANA marks. Half-width,
// circled and squared katakana are named differently and are not included.
var katakanaNamed = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x309b, Hi: 0x309c, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
		{Lo: 0x31f0, Hi: 0x31ff, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1aff0, Hi: 0x1aff3, Stride: 1},
		{Lo: 0x1aff5, Hi: 0x1affb, Stride: 1},
		{Lo: 0x1affd, Hi: 0x1affe, Stride: 1},
		{Lo: 0x1b000, Hi: 0x1b000, Stride: 1},
		{Lo: 0x1b120, Hi: 0x1b122, Stride: 1},
		{Lo: 0x1b155, Hi: 0x1b155, Stride: 1},
		{Lo: 0x1b164, Hi: 0x1b167, Stride: 1},
	},
}

// IsKatakana reports whether every rune of s is a katakana code point.
// It is vacuously true for "".
func IsKatakana(s string) bool {
	for _, r := range s {
		if !unicode.Is(katakanaNamed, r) {
			return false
		}
	}
	return true
}

// ValidGroupCode derives the group code for a normalized reading and
// replaces it with [Sentinel] when it contains anything but katakana.
func ValidGroupCode(normalized string) string {
	code := GroupCode(normalized)
	if code != "" && !IsKatakana(code) {
		return Sentinel
	}
	return code
}

var reDirectoryCode = regexp.MustCompile(`^[ァ-ヶー]{2}$`)

// IsDirectoryCode reports whether code can name a shelf directory: exactly
// two characters from ァ..ヶ or the prolonged sound mark.
func IsDirectoryCode(code string) bool {
	return reDirectoryCode.MatchString(code)
}
