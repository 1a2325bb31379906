// Package kana reduces katakana readings to sortable bucket keys.
//
// A reading is first folded to base characters by [Normalize] (small forms,
// the geminate marker and voiced/semi-voiced syllables collapse to their
// plain forms), then [GroupCode] replaces the first two characters with the
// representative of their gojūon row, e.g. "キヨ" becomes "カヤ".
//
// The tables are fixed at init and never mutated.
package kana
