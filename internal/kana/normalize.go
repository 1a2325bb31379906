package kana

// Sentinel marks a name or reading that could not be classified.
const Sentinel = "!!"

// baseForms maps small, geminate, voiced and semi-voiced katakana to their
// plain form. Every other rune maps to itself.
var baseForms = map[rune]rune{
	// small vowels and contracted ya/yu/yo
	'ァ': 'ア', 'ィ': 'イ', 'ゥ': 'ウ', 'ェ': 'エ', 'ォ': 'オ',
	'ャ': 'ヤ', 'ュ': 'ユ', 'ョ': 'ヨ',
	'ッ': 'ツ',

	// voiced
	'ガ': 'カ', 'ギ': 'キ', 'グ': 'ク', 'ゲ': 'ケ', 'ゴ': 'コ',
	'ザ': 'サ', 'ジ': 'シ', 'ズ': 'ス', 'ゼ': 'セ', 'ゾ': 'ソ',
	'ダ': 'タ', 'ヂ': 'チ', 'ヅ': 'ツ', 'デ': 'テ', 'ド': 'ト',
	'バ': 'ハ', 'ビ': 'ヒ', 'ブ': 'フ', 'ベ': 'ヘ', 'ボ': 'ホ',

	// semi-voiced
	'パ': 'ハ', 'ピ': 'ヒ', 'プ': 'フ', 'ペ': 'ヘ', 'ポ': 'ホ',

	'ヴ': 'ウ',
}

// BaseForm returns the plain form of r, or r itself when it has none.
func BaseForm(r rune) rune {
	if b, ok := baseForms[r]; ok {
		return b
	}
	return r
}

// Normalize folds every rune of reading through [BaseForm]. The mapping is
// rune-for-rune, so the result has the same length and order as the input.
func Normalize(reading string) string {
	out := []rune(reading)
	for i, r := range out {
		out[i] = BaseForm(r)
	}
	return string(out)
}
