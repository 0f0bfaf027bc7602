package zdict

import "bytes"

// Token is a word found in input text.
type Token struct {
	Text   []byte
	Start  int
	Length int
}

// Tokenize splits ZSCII text into words.
// Spaces separate words, and each word separator is a word on its own.
func (d *Dictionary) Tokenize(text []byte) []Token {
	return Tokenize(text, d.separators)
}

func Tokenize(text []byte, separators []byte) []Token {
	var ret []Token
	start := -1
	flush := func(end int) {
		if start >= 0 {
			ret = append(ret, Token{Text: text[start:end], Start: start, Length: end - start})
			start = -1
		}
	}
	for i, c := range text {
		switch {
		case c == ' ':
			flush(i)
		case bytes.IndexByte(separators, c) >= 0:
			flush(i)
			ret = append(ret, Token{Text: text[i : i+1], Start: i, Length: 1})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return ret
}
