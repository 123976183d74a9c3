package memory

import "strings"

// PackString packs text into words, two bytes per word with the high byte
// first. The result always carries a terminating zero byte: an odd-length
// string leaves the low byte of its last word zero, an even-length string
// gains a trailing all-zero word. An embedded zero byte in text terminates
// the logical string early.
func PackString(text string) []Word {
	if i := strings.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}

	words := make([]Word, 0, len(text)/2+1)
	for i := 0; i < len(text); i += 2 {
		w := Word(text[i]) << 8
		if i+1 < len(text) {
			w |= Word(text[i+1])
		}
		words = append(words, w)
	}
	if len(text)%2 == 0 {
		words = append(words, 0)
	}
	return words
}

// UnpackString reverses PackString, stopping at the first zero byte found in
// either half of a word or at the end of words.
func UnpackString(words []Word) string {
	var b strings.Builder
	for _, w := range words {
		hi := byte(w >> 8)
		if hi == 0 {
			break
		}
		b.WriteByte(hi)

		lo := byte(w)
		if lo == 0 {
			break
		}
		b.WriteByte(lo)
	}
	return b.String()
}
