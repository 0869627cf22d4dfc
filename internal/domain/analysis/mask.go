package analysis

const maskRune = '*'

// Mask derives the one-way display form of a password: first rune kept, every
// interior rune replaced, last rune kept. A single-rune password becomes a
// single mask character so nothing is disclosed. Empty input stays empty.
// Mask is pure; no mapping back to the raw password exists anywhere.
func Mask(raw string) string {
	runes := []rune(raw)
	switch len(runes) {
	case 0:
		return ""
	case 1:
		return string(maskRune)
	}
	out := make([]rune, len(runes))
	out[0] = runes[0]
	for i := 1; i < len(runes)-1; i++ {
		out[i] = maskRune
	}
	out[len(out)-1] = runes[len(runes)-1]
	return string(out)
}
