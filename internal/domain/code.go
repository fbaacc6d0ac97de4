package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Crockford base32: no I, L, O or U, so codes survive being read aloud.
const codeAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const DefaultCodeLength = 8

// NewConfirmationCode returns a random upper-case code of the given length.
func NewConfirmationCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// NormalizeCode maps what a person typed or a scanner read onto the stored
// form: separators dropped, upper-cased, and the Crockford look-alikes
// folded (O->0, I/L->1).
func NormalizeCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		switch r {
		case '-', ' ', '_':
			continue
		case 'O':
			r = '0'
		case 'I', 'L':
			r = '1'
		}
		b.WriteRune(r)
	}
	return b.String()
}
