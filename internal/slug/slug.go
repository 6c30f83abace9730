// internal/slug/slug.go
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make converts an arbitrary value into a URL-safe token: letters are
// lowercased, accents on Latin letters are folded, and every run of other
// characters becomes a single hyphen. Combining marks of other scripts are
// part of the word they belong to. A value with no letters or digits yields "".
func Make(s string) string {
	var b strings.Builder
	pendingHyphen := false
	inWord := false
	latinBase := false
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			inWord = true
			latinBase = unicode.Is(unicode.Latin, r)
			b.WriteRune(r)
		case unicode.Is(unicode.M, r) && inWord:
			if !latinBase {
				b.WriteRune(r)
			}
		default:
			pendingHyphen = true
			inWord = false
		}
	}
	return norm.NFC.String(b.String())
}
