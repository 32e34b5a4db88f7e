package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugTransformer strips combining marks so accented characters fold to their
// ASCII base (é -> e) before the character-class pass.
var slugTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes an arbitrary name into a URL-safe slug: lowercase,
// diacritics folded, every run of non-alphanumeric characters collapsed to a
// single hyphen. Two names that normalize to the same slug collide.
func Slugify(name string) string {
	folded, _, err := transform.String(slugTransformer, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '/':
			// path separators survive so nested content keeps its hierarchy
			b.WriteRune(r)
			lastHyphen = true
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := b.String()
	out = strings.ReplaceAll(out, "-/", "/")
	out = strings.ReplaceAll(out, "/-", "/")
	out = strings.Trim(out, "-/")
	return out
}
