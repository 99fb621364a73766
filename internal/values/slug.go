package values

import (
	"strings"
	"unicode"
)

// DeriveSlug turns a title into its URL form. Letters and digits are kept in
// lower case, hyphens and whitespace each become a hyphen, and any other rune
// separates words. A title without letters, digits, hyphens or inner
// whitespace yields a zero Slug.
func DeriveSlug(title Title) Slug {
	var b strings.Builder
	for _, r := range strings.ToLower(title.String()) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(' ')
		}
	}
	return Slug{text{v: strings.Join(strings.Fields(b.String()), "-")}}
}
