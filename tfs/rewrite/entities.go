package rewrite

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

// xmlEntity matches the five predefined XML entities and numeric character
// references. Every form must be terminated by ';'.
var xmlEntity = regexp.MustCompile(`&(amp|lt|gt|quot|apos|#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6});`)

var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// UnescapeXML decodes XML entity references in s. Unlike HTML unescaping it
// ignores the wider HTML entity table and unterminated references, so
// "good&times" and "my&notes" pass through unchanged. Numeric references to
// invalid code points are left as written.
func UnescapeXML(s string) string {
	return xmlEntity.ReplaceAllStringFunc(s, func(ref string) string {
		body := ref[1 : len(ref)-1]
		if v, ok := namedEntities[body]; ok {
			return v
		}
		base, digits := 10, body[1:]
		if digits[0] == 'x' || digits[0] == 'X' {
			base, digits = 16, digits[1:]
		}
		cp, err := strconv.ParseInt(digits, base, 32)
		if err != nil || cp == 0 || !utf8.ValidRune(rune(cp)) {
			return ref
		}
		return string(rune(cp))
	})
}
