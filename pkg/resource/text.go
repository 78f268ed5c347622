package resource

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 32

// Slug turns free text into a resource name: accents are stripped, letters
// and digits are lower-cased, every other run of characters becomes a
// single underscore. Names never start with a digit; fallback is used when
// nothing is left.
func Slug(text, fallback string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, text)
	if err != nil {
		plain = text
	}

	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(plain) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
		if b.Len() >= maxNameLength {
			break
		}
	}
	name := strings.Trim(b.String(), "_")
	if len(name) > maxNameLength {
		name = strings.TrimRight(name[:maxNameLength], "_")
	}
	if name == "" {
		return fallback
	}
	if name[0] >= '0' && name[0] <= '9' {
		return fallback + "_" + name
	}
	return name
}

// inlineMarkup lists the tags kept in string resources.
var inlineMarkup = map[string]string{
	"b":      "b",
	"strong": "b",
	"i":      "i",
	"em":     "i",
	"u":      "u",
	"br":     "br",
}

// SanitizeMarkup reduces an HTML fragment to text plus the inline tags
// Android string resources understand. Other tags are dropped with their
// text kept; script and style content is dropped entirely. Whitespace runs
// collapse to one space. The result is well-formed XML content.
func SanitizeMarkup(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var (
		b    strings.Builder
		open []string
		skip int
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		name, _ := z.TagName()
		tag := string(name)
		switch tt {
		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			out, ok := inlineMarkup[tag]
			if !ok || skip > 0 {
				continue
			}
			if out == "br" {
				b.WriteString("<br/>")
				continue
			}
			if tt == html.StartTagToken {
				b.WriteString("<" + out + ">")
				open = append(open, out)
			}
		case html.EndTagToken:
			if tag == "script" || tag == "style" {
				if skip > 0 {
					skip--
				}
				continue
			}
			out, ok := inlineMarkup[tag]
			if !ok || out == "br" || skip > 0 {
				continue
			}
			// Close up to the matching open tag so the output stays balanced.
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] != out {
					continue
				}
				for j := len(open) - 1; j >= i; j-- {
					b.WriteString("</" + open[j] + ">")
				}
				open = open[:i]
				break
			}
		}
	}
	for j := len(open) - 1; j >= 0; j-- {
		b.WriteString("</" + open[j] + ">")
	}
	return strings.TrimSpace(collapseSpace(b.String()))
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// PlainText returns the text content of an HTML fragment without markup.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(collapseSpace(b.String()))
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
