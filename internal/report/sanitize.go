package report

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var htmlFragment = regexp.MustCompile(`(?i)<(?:h[1-6]|p|ul|ol|li|table|tr|div|br|strong|em|b|i)\b[^>]*>`)

var allowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "br": true, "hr": true, "div": true, "span": true,
	"ul": true, "ol": true, "li": true,
	"strong": true, "b": true, "em": true, "i": true, "u": true, "sup": true, "sub": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true, "td": true,
	"blockquote": true, "pre": true, "code": true,
}

var allowedAttrs = map[string]bool{"colspan": true, "rowspan": true}

// Elements whose content is dropped along with the tag.
var droppedTags = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true,
	"embed": true, "noscript": true, "template": true, "svg": true,
}

var voidTags = map[string]bool{"br": true, "hr": true}

// IsHTML reports whether fragment contains block or inline HTML markup.
func IsHTML(fragment string) bool {
	return htmlFragment.MatchString(fragment)
}

// Sanitize reduces fragment to an allowlist of formatting elements. Every
// attribute except table spans is removed, and scripts, styles and
// embedded content are dropped with their content.
func Sanitize(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var sb strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way emit what was read.
			return sb.String()

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if droppedTags[tok.Data] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.Data] {
				continue
			}
			sb.WriteByte('<')
			sb.WriteString(tok.Data)
			for _, a := range tok.Attr {
				if allowedAttrs[a.Key] {
					sb.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
				}
			}
			sb.WriteByte('>')

		case html.EndTagToken:
			tok := z.Token()
			if droppedTags[tok.Data] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.Data] || voidTags[tok.Data] {
				continue
			}
			sb.WriteString("</" + tok.Data + ">")

		case html.TextToken:
			if skip == 0 {
				sb.WriteString(html.EscapeString(string(z.Text())))
			}
		}
	}
}
