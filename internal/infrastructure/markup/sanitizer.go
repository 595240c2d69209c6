// Package markup implements allowlist sanitization for clinician-authored
// rich text. Input of arbitrary shape is re-emitted from scratch: only tags
// from a fixed allowlist survive, and no attribute string from the input ever
// reaches the output. Allowed attributes are re-synthesized from canonical
// values.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// allowedTags is the closed tag allowlist. Everything else is dropped.
var allowedTags = map[string]bool{
	"b":      true,
	"strong": true,
	"i":      true,
	"em":     true,
	"u":      true,
	"br":     true,
	"ul":     true,
	"ol":     true,
	"li":     true,
	"p":      true,
	"div":    true,
	"span":   true,
	"font":   true,
}

// allowedColors maps lowercased input color values to the canonical value
// emitted in their place. Only these three colors may survive sanitization.
var allowedColors = map[string]string{
	"black":   "black",
	"#b91c1c": "#b91c1c",
	"#1d4ed8": "#1d4ed8",
}

// Sanitize transforms untrusted rich text into markup that is safe to embed
// verbatim in a composed document. Script, style and comment blocks are
// removed wholesale; disallowed tags are dropped while their inner text is
// kept; allowed tags are re-emitted in canonical form with at most one
// re-synthesized color attribute. Sanitize is idempotent.
func Sanitize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	z := html.NewTokenizer(strings.NewReader(input))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed tail; either way we are done.
			return b.String()
		case html.TextToken:
			b.WriteString(html.EscapeString(z.Token().Data))
		case html.CommentToken, html.DoctypeToken:
			// dropped wholesale
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data == "script" || tok.Data == "style" {
				skipRawText(z, tok.Data)
				continue
			}
			writeOpenTag(&b, tok)
		case html.EndTagToken:
			tok := z.Token()
			if !allowedTags[tok.Data] {
				continue
			}
			if tok.Data == "br" {
				b.WriteString("<br/>")
				continue
			}
			b.WriteString("</" + tok.Data + ">")
		}
	}
}

// writeOpenTag emits the canonical form of an allowed opening tag. All
// original attributes are discarded; for font and span the color value is
// extracted, checked against the allowlist and reconstructed from the
// canonical value when it matches.
func writeOpenTag(b *strings.Builder, tok html.Token) {
	if !allowedTags[tok.Data] {
		return
	}
	switch tok.Data {
	case "br":
		b.WriteString("<br/>")
	case "font":
		if color, ok := allowedColors[attrValue(tok, "color")]; ok {
			b.WriteString(`<font color="` + color + `">`)
		} else {
			b.WriteString("<font>")
		}
	case "span":
		if color, ok := allowedColors[styleColor(attrValue(tok, "style"))]; ok {
			b.WriteString(`<span style="color:` + color + `">`)
		} else {
			b.WriteString("<span>")
		}
	default:
		b.WriteString("<" + tok.Data + ">")
	}
}

// skipRawText discards everything up to and including the closing tag of a
// raw-text element (script or style). Unclosed blocks swallow the rest of
// the input, matching the strip-whole-block rule.
func skipRawText(z *html.Tokenizer, name string) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.EndTagToken:
			if tok := z.Token(); tok.Data == name {
				return
			}
		}
	}
}

// attrValue returns the lowercased, trimmed value of the named attribute, or
// empty when absent.
func attrValue(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return strings.ToLower(strings.TrimSpace(a.Val))
		}
	}
	return ""
}

// styleColor extracts the value of a color declaration from an inline style
// string. Only the first color declaration is considered.
func styleColor(style string) string {
	for decl := range strings.SplitSeq(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(prop) == "color" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// IsEmpty reports whether sanitized markup carries no visible content: it
// strips every tag and treats non-breaking spaces as blank. Used to decide
// when a default placeholder should replace the incidents section.
func IsEmpty(s string) bool {
	var text strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			stripped := strings.NewReplacer("&nbsp;", " ", "\u00a0", " ").Replace(text.String())
			return strings.TrimSpace(stripped) == ""
		case html.TextToken:
			text.WriteString(z.Token().Data)
		}
	}
}
