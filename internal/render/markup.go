package render

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape makes s safe for element content and double quoted attribute values.
func Escape(s string) string {
	return escaper.Replace(s)
}

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Markup is an HTML fragment. Values can only be produced by the
// constructors in this package, all of which escape dynamic text.
type Markup struct {
	html string
}

func (m Markup) String() string {
	return m.html
}

func (m Markup) IsEmpty() bool {
	return m.html == ""
}

type Attr struct {
	Key   string
	Value string
}

var voidElements = map[string]bool{
	"br":   true,
	"hr":   true,
	"img":  true,
	"link": true,
	"meta": true,
}

func Text(s string) Markup {
	return Markup{Escape(s)}
}

func Textf(format string, args ...interface{}) Markup {
	return Text(fmt.Sprintf(format, args...))
}

// El wraps children in tag. Tag names are expected to be literals.
func El(tag string, children ...Markup) Markup {
	return ElAttrs(tag, nil, children...)
}

func ElAttrs(tag string, attrs []Attr, children ...Markup) Markup {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(Escape(a.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if voidElements[tag] {
		return Markup{b.String()}
	}
	for _, c := range children {
		b.WriteString(c.html)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return Markup{b.String()}
}

func Link(href, text string) Markup {
	return ElAttrs("a", []Attr{{"href", href}}, Text(text))
}

func Group(children ...Markup) Markup {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(c.html)
	}
	return Markup{b.String()}
}

// List renders items as an unordered list, nothing when items is empty.
func List(items []string) Markup {
	if len(items) == 0 {
		return Markup{}
	}
	lis := make([]Markup, 0, len(items))
	for _, it := range items {
		lis = append(lis, El("li", Text(it)))
	}
	return El("ul", lis...)
}

// Sanitized keeps the safe subset of an HTML fragment coming from the
// database, such as blog content.
func Sanitized(fragment string) Markup {
	return Markup{ugcPolicy.Sanitize(fragment)}
}

func Markdown(src string) Markup {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	out := blackfriday.Run([]byte(src), blackfriday.WithRenderer(renderer))
	return Markup{string(ugcPolicy.SanitizeBytes(out))}
}

// raw is only used for output that is already encoded, like JSON-LD.
func raw(s string) Markup {
	return Markup{s}
}
