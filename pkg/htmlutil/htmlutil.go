package htmlutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("prayertimes/htmlutil")

// GetText concatenates every text node under node, markup is dropped
// without inserting any separator.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Section: true, atom.Table: true, atom.Tr: true, atom.Ul: true,
}

var cellElements = map[atom.Atom]bool{
	atom.Td: true,
	atom.Th: true,
}

// VisibleText approximates the text a browser would render for sel: script
// and style contents are skipped, block elements end a line and table
// cells are separated by a space.
func VisibleText(ctx context.Context, sel *goquery.Selection) string {
	_, span := tracer.Start(ctx, "VisibleText")
	defer span.End()

	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		visibleTextRecursive(n, &buffer)
	}

	lines := strings.Split(buffer.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = Clean(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	text := strings.Join(out, "\n")

	span.SetAttributes(attribute.Int("lines", len(out)))
	return text
}

func visibleTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if hiddenElements[node.DataAtom] {
			return
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		visibleTextRecursive(child, buffer)
	}

	if node.Type != html.ElementNode {
		return
	}
	if blockElements[node.DataAtom] {
		buffer.WriteByte('\n')
	} else if cellElements[node.DataAtom] {
		buffer.WriteByte(' ')
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// Clean drops non-printable runes (bidi marks and the like), trims the
// result and collapses inner whitespace.
func Clean(s string) string {
	s = removeNonPrintable(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}
