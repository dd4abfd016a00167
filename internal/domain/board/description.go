package board

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true, atom.Template: true,
}

// DescriptionParagraphs converts a scraped description, which may be plain text or an HTML
// fragment, into paragraphs of plain text. Block elements and blank lines separate paragraphs;
// whitespace inside a paragraph is collapsed.
func DescriptionParagraphs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return splitPlain(raw)
	}

	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if p := strings.Join(strings.Fields(cur.String()), " "); p != "" {
			out = append(out, p)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts := strings.Split(strings.ReplaceAll(n.Data, "\r\n", "\n"), "\n\n")
			for i, part := range parts {
				if i > 0 {
					flush()
				}
				cur.WriteString(part)
			}
			return
		case html.ElementNode:
			if skippedElements[n.DataAtom] {
				return
			}
			if blockElements[n.DataAtom] {
				flush()
				defer flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flush()
	return out
}

func splitPlain(raw string) []string {
	var out []string
	for _, part := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		if p := strings.Join(strings.Fields(part), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}
