package switchbrew

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/nxshot/capturedb/pkg/catalog"
	"github.com/nxshot/capturedb/pkg/errors"
)

// parseTitleTable extracts raw title records from the first wikitable of
// the page. Column layout: title ID, name, region; further columns
// (version, type, build IDs) are ignored. Rows with fewer than three cells
// are skipped.
func parseTitleTable(page []byte) ([]catalog.SourceRecord, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.WrapParse("html", "title list", err)
	}

	table := findTable(doc, "wikitable")
	if table == nil {
		return nil, errors.NewParseError("html", "title list", "no wikitable found", nil)
	}

	var records []catalog.SourceRecord
	for _, row := range findAll(table, "tr") {
		cells := findAll(row, "td")
		if len(cells) < 3 {
			// Header rows use <th> and fall through here.
			continue
		}

		records = append(records, catalog.SourceRecord{
			TitleID: nodeText(cells[0]),
			Name:    nodeText(cells[1]),
			Region:  nodeText(cells[2]),
		})
	}

	return records, nil
}

// findTable returns the first <table> whose class attribute contains the
// given class, searching depth-first.
func findTable(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTable(c, class); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns all descendant elements with the given tag, in document
// order.
func findAll(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			nodes = append(nodes, c)
			continue
		}
		nodes = append(nodes, findAll(c, tag)...)
	}
	return nodes
}

// hasClass reports whether the node's class attribute contains the class.
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// nodeText returns the concatenated text content of a node, trimmed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
