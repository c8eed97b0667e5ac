// Package extract pulls interactive elements out of an HTML document and packs
// them into size-bounded chunks for classification.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Tags is the allow-list of interactive element types, in output order.
var Tags = []string{"button", "input", "a", "select"}

// Elements returns the outer markup of every allow-listed element in html.
// Results are grouped by tag in Tags order; each group keeps document order.
// The HTML5 parser recovers from malformed markup instead of failing.
func Elements(document string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	var elements []string
	for _, tag := range Tags {
		var renderErr error
		doc.Find(tag).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			markup, err := goquery.OuterHtml(sel)
			if err != nil {
				renderErr = fmt.Errorf("render <%s>: %w", tag, err)
				return false
			}
			elements = append(elements, markup)
			return true
		})
		if renderErr != nil {
			return nil, renderErr
		}
	}
	return elements, nil
}
