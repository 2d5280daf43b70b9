// Package importer extracts bulk-add candidates from markup saved off
// the follow page of the source site. The class names matched here are
// the site's generated-CSS contract and change when the site ships a
// new build; they are versioned constants, not invariants.
package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Class-name fragments of the source site's follow-list markup.
const (
	userItemClass = "DivUserItem"
	nicknameClass = "SpanNickname"
	uniqueIDClass = "PUniqueId"
)

// Candidate is one extracted account, in document order.
type Candidate struct {
	DisplayName string
	Handle      string
}

// Parse extracts candidates from follow-page markup. Only items where
// both fields resolve to non-empty text are returned; the handle may be
// recovered from a profile link when the dedicated field is absent.
// Malformed markup yields whatever candidates were recoverable; the
// html parser itself never fails on text input.
func Parse(r io.Reader) ([]Candidate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && classContains(n, userItemClass) {
			if c, ok := extractCandidate(n); ok {
				candidates = append(candidates, c)
			}
			return // user items do not nest
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return candidates, nil
}

// extractCandidate pulls the name and handle out of one user item.
func extractCandidate(item *html.Node) (Candidate, bool) {
	name := textOfClass(item, nicknameClass)
	handle := textOfClass(item, uniqueIDClass)

	if handle == "" {
		// Fall back to the profile link: href="/@<handle>"
		if link := findProfileLink(item); link != nil {
			href := getAttr(link, "href")
			handle = strings.TrimSpace(strings.TrimPrefix(href, "/@"))
		}
	}

	if name == "" || handle == "" {
		return Candidate{}, false
	}
	return Candidate{DisplayName: name, Handle: handle}, true
}

// textOfClass returns the trimmed text of the first descendant whose
// class attribute contains the given fragment.
func textOfClass(n *html.Node, fragment string) string {
	if node := findByClass(n, fragment); node != nil {
		return getTextContent(node)
	}
	return ""
}

func findByClass(n *html.Node, fragment string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && classContains(c, fragment) {
			return c
		}
		if found := findByClass(c, fragment); found != nil {
			return found
		}
	}
	return nil
}

func findProfileLink(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, "a") &&
			strings.HasPrefix(getAttr(c, "href"), "/@") {
			return c
		}
		if found := findProfileLink(c); found != nil {
			return found
		}
	}
	return nil
}

func classContains(n *html.Node, fragment string) bool {
	return strings.Contains(getAttr(n, "class"), fragment)
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
