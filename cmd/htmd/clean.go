package main

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// droppedTags are removed with their content by cleanHTML.
var droppedTags = map[string]struct{}{
	"base":     {},
	"head":     {},
	"iframe":   {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"object":   {},
	"script":   {},
	"style":    {},
	"template": {},
	"title":    {},
}

// cleanHTML normalizes arbitrary HTML into the dialect the tokenizer
// accepts: the body subtree only, no comments, lower-case tag names,
// double-quoted attributes and explicitly closed elements. Elements for
// which known reports false are replaced by their children.
func cleanHTML(raw string, known func(tag string) bool) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	body := findBodyNode(doc)
	if body == nil {
		return "", nil
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		for _, cleaned := range cleanNode(c, known) {
			if err := html.Render(&b, cleaned); err != nil {
				return "", fmt.Errorf("render html: %w", err)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func findBodyNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "body") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

func cleanNode(n *html.Node, known func(string) bool) []*html.Node {
	switch n.Type {
	case html.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if _, dropped := droppedTags[tag]; dropped {
			return nil
		}
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, cleanNode(c, known)...)
		}
		if known != nil && !known(tag) {
			return children
		}
		clone := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: n.DataAtom}
		for _, a := range n.Attr {
			if a.Namespace != "" || strings.HasPrefix(a.Key, "on") || a.Key == "style" {
				continue
			}
			clone.Attr = append(clone.Attr, a)
		}
		for _, child := range children {
			clone.AppendChild(child)
		}
		return []*html.Node{clone}
	}
	// comments, doctypes and raw nodes
	return nil
}
