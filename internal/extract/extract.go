package extract

import (
    "bytes"
    "fmt"
    "strings"

    "golang.org/x/net/html"
)

// Document is the human-visible content of a page.
type Document struct {
    Title string
    Text  string
}

// FromHTML parses UTF-8 HTML and returns its visible text. Script, style and
// template contents and comments are dropped; everything else, including the
// title and boilerplate like nav and footer, is kept since contact addresses
// tend to live there. Block elements are separated by newlines so that text in
// adjacent blocks does not fuse together.
func FromHTML(input []byte) (Document, error) {
    node, err := html.Parse(bytes.NewReader(input))
    if err != nil {
        return Document{}, fmt.Errorf("parse html: %w", err)
    }
    if node == nil {
        return Document{}, fmt.Errorf("parse html: empty document")
    }

    var b strings.Builder
    collectText(&b, node)
    return Document{
        Title: strings.TrimSpace(findTitle(node)),
        Text:  normalizeWhitespace(b.String()),
    }, nil
}

func findTitle(n *html.Node) string {
    t := findFirst(n, "title")
    if t == nil || t.FirstChild == nil {
        return ""
    }
    return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
    var res *html.Node
    var dfs func(*html.Node)
    dfs = func(cur *html.Node) {
        if res != nil {
            return
        }
        if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
            res = cur
            return
        }
        for c := cur.FirstChild; c != nil; c = c.NextSibling {
            dfs(c)
            if res != nil {
                return
            }
        }
    }
    dfs(n)
    return res
}

func collectText(b *strings.Builder, n *html.Node) {
    switch n.Type {
    case html.CommentNode, html.DoctypeNode:
        return
    case html.TextNode:
        b.WriteString(n.Data)
        return
    case html.ElementNode:
        switch strings.ToLower(n.Data) {
        case "script", "style", "template":
            return
        }
    }

    block := n.Type == html.ElementNode && isBlock(n.Data)
    if block {
        b.WriteString("\n")
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        collectText(b, c)
    }
    if block {
        b.WriteString("\n")
    }
}

func isBlock(tag string) bool {
    switch strings.ToLower(tag) {
    case "address", "article", "aside", "blockquote", "br", "dd", "div", "dl", "dt",
        "fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3", "h4",
        "h5", "h6", "header", "hr", "li", "main", "nav", "ol", "p", "pre", "section",
        "table", "td", "th", "title", "tr", "ul":
        return true
    }
    return false
}

func normalizeWhitespace(s string) string {
    // Collapse multiple spaces and blank lines
    lines := strings.Split(s, "\n")
    out := make([]string, 0, len(lines))
    for _, line := range lines {
        trimmed := strings.TrimSpace(line)
        if trimmed == "" {
            if len(out) > 0 && out[len(out)-1] == "" {
                continue
            }
            out = append(out, "")
            continue
        }
        out = append(out, strings.Join(strings.Fields(trimmed), " "))
    }
    for len(out) > 0 && out[0] == "" {
        out = out[1:]
    }
    for len(out) > 0 && out[len(out)-1] == "" {
        out = out[:len(out)-1]
    }
    return strings.Join(out, "\n")
}
