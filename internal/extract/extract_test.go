package extract

import (
    "strings"
    "testing"
)

func TestFromHTML_DropsScriptsAndMarkup(t *testing.T) {
    html := `<!doctype html>
    <html>
      <head>
        <title>Contact</title>
        <style>.mail::after { content: "style@hidden.com"; }</style>
        <script>var m = "script@hidden.com";</script>
      </head>
      <body>
        <!-- comment@hidden.com -->
        <h1>Reach us</h1>
        <p>Write to <a href="mailto:href@hidden.com">sales@example.com</a>.</p>
        <template><p>template@hidden.com</p></template>
      </body>
    </html>`

    doc, err := FromHTML([]byte(html))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if doc.Title != "Contact" {
        t.Fatalf("expected title 'Contact', got %q", doc.Title)
    }
    if !strings.Contains(doc.Text, "sales@example.com") {
        t.Fatalf("expected visible address in text; got %q", doc.Text)
    }
    for _, hidden := range []string{"style@hidden.com", "script@hidden.com", "comment@hidden.com", "href@hidden.com", "template@hidden.com", "<p>", "mailto:"} {
        if strings.Contains(doc.Text, hidden) {
            t.Fatalf("did not expect %q in extracted text: %q", hidden, doc.Text)
        }
    }
}

func TestFromHTML_KeepsNavAndFooter(t *testing.T) {
    html := `<html><body>
      <nav>nav@example.com</nav>
      <main><p>Body text</p></main>
      <footer>Imprint: footer@example.com</footer>
    </body></html>`

    doc, err := FromHTML([]byte(html))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !strings.Contains(doc.Text, "nav@example.com") || !strings.Contains(doc.Text, "footer@example.com") {
        t.Fatalf("expected nav and footer text to be kept; got %q", doc.Text)
    }
}

func TestFromHTML_BlocksDoNotFuse(t *testing.T) {
    html := `<div>mail</div><div>a@b.com</div><p>x</p><p>c@d.org</p>`
    doc, err := FromHTML([]byte(html))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if strings.Contains(doc.Text, "maila@b.com") || strings.Contains(doc.Text, "xc@d.org") {
        t.Fatalf("adjacent blocks fused: %q", doc.Text)
    }
}

func TestFromHTML_InlineStaysJoined(t *testing.T) {
    doc, err := FromHTML([]byte(`<p>john<span>.doe</span>@example.com</p>`))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if doc.Text != "john.doe@example.com" {
        t.Fatalf("expected inline text joined, got %q", doc.Text)
    }
}

func TestFromHTML_PlainTextInput(t *testing.T) {
    doc, err := FromHTML([]byte("not really html, just x@y.com"))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if doc.Text != "not really html, just x@y.com" {
        t.Fatalf("unexpected text: %q", doc.Text)
    }
}
