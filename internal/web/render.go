// Package web renders the dashboard pages. Handlers produce a content
// fragment; this package wraps it in the shared layout and turns completion
// text (markdown) into HTML.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed static/*
var staticFiles embed.FS

var Template = `
<html>
  <head>
    <title>%s | Verdant</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <meta name="description" content="%s">
    <link rel="stylesheet" href="/static/verdant.css">
  </head>
  <body>
    <div id="head">
      <p class="main-header">SMART CITIES &amp; GREEN BUILDINGS</p>
      <p class="sub-header">Innovating for a Sustainable Tomorrow</p>
      <div id="nav">
        <a href="/">Home</a>
        <a href="/solutions">Smart Solutions</a>
        <a href="/greentech">Green Technologies</a>
        <a href="/assistant">AI Assistant</a>
        <a href="/analytics">Analytics</a>
      </div>
    </div>
    <div id="container">
      <div id="content">%s</div>
    </div>
    <div id="footer">
      <p><strong>Ajeenkya DY Patil School of Engineering, Lohegaon, Pune</strong></p>
      <p>Empowerment through quality technical education</p>
      <p>Approved by AICTE, Affiliated to Savitribai Phule Pune University</p>
    </div>
  </body>
</html>
`

// Render a markdown document as html
func Render(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

// RenderString renders a markdown string as html
func RenderString(v string) string {
	return string(Render([]byte(v)))
}

// RenderHTML renders the given content fragment in the page template
func RenderHTML(title, desc, content string) string {
	return fmt.Sprintf(Template, title, desc, content)
}

// Serve serves the embedded static assets under /static/
func Serve() http.Handler {
	sub, err := fs.Sub(fs.FS(staticFiles), "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
