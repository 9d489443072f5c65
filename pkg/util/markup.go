package util

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	bodyPolicy = bluemonday.UGCPolicy().AddTargetBlankToFullyQualifiedLinks(true)
	textPolicy = bluemonday.StrictPolicy()
)

// RenderMarkdown converts post bodies to sanitized HTML. Raw HTML in the
// source is dropped.
func RenderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return textPolicy.Sanitize(src)
	}
	return bodyPolicy.Sanitize(buf.String())
}

// PlainText strips every tag from s. The result is text, not HTML: entities
// the sanitizer produces are decoded again.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
