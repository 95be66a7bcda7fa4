package handlers

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"winwin/internal/content"
	"winwin/internal/logger"
)

type navItem struct {
	Path    string
	Section string
}

var navItems = []navItem{
	{Path: "/", Section: "home"},
	{Path: "/training", Section: "training"},
	{Path: "/media", Section: "media"},
	{Path: "/partnership", Section: "partnership"},
	{Path: "/support", Section: "support"},
}

func templateFuncMap(publicURL string) template.FuncMap {
	return template.FuncMap{
		"percent":  percent,
		"markdown": renderMarkdown,
		"join":     strings.Join,
		"hasFile":  content.HasFile,
		"fileName": content.FileName,
		"fileKind": func(link string) string { return string(content.KindOf(link)) },
		"fileURL": func(link string) string {
			return content.ResolveFileURL(publicURL, link)
		},
		"navItems": func() []navItem { return navItems },
		"deref": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
	}
}

// percent scales part against total to a 0-100 bar width.
func percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return part * 100 / total
}

// renderMarkdown converts a content description to HTML. Raw HTML in the
// source is not rendered.
func renderMarkdown(source string) template.HTML {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		logger.Get().Warn().Err(err).Msg("failed to render markdown, falling back to escaped text")
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
