// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns backend results into terminal tables, JSON or YAML,
// and HTML reports. Server-produced HTML fragments are never trusted: they
// pass through Sanitize before being printed or written to disk.
package render

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts, event handlers, javascript: URLs and any other
// markup outside the user-generated-content allowlist.
func Sanitize(fragment string) string {
	return policy.Sanitize(fragment)
}

var strict = bluemonday.StrictPolicy()

// StripTags removes all markup from s and returns plain text. Entities are
// decoded; text that decodes into markup is stripped again.
func StripTags(s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return strict.Sanitize(s)
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown converts markdown text to sanitized HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return Sanitize(buf.String()), nil
}

// blockElements end the current line when they open or close.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "section": true,
}

// HTMLToText flattens an HTML fragment into plain text for the terminal.
// The fragment is sanitized first, so script and style contents never
// appear. List items are prefixed with "- ".
func HTMLToText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(Sanitize(fragment)))
	var b strings.Builder
	newline := func() {
		s := b.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far is kept.
			return tidyLines(b.String())
		case html.TextToken:
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if text == "" {
				continue
			}
			s := b.String()
			if len(s) > 0 && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "- ") {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if blockElements[tag] {
				newline()
			}
			if tag == "li" {
				b.WriteString("- ")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if blockElements[string(name)] {
				newline()
			}
		}
	}
}

func tidyLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && line != "-" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
