// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview renders a template body as HTML for the table's preview
// pane. Response-line bodies ("- Hello\n- Hi") read as a Markdown list and
// are rendered by goldmark; structured bodies ("[HeroCard ...]") are shown
// as a highlighted code block. Raw HTML in bodies is escaped.
package preview

import (
	"bytes"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
)

// Render converts a template body into an HTML fragment.
func Render(body string) (string, error) {
	source := strings.TrimSpace(body)
	if strings.HasPrefix(source, "[") {
		source = "```text\n" + source + "\n```"
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
