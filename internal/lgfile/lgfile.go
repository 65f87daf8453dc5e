// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lgfile splits .lg file content into named templates and writes
// templates back out. It only understands the file layout: "# Name"
// header lines, "> " comment lines and everything before the first header
// (imports). Template bodies are kept verbatim.
package lgfile

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"lgstudio/internal/models"
)

// ErrDuplicateName is returned when two headers declare the same name.
var ErrDuplicateName = errors.New("duplicate template name")

// Document is a parsed .lg file.
type Document struct {
	// Preamble holds the lines before the first template header, such as
	// "[import](common.lg)" references and comments.
	Preamble  string
	Templates []models.Template
}

// Parse splits content into its preamble and templates.
func Parse(content string) (Document, error) {
	var (
		doc      Document
		preamble []string
		body     []string
		current  *models.Template
		seen     = map[string]int{}
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.Join(trimTrailingBlank(body), "\n")
		doc.Templates = append(doc.Templates, *current)
		body = body[:0]
	}

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")

		if strings.HasPrefix(text, "#") {
			name := strings.TrimSpace(strings.TrimPrefix(text, "#"))
			if name == "" {
				return Document{}, fmt.Errorf("line %d: template header without a name", line)
			}
			if first, dup := seen[name]; dup {
				return Document{}, fmt.Errorf("line %d: %w %q (first declared on line %d)", line, ErrDuplicateName, name, first)
			}
			seen[name] = line
			flush()
			current = &models.Template{Name: name}
			continue
		}

		if current == nil {
			preamble = append(preamble, text)
			continue
		}
		body = append(body, text)
	}
	if err := sc.Err(); err != nil {
		return Document{}, fmt.Errorf("scan lg content: %w", err)
	}
	flush()

	doc.Preamble = strings.Join(trimTrailingBlank(preamble), "\n")
	return doc, nil
}

// Format writes doc back as .lg content. Parse(Format(doc)) yields doc only
// when no template body has a line starting with '#' and no body ends in
// blank lines; such a line would be read back as a new header.
func Format(doc Document) string {
	var b strings.Builder
	if doc.Preamble != "" {
		b.WriteString(doc.Preamble)
		b.WriteString("\n\n")
	}
	for i, t := range doc.Templates {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("# ")
		b.WriteString(t.Name)
		b.WriteString("\n")
		if t.Body != "" {
			b.WriteString(t.Body)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
